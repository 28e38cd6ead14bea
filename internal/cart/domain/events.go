package domain

type NotificationEvent string

const (
	EventItemAdded   NotificationEvent = "ItemAdded"
	EventItemRemoved NotificationEvent = "ItemRemoved"
	EventCartCleared NotificationEvent = "CartCleared"
)

// Notification is the user-facing acknowledgment emitted after a successful
// mutation. It rides a side channel and never feeds back into cart state.
type Notification struct {
	SessionID   string
	Event       NotificationEvent
	Title       string
	Description string
}
