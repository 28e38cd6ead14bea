package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/crocshop/cart-service/internal/cart/application"
	"github.com/crocshop/cart-service/internal/cart/domain"
	catalogapp "github.com/crocshop/cart-service/internal/catalog/application"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("cart-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/sessions", h.newSession)
	r.Delete("/sessions/{sessionID}", h.endSession)
	r.Route("/carts/{sessionID}", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addItem)
		r.Put("/items/{productID}", h.updateQuantity)
		r.Delete("/items/{productID}", h.removeItem)
		r.Post("/checkout", h.checkout)
	})
	return r
}

// newSession mints a session id for a fresh browsing session; the cart
// itself is created lazily on first mutation.
func (h *Handler) newSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"session_id": application.NewSessionID()})
}

func (h *Handler) endSession(w http.ResponseWriter, r *http.Request) {
	h.service.EndSession(r.Context(), chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

type addItemReq struct {
	ProductID string `json:"product_id"`
}

type updateQuantityReq struct {
	Quantity int `json:"quantity"`
}

type lineView struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	PriceCents     int64  `json:"price_cents"`
	Quantity       int    `json:"quantity"`
	LineTotalCents int64  `json:"line_total_cents"`
}

type cartView struct {
	Items      []lineView `json:"items"`
	TotalCents int64      `json:"total_cents"`
	ItemCount  int        `json:"item_count"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetCart")
	defer span.End()

	state := h.service.Cart(ctx, chi.URLParam(r, "sessionID"))
	writeCart(w, http.StatusOK, state)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddItem")
	defer span.End()

	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	state, err := h.service.AddToCart(ctx, chi.URLParam(r, "sessionID"), req.ProductID)
	if err != nil {
		if errors.Is(err, catalogapp.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		h.log.Error("add to cart failed", "product_id", req.ProductID, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeCart(w, http.StatusOK, state)
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateQuantity")
	defer span.End()

	var req updateQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	state, err := h.service.UpdateQuantity(ctx, chi.URLParam(r, "sessionID"), chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		h.log.Error("update quantity failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeCart(w, http.StatusOK, state)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RemoveItem")
	defer span.End()

	state, err := h.service.RemoveFromCart(ctx, chi.URLParam(r, "sessionID"), chi.URLParam(r, "productID"))
	if err != nil {
		h.log.Error("remove from cart failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeCart(w, http.StatusOK, state)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClearCart")
	defer span.End()

	state, err := h.service.ClearCart(ctx, chi.URLParam(r, "sessionID"))
	if err != nil {
		h.log.Error("clear cart failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeCart(w, http.StatusOK, state)
}

// checkout is a stub: it acknowledges without touching cart state.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotImplemented)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "checkout not implemented yet"})
}

func writeCart(w http.ResponseWriter, status int, state domain.CartState) {
	view := cartView{Items: make([]lineView, 0, len(state.Items))}
	for _, l := range state.Items {
		view.Items = append(view.Items, lineView{
			ProductID:      l.Product.ID,
			Name:           l.Product.Name,
			PriceCents:     l.Product.PriceCents,
			Quantity:       l.Quantity,
			LineTotalCents: l.LineTotalCents(),
		})
	}
	view.TotalCents = state.TotalCents
	view.ItemCount = state.ItemCount

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(view)
}
