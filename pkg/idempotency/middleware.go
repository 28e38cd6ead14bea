package idempotency

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store tracks request keys that have already been accepted, backed by
// redis SetNX with a TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Key(method, path, clientKey string) string {
	return fmt.Sprintf("idem:%s:%s:%s", method, path, clientKey)
}

// Seen records the key and reports whether it was already present.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// Middleware rejects repeated mutations carrying the same Idempotency-Key
// header with 409. Requests without the header pass through untouched; on a
// redis failure the request proceeds rather than blocking the user.
func Middleware(log *slog.Logger, store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := r.Header.Get("Idempotency-Key")
			if clientKey == "" || r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			key := store.Key(r.Method, r.URL.Path, clientKey)
			seen, err := store.Seen(r.Context(), key)
			if err != nil {
				log.Error("idempotency check failed", "key", key, "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				log.Info("duplicate request rejected", "key", key)
				http.Error(w, "duplicate request", http.StatusConflict)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
