package idem

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"community-service/internal/shared/httpx"
	"community-service/internal/shared/redisx"

	"github.com/redis/go-redis/v9"
)

type Store interface {
	PutNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type redisStore struct{ r *redis.Client }

func New(rdb *redisx.Client) Store {
	return &redisStore{r: rdb.R}
}

func (s *redisStore) PutNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.r.SetNX(ctx, "idem:"+key, "1", ttl).Result()
}

// Middleware rejects a repeat of a request that already claimed the same
// Idempotency-Key. Requests without the header pass through; a guard outage
// fails open so retries never become less safe than no guard at all.
func Middleware(s Store, ttl time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Idempotency-Key")
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		ok, err := s.PutNX(r.Context(), key, ttl)
		if err != nil {
			log.Printf("idempotency guard unavailable: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			httpx.WriteError(w, http.StatusConflict, errors.New("duplicate request"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
