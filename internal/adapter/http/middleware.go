package httpadapter

import (
	"context"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"campforge/internal/core/domain"
)

type ctxKey int

const actorKey ctxKey = iota

// identity resolves the acting user from the X-User-Id header placed by
// the authenticating proxy and stores it on the request context. An
// absent header yields an empty Actor; the usecases reject anonymous
// mutations themselves.
func identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := domain.Actor{UserID: r.Header.Get("X-User-Id")}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

// actorFrom returns the Actor stored by the identity middleware.
func actorFrom(r *http.Request) domain.Actor {
	actor, _ := r.Context().Value(actorKey).(domain.Actor)
	return actor
}

// rateLimit bounds requests per client, keyed by user id when present and
// remote address otherwise. Limiters for idle clients are kept; the map
// is small enough in practice that eviction is not worth the complexity.
func rateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[key]
		if !ok {
			l = rate.NewLimiter(rate.Limit(perSecond), burst)
			limiters[key] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-User-Id")
			if key == "" {
				if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
					key = host
				} else {
					key = r.RemoteAddr
				}
			}
			if !limiterFor(key).Allow() {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
