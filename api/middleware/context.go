package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const ctxActorEmail contextKey = "actor_email"

const actorEmailHeader = "X-Actor-Email"

// ActorEmailFromContext returns the acting staff member's email, if set.
func ActorEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActorEmail).(string); ok {
		return v
	}
	return ""
}

// WithActorEmail injects the acting staff member's email into the context.
func WithActorEmail(ctx context.Context, email string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActorEmail, email)
}

// ActorContext captures the dashboard user's identity header so mutations
// can be attributed in the activity log.
func ActorContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := strings.TrimSpace(r.Header.Get(actorEmailHeader))
			if email == "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActorEmail(r.Context(), email)))
		})
	}
}
