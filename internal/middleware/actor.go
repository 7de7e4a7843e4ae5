package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	// ContextKeyActor is the key for storing the acting identity in request context.
	ContextKeyActor contextKey = "actor"
	// ContextKeyRequestID is the key for the per-request id.
	ContextKeyRequestID contextKey = "request_id"
)

// ErrNoActor is returned when a handler runs without an actor in context.
var ErrNoActor = errors.New("no actor in request context")

// actorHeader carries the authenticated identity set by the upstream
// gateway. Authentication itself happens outside this service; the core only
// consumes the resulting actor string for audit attribution.
const actorHeader = "X-Actor"

// ActorMiddleware extracts the acting identity from trusted headers.
type ActorMiddleware struct{}

// NewActorMiddleware creates a new ActorMiddleware.
func NewActorMiddleware() *ActorMiddleware {
	return &ActorMiddleware{}
}

// RequireActor rejects requests without an actor identity and stores the
// identity plus a generated request id in the request context.
func (m *ActorMiddleware) RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get(actorHeader)
		if actor == "" {
			http.Error(w, "missing actor identity", http.StatusUnauthorized)
			return
		}

		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), ContextKeyActor, actor)
		ctx = context.WithValue(ctx, ContextKeyRequestID, requestID)

		slog.Debug("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"actor", actor,
		)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActorFromContext retrieves the acting identity from request context.
func GetActorFromContext(ctx context.Context) (string, error) {
	actor, ok := ctx.Value(ContextKeyActor).(string)
	if !ok || actor == "" {
		return "", ErrNoActor
	}
	return actor, nil
}

// GetRequestIDFromContext retrieves the request id, or "" when absent.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}
