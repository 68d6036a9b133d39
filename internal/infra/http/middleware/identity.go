package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/xavierca1/maria-crm/internal/entity"
)

type actorKey struct{}

func WithActor(ctx context.Context, actor *entity.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (*entity.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(*entity.Actor)
	return actor, ok && actor != nil
}

type ActorLoader interface {
	FindActor(ctx context.Context, id int64) (*entity.Actor, error)
}

// Identity resolves the user named by header (set by the upstream identity
// provider) and stores it in the request context. Requests without the header
// continue anonymously; RequirePermission rejects them where it matters.
func Identity(header string, users ActorLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(header))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				writeError(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}

			actor, err := users.FindActor(r.Context(), id)
			if errors.Is(err, entity.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}
			if err != nil {
				log.Printf("❌ [HTTP] loading actor %d: %v", id, err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}
			if !actor.Can(permission) {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeError emits the same envelope the handlers use.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"data":    nil,
		"error":   map[string]any{"message": message, "details": map[string]any{}},
		"meta":    map[string]any{},
	})
}
