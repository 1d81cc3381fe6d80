package middleware

import (
	"context"
	"net/http"

	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/auth"
)

const actorKey contextKey = "actor"

// Actor is the authenticated identity attached to a request. Requests
// without one are anonymous.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(manager *auth.JWTManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthenticated", err, env)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthenticated", err, env)
				return
			}

			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), claimsToActor(claims))))
		})
	}
}

// OptionalAuth attaches an actor when a valid bearer token is present
// and lets everything else through anonymously. Read endpoints use this
// so unauthenticated callers are still served.
func OptionalAuth(manager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err == nil {
				if claims, err := manager.Validate(token); err == nil {
					r = r.WithContext(withActor(r.Context(), claimsToActor(claims)))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func claimsToActor(claims *auth.Claims) *Actor {
	return &Actor{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
	}
}

func withActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// WithActor attaches an actor to the context. Exposed for tests.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return withActor(ctx, actor)
}

// ActorFrom returns the request's actor, or nil for anonymous requests.
func ActorFrom(r *http.Request) *Actor {
	if r == nil {
		return nil
	}
	if actor, ok := r.Context().Value(actorKey).(*Actor); ok {
		return actor
	}
	return nil
}

// ActorID returns the actor's ID, or "" for anonymous requests.
func ActorID(r *http.Request) string {
	if actor := ActorFrom(r); actor != nil {
		return actor.ID
	}
	return ""
}
