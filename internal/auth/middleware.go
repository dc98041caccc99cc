package auth

import (
	"context"
	"net/http"
)

// ctxUserKey is the context key type for storing the authenticated user.
type ctxUserKey struct{}

// Principal is placed into the request context by the middleware.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, p)
}

// FromContext returns the authenticated user, or nil for guests.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(ctxUserKey{}).(*Principal)
	return p
}

// Middleware resolves tokens into principals.
type Middleware struct {
	Tokens *Tokens
	Users  *Users
}

// resolve returns the principal for a valid token whose user still exists.
func (m *Middleware) resolve(r *http.Request) *Principal {
	tok := m.Tokens.FromRequest(r)
	if tok == "" {
		return nil
	}
	claims, err := m.Tokens.Parse(tok)
	if err != nil {
		return nil
	}
	if _, err := m.Users.FindByID(r.Context(), claims.ID); err != nil {
		return nil
	}
	return &Principal{ID: claims.ID, Username: claims.Username}
}

// Optional decorates requests with the user when a valid token is present.
// It never rejects; used for routes where guests are allowed.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := m.resolve(r); p != nil {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

// Required enforces a valid token and injects the user into the request context.
func (m *Middleware) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := m.resolve(r)
		if p == nil {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}
