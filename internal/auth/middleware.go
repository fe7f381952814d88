package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

type ctxUserKey struct{}

// WithUser returns a copy of ctx carrying c.
func WithUser(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, &c)
}

// UserFrom returns the signed-in player of ctx, if any.
func UserFrom(ctx context.Context) (Claims, bool) {
	c, _ := ctx.Value(ctxUserKey{}).(*Claims)
	if c == nil {
		return Claims{}, false
	}
	return *c, true
}

// Middleware resolves tokens into request users. The user must still exist.
type Middleware struct {
	tokens *Tokens
	users  *Users
}

func NewMiddleware(tokens *Tokens, users *Users) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

func (m *Middleware) resolve(r *http.Request) (Claims, error) {
	tok := m.tokens.FromRequest(r)
	if tok == "" {
		return Claims{}, ErrInvalidToken
	}
	c, err := m.tokens.Parse(tok)
	if err != nil {
		return Claims{}, err
	}
	if _, err := m.users.FindByID(r.Context(), c.ID); err != nil {
		return Claims{}, ErrInvalidToken
	}
	return c, nil
}

// Optional decorates requests with the user when a valid token is present.
// It never 401s; used for routes where guests are allowed.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := m.resolve(r); err == nil {
			r = r.WithContext(WithUser(r.Context(), c))
		}
		next.ServeHTTP(w, r)
	})
}

// Require enforces a valid token and injects the user into the request context.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.tokens.FromRequest(r) == "" {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		c, err := m.resolve(r)
		if err != nil {
			hlog.FromRequest(r).Debug().Err(err).Msg("rejected token")
			http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), c)))
	})
}
