// internal/auth/tokens.go
//
// JWT and cookie handling for signed-in players.
// Responsibilities:
//   - Sign HS256 tokens carrying id/username with a configurable expiry.
//   - Parse and verify tokens from the Authorization header or auth cookie.
//   - Set/clear the auth cookie and hand out a stable anonymous cookie for guests.

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const anonCookieName = "bloxmision_anon"

var ErrInvalidToken = errors.New("invalid token")

// Options configures token signing and cookie attributes.
type Options struct {
	Secret      string
	ExpiresDays int
	CookieName  string
	Production  bool
}

// Claims is the identity carried by a verified token.
type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Tokens signs and verifies auth tokens.
type Tokens struct {
	opts Options
	now  func() time.Time
}

func NewTokens(opts Options) *Tokens {
	if opts.ExpiresDays <= 0 {
		opts.ExpiresDays = 14
	}
	if opts.CookieName == "" {
		opts.CookieName = "bloxmision_token"
	}
	return &Tokens{opts: opts, now: time.Now}
}

// Sign creates an HS256 JWT with id/username and the configured expiry.
func (t *Tokens) Sign(id, username string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(time.Duration(t.opts.ExpiresDays) * 24 * time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := tok.SignedString([]byte(t.opts.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return ss, exp, nil
}

// Parse verifies a token and returns its claims.
func (t *Tokens) Parse(tokenStr string) (Claims, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tk.Header["alg"])
		}
		return []byte(t.opts.Secret), nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{ID: id, Username: username}, nil
}

// sameSite is None for production (cross-site client), Lax otherwise.
func (t *Tokens) sameSite() http.SameSite {
	if t.opts.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetCookie writes the auth token cookie.
func (t *Tokens) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   t.opts.Production,
		SameSite: t.sameSite(),
		Expires:  exp,
	})
}

// ClearCookie deletes the auth token cookie.
func (t *Tokens) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.opts.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   t.opts.Production,
		SameSite: t.sameSite(),
		MaxAge:   -1,
	})
}

// FromRequest extracts a bearer token from the Authorization header or auth cookie.
func (t *Tokens) FromRequest(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(t.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// EnsureAnonID returns an existing anon cookie or sets a new one.
func (t *Tokens) EnsureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   t.opts.Production,
		SameSite: t.sameSite(),
		Expires:  t.now().Add(180 * 24 * time.Hour),
	})
	return id
}
