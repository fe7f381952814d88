package auth

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaquimColacilli/bloxmision-sub001/assets"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/store"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db, assets.Migrations()))
	return db
}

func TestValidateSignup(t *testing.T) {
	assert.NoError(t, validateSignup("ana_01", "password1"))
	assert.Error(t, validateSignup("an", "password1"))
	assert.Error(t, validateSignup("ana-01", "password1"))
	assert.Error(t, validateSignup("ana", "short"))
}

func TestUsers_CreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(openTestDB(t))

	u, err := users.Create(ctx, "  Ana ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Username)
	assert.NotEmpty(t, u.ID)

	_, err = users.Create(ctx, "ana", "password2")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := users.Authenticate(ctx, "ANA", "password1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.Authenticate(ctx, "ana", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate(ctx, "nobody", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	byID, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", byID.Username)
	_, err = users.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTokens_SignParse(t *testing.T) {
	tk := NewTokens(Options{Secret: "s3cret", ExpiresDays: 1})
	tok, exp, err := tk.Sign("u1", "ana")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, time.Minute)

	c, err := tk.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, Claims{ID: "u1", Username: "ana"}, c)

	other := NewTokens(Options{Secret: "other"})
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	tk.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = tk.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")
}

func TestTokens_FromRequest(t *testing.T) {
	tk := NewTokens(Options{Secret: "s", CookieName: "tok"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, tk.FromRequest(r))

	r.AddCookie(&http.Cookie{Name: "tok", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", tk.FromRequest(r))

	r.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", tk.FromRequest(r))
}

func TestTokens_Cookies(t *testing.T) {
	tk := NewTokens(Options{Secret: "s", Production: true})

	w := httptest.NewRecorder()
	tk.SetCookie(w, "abc", time.Now().Add(time.Hour))
	tk.ClearCookie(w)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookies[0].SameSite)
	assert.Equal(t, -1, cookies[1].MaxAge)

	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	id := tk.EnsureAnonID(w, r)
	assert.NotEmpty(t, id)
	require.Len(t, w.Result().Cookies(), 1)

	r.AddCookie(&http.Cookie{Name: anonCookieName, Value: id})
	w = httptest.NewRecorder()
	assert.Equal(t, id, tk.EnsureAnonID(w, r))
	assert.Empty(t, w.Result().Cookies())
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(openTestDB(t))
	u, err := users.Create(ctx, "ana", "password1")
	require.NoError(t, err)

	tk := NewTokens(Options{Secret: "s"})
	good, _, err := tk.Sign(u.ID, u.Username)
	require.NoError(t, err)
	ghost, _, err := tk.Sign("deleted-user", "ghost")
	require.NoError(t, err)

	m := NewMiddleware(tk, users)
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := UserFrom(r.Context()); ok {
			_, _ = w.Write([]byte(c.Username))
			return
		}
		_, _ = w.Write([]byte("guest"))
	})

	call := func(h http.Handler, token string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, "ana", call(m.Optional(echo), good).Body.String())
	assert.Equal(t, "guest", call(m.Optional(echo), "").Body.String())
	assert.Equal(t, "guest", call(m.Optional(echo), ghost).Body.String())

	assert.Equal(t, "ana", call(m.Require(echo), good).Body.String())
	assert.Equal(t, http.StatusUnauthorized, call(m.Require(echo), "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(m.Require(echo), "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, call(m.Require(echo), ghost).Code)
}
