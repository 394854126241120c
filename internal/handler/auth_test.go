package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/essence-compass/internal/auth"
	"github.com/sakif/essence-compass/internal/handler"
	sqliteRepo "github.com/sakif/essence-compass/internal/repository/sqlite"
	"github.com/sakif/essence-compass/internal/service"
)

// newTestAuthHandler wires an AuthHandler against a real in-memory SQLite
// database. The handlers are thin, so testing them against the real service
// and repository catches wiring bugs that a handler-only mock would hide.
func newTestAuthHandler(t *testing.T) *handler.AuthHandler {
	t.Helper()

	db, err := sqliteRepo.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceWithCost(4) // bcrypt minimum, fast tests

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	authService := service.NewAuthService(db, tokens, passwords, logger)
	return handler.NewAuthHandler(authService, logger)
}

// postJSON is a small helper for handler-level requests.
func postJSON(t *testing.T, h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestHandleRegister(t *testing.T) {
	h := newTestAuthHandler(t)

	t.Run("valid registration", func(t *testing.T) {
		rr := postJSON(t, h.HandleRegister, "/register",
			`{"email":"a@x.com","username":"a","password":"p1"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var res map[string]string
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.NotEmpty(t, res["message"])
	})

	t.Run("duplicate email conflicts regardless of username", func(t *testing.T) {
		rr := postJSON(t, h.HandleRegister, "/register",
			`{"email":"a@x.com","username":"someone-else","password":"p2"}`)

		assert.Equal(t, http.StatusConflict, rr.Code)

		var res handler.ErrorResponse
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "conflict", res.Error)
	})

	t.Run("missing fields", func(t *testing.T) {
		for _, body := range []string{
			`{"username":"b","password":"p1"}`,
			`{"email":"b@x.com","password":"p1"}`,
			`{"email":"b@x.com","username":"b"}`,
		} {
			rr := postJSON(t, h.HandleRegister, "/register", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", body)
		}
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		rr := postJSON(t, h.HandleRegister, "/register", `{"email":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandleLogin(t *testing.T) {
	h := newTestAuthHandler(t)

	rr := postJSON(t, h.HandleRegister, "/register",
		`{"email":"login@x.com","username":"login_user","password":"hunter2"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	t.Run("correct credentials set the session cookie", func(t *testing.T) {
		rr := postJSON(t, h.HandleLogin, "/login",
			`{"email":"login@x.com","password":"hunter2"}`)

		assert.Equal(t, http.StatusOK, rr.Code)

		// Profile comes back in the response body
		var res struct {
			Message string `json:"message"`
			User    struct {
				Username string `json:"username"`
				Email    string `json:"email"`
			} `json:"user"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "login_user", res.User.Username)
		assert.Equal(t, "login@x.com", res.User.Email)

		// Session cookie: present, HttpOnly, non-empty JWT
		var session *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == auth.SessionCookie {
				session = c
			}
		}
		if assert.NotNil(t, session, "login must set the session cookie") {
			assert.True(t, session.HttpOnly)
			assert.NotEmpty(t, session.Value)
		}
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		rr := postJSON(t, h.HandleLogin, "/login",
			`{"email":"login@x.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown email is the same 401", func(t *testing.T) {
		rrWrong := postJSON(t, h.HandleLogin, "/login",
			`{"email":"login@x.com","password":"wrong"}`)
		rrUnknown := postJSON(t, h.HandleLogin, "/login",
			`{"email":"ghost@x.com","password":"hunter2"}`)

		assert.Equal(t, http.StatusUnauthorized, rrUnknown.Code)
		// Identical bodies — no email-enumeration oracle
		assert.Equal(t, rrWrong.Body.String(), rrUnknown.Body.String())
	})

	t.Run("password hash never appears in any response", func(t *testing.T) {
		rr := postJSON(t, h.HandleLogin, "/login",
			`{"email":"login@x.com","password":"hunter2"}`)
		assert.NotContains(t, rr.Body.String(), "$2a$")
		assert.NotContains(t, rr.Body.String(), "password_hash")
	})
}

func TestHandleLogout_ClearsCookie(t *testing.T) {
	h := newTestAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rr := httptest.NewRecorder()
	h.HandleLogout(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var cleared *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			cleared = c
		}
	}
	if assert.NotNil(t, cleared, "logout must rewrite the session cookie") {
		assert.Empty(t, cleared.Value)
		assert.Negative(t, cleared.MaxAge, "MaxAge<0 tells the browser to delete the cookie")
	}
}
