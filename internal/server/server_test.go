package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// END-TO-END TESTS:
// These drive the full stack — router, middleware, handlers, services, and
// an in-memory SQLite database — through httptest, without opening a port.
// They exercise the whole register → login → check-in lifecycle the way a
// real client would, session cookie and all.

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	srv, err := New(Config{
		Port:       0,
		DBPath:     ":memory:",
		JWTSecret:  "test-secret-at-least-16-chars!!",
		BcryptCost: 4, // bcrypt minimum — keeps the test fast
	}, logger)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

// do sends a JSON request through the full router, attaching any cookies.
func do(t *testing.T, srv *Server, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

func TestNew_RequiresJWTSecret(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	_, err := New(Config{DBPath: ":memory:"}, logger)
	if err == nil {
		t.Fatal("New() should refuse to start without a JWT secret")
	}
}

// TestFullLifecycle walks the canonical flow:
// register → 201; duplicate register → 409; login → 200 with session;
// check-in {7,5} → 201 owned by that user; logout; check-in again → 401.
func TestFullLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// --- Register ---
	rr := do(t, srv, http.MethodPost, "/register",
		`{"email":"a@x.com","username":"a","password":"p1"}`, nil)
	assert.Equal(t, http.StatusCreated, rr.Code)

	// --- Duplicate email (different username) → 409 ---
	rr = do(t, srv, http.MethodPost, "/register",
		`{"email":"a@x.com","username":"b","password":"p2"}`, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	// --- Login ---
	rr = do(t, srv, http.MethodPost, "/login",
		`{"email":"a@x.com","password":"p1"}`, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var loginRes struct {
		User struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&loginRes))
	assert.Equal(t, "a", loginRes.User.Username)
	assert.Equal(t, "a@x.com", loginRes.User.Email)

	session := rr.Result().Cookies()
	assert.NotEmpty(t, session, "login should set the session cookie")

	// --- Check-in with the session ---
	rr = do(t, srv, http.MethodPost, "/api/check-in",
		`{"mood_score":7,"energy_score":5}`, session)
	assert.Equal(t, http.StatusCreated, rr.Code)

	// --- The row exists, owned by user "a", with exactly those values ---
	rr = do(t, srv, http.MethodGet, "/api/check-ins", "", session)
	assert.Equal(t, http.StatusOK, rr.Code)

	var checkIns []struct {
		MoodScore   int    `json:"mood_score"`
		EnergyScore int    `json:"energy_score"`
		UserID      string `json:"user_id"`
	}
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&checkIns))
	if assert.Len(t, checkIns, 1) {
		assert.Equal(t, 7, checkIns[0].MoodScore)
		assert.Equal(t, 5, checkIns[0].EnergyScore)
		assert.NotEmpty(t, checkIns[0].UserID)
	}

	// --- /api/me resolves the session to the same user ---
	rr = do(t, srv, http.MethodGet, "/api/me", "", session)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"a"`)
	assert.NotContains(t, rr.Body.String(), "$2a$", "password hash must not leak")

	// --- Logout ---
	rr = do(t, srv, http.MethodPost, "/logout", "", session)
	assert.Equal(t, http.StatusOK, rr.Code)

	// The logout response rewrites the cookie to empty/expired. A browser
	// would drop it; simulate that by sending the cleared cookie back.
	cleared := rr.Result().Cookies()
	rr = do(t, srv, http.MethodGet, "/api/me", "", cleared)
	assert.Equal(t, http.StatusUnauthorized, rr.Code,
		"after logout the client must be anonymous again")
}

// TestCheckIn_WithoutSession verifies that an unauthenticated check-in is
// rejected with 401 AND writes no row.
func TestCheckIn_WithoutSession(t *testing.T) {
	srv := newTestServer(t)

	// Register and login so there is a user whose history we can inspect
	do(t, srv, http.MethodPost, "/register",
		`{"email":"a@x.com","username":"a","password":"p1"}`, nil)
	loginRR := do(t, srv, http.MethodPost, "/login",
		`{"email":"a@x.com","password":"p1"}`, nil)
	session := loginRR.Result().Cookies()

	// Anonymous check-in → 401
	rr := do(t, srv, http.MethodPost, "/api/check-in",
		`{"mood_score":7,"energy_score":5}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// And no row was created
	rr = do(t, srv, http.MethodGet, "/api/check-ins", "", session)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String(), "rejected check-in must not create a row")
}

func TestLogout_WithoutSession(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/register",
		`{"email":"a@x.com","username":"a","password":"p1"}`, nil)

	rr := do(t, srv, http.MethodPost, "/login",
		`{"email":"a@x.com","password":"not-p1"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// No cookie on failure
	for _, c := range rr.Result().Cookies() {
		assert.NotEqual(t, "session", c.Name, "failed login must not set a session cookie")
	}
}

func TestJournalRoutes(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/register",
		`{"email":"j@x.com","username":"j","password":"p1"}`, nil)
	loginRR := do(t, srv, http.MethodPost, "/login",
		`{"email":"j@x.com","password":"p1"}`, nil)
	session := loginRR.Result().Cookies()

	rr := do(t, srv, http.MethodPost, "/api/journal",
		`{"content":"an evening of reading"}`, session)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, srv, http.MethodGet, "/api/journal", "", session)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "an evening of reading")

	// Anonymous journal write → 401
	rr = do(t, srv, http.MethodPost, "/api/journal",
		`{"content":"should not land"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
