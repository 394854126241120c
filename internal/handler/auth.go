package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/essence-compass/internal/auth"
	"github.com/sakif/essence-compass/internal/model"
	"github.com/sakif/essence-compass/internal/service"
)

// AuthHandler manages registration, login, logout, and session introspection.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create an account (no session is started)
//   - HandleLogin    → verify credentials, set the session cookie
//   - HandleLogout   → clear the session cookie
//   - HandleMe       → return the currently logged-in user's profile
//
// The handler only does HTTP work: decode JSON, call the service, translate
// the result. Every business rule (field validation, uniqueness, credential
// checks) lives in service.AuthService.
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// registerRequest is the expected body for POST /register.
// Separate request structs (rather than decoding into model.User) keep the
// wire format decoupled from storage — the client can never smuggle in an
// ID or a password hash.
type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// messageResponse is the minimal success body: {"message": "..."}.
type messageResponse struct {
	Message string `json:"message"`
}

// loginResponse includes the public profile so the frontend can greet the
// user without a follow-up /api/me call.
type loginResponse struct {
	Message string        `json:"message"`
	User    model.Profile `json:"user"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /register
// BODY: {"email": "a@x.com", "username": "a", "password": "p1"}
//
// Responses: 201 created, 400 missing/invalid field, 409 duplicate
// email or username. Registration does NOT log the user in — the client
// follows up with POST /login.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	if _, err := h.authService.Register(r.Context(), req.Email, req.Username, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "registered successfully"})
}

// HandleLogin verifies credentials and starts a session.
//
// HTTP: POST /login
// BODY: {"email": "a@x.com", "password": "p1"}
//
// On success the session JWT is set as an HttpOnly cookie:
//   - HttpOnly: JavaScript cannot read it (XSS protection)
//   - SameSite=Lax: sent on top-level navigations, not cross-site POSTs
//   - Secure should be true behind HTTPS; left false for local dev
//
// Bad credentials → 401 with a deliberately vague message (see the service).
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // Uncomment in production (requires HTTPS)
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "logged in successfully",
		User:    result.User.Profile(),
	})
}

// HandleLogout ends the session by clearing the cookie.
//
// HTTP: POST /logout
// Auth: Required (an anonymous logout is a 401, per the API contract)
//
// WHY POST AND NOT GET?
// Logout is a state-changing operation. Using GET would be vulnerable to
// CSRF and to browsers pre-fetching the URL. POST ensures intentional action.
//
// Since sessions are stateless JWTs, "logout" means deleting the client-side
// cookie. The token remains technically valid until its expiry, but without
// the cookie the browser can't send it — the client is anonymous again.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // tells the browser to delete the cookie immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/me
// Auth: Required (RequireAuth middleware sets userID in context)
//
// The response serializes model.User, whose PasswordHash field is tagged
// json:"-" — the hash cannot appear in the body.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	// Auth middleware has already validated the JWT and set userID in context.
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("HandleMe: resolving user failed", slog.String("userID", userID))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
