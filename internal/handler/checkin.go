package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/essence-compass/internal/auth"
	"github.com/sakif/essence-compass/internal/model"
	"github.com/sakif/essence-compass/internal/service"
)

// CheckInHandler manages mood/energy check-in submissions and history.
//
// Both routes sit behind auth.RequireAuth, so by the time these methods run
// the request context carries a validated userID. The handler never reads
// ownership from the body — the session decides whose row is written.
type CheckInHandler struct {
	checkIns *service.CheckInService
	logger   *slog.Logger
}

// NewCheckInHandler creates a new CheckInHandler.
func NewCheckInHandler(checkIns *service.CheckInService, logger *slog.Logger) *CheckInHandler {
	return &CheckInHandler{
		checkIns: checkIns,
		logger:   logger,
	}
}

// checkInRequest is the expected body for POST /api/check-in.
// A missing score decodes to 0, which the service rejects as out of range —
// so "field absent" and "field zero" both fail validation, matching the
// required-and-truthy contract of the endpoint.
type checkInRequest struct {
	MoodScore   int `json:"mood_score"`
	EnergyScore int `json:"energy_score"`
}

type checkInCreatedResponse struct {
	Message string        `json:"message"`
	CheckIn model.CheckIn `json:"check_in"`
}

// HandleCreate records a new check-in for the current user.
//
// HTTP: POST /api/check-in
// BODY: {"mood_score": 7, "energy_score": 5}
// Responses: 201 saved, 400 missing/out-of-range score, 401 no session.
func (h *CheckInHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid check-in JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	checkIn, err := h.checkIns.Create(r.Context(), userID, req.MoodScore, req.EnergyScore)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkInCreatedResponse{
		Message: "check-in saved successfully",
		CheckIn: *checkIn,
	})
}

// HandleList returns the current user's check-in history, newest first.
//
// HTTP: GET /api/check-ins?limit=N
// The limit is optional; the service clamps it (default 20, max 100).
func (h *CheckInHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	limit := 0 // 0 → service default
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	checkIns, err := h.checkIns.List(r.Context(), userID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkIns)
}
