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

// JournalHandler manages free-text journal entries.
// Same shape as CheckInHandler: authenticated create + owner-scoped list.
type JournalHandler struct {
	journal *service.JournalService
	logger  *slog.Logger
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journal *service.JournalService, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{
		journal: journal,
		logger:  logger,
	}
}

type journalRequest struct {
	Content string `json:"content"`
}

type journalCreatedResponse struct {
	Message string             `json:"message"`
	Entry   model.JournalEntry `json:"entry"`
}

// HandleCreate records a new journal entry for the current user.
//
// HTTP: POST /api/journal
// BODY: {"content": "Slept well, long walk before lunch."}
// Responses: 201 saved, 400 empty content, 401 no session.
func (h *JournalHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	var req journalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid journal JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	entry, err := h.journal.Create(r.Context(), userID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, journalCreatedResponse{
		Message: "journal entry saved successfully",
		Entry:   *entry,
	})
}

// HandleList returns the current user's journal entries, newest first.
//
// HTTP: GET /api/journal?limit=N
func (h *JournalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	entries, err := h.journal.List(r.Context(), userID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
