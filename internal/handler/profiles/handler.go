package profiles

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fiascohq/fiasco/backend/internal/analysis/aggregate"
	"github.com/fiascohq/fiasco/backend/internal/model/profile"
	profilesService "github.com/fiascohq/fiasco/backend/internal/service/profiles"
	"github.com/fiascohq/fiasco/backend/pkg/utils"
)

// Handler exposes the profile session engine over REST.
type Handler struct {
	svc *profilesService.Service
}

// New creates the profiles handler.
func New(svc *profilesService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the profile routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/profiles", h.handleSubmit)
	r.Get("/profiles/{sessionID}", h.handleGet)
	r.Post("/profiles/{sessionID}/refresh", h.handleRefresh)
	r.Delete("/profiles/{sessionID}", h.handleClear)
}

type submitRequest struct {
	URLs      []string `json:"urls"`
	SessionID string   `json:"session_id"`
}

type sessionResponse struct {
	Status      string                      `json:"status,omitempty"`
	SessionID   string                      `json:"session_id"`
	URLs        []string                    `json:"urls"`
	Results     map[string]profile.Analysis `json:"results"`
	LastUpdated time.Time                   `json:"last_updated"`
	Aggregates  aggregate.Summary           `json:"aggregates"`
}

func sessionResponseOf(view profilesService.View, status string) sessionResponse {
	return sessionResponse{
		Status:      status,
		SessionID:   view.SessionID,
		URLs:        view.URLs,
		Results:     view.Results,
		LastUpdated: view.LastUpdated,
		Aggregates:  view.Aggregates,
	}
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.svc.Submit(r.Context(), payload.URLs, payload.SessionID)
	if errors.Is(err, profilesService.ErrNoValidURLs) {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("[profiles] submit failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "profile submission failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, sessionResponseOf(view, "processed"))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	view, err := h.svc.Load(r.Context(), sessionID)
	if errors.Is(err, profilesService.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		log.Printf("[profiles] load failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "profile lookup failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, sessionResponseOf(view, ""))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	view, err := h.svc.Refresh(r.Context(), sessionID)
	if errors.Is(err, profilesService.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		log.Printf("[profiles] refresh failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "profile refresh failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, sessionResponseOf(view, "processed"))
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.svc.Clear(r.Context(), sessionID); err != nil {
		log.Printf("[profiles] clear failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "session clear failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
