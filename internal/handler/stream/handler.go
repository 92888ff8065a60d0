package stream

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/fiascohq/fiasco/backend/internal/analysis/aggregate"
	"github.com/fiascohq/fiasco/backend/internal/model/profile"
	profilesService "github.com/fiascohq/fiasco/backend/internal/service/profiles"
)

// Handler streams a submission's per-URL analyses over a websocket as they
// complete, so a client can render progress instead of waiting for the
// whole fan-out to finish.
type Handler struct {
	svc      *profilesService.Service
	upgrader websocket.Upgrader
}

// New creates the streaming handler.
func New(svc *profilesService.Service) *Handler {
	return &Handler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profiles/ws", h.handleSocket)
}

type submitFrame struct {
	URLs      []string `json:"urls"`
	SessionID string   `json:"session_id"`
}

type outgoingFrame struct {
	Event      string                      `json:"event"`
	URL        string                      `json:"url,omitempty"`
	Analysis   *profile.Analysis           `json:"analysis,omitempty"`
	SessionID  string                      `json:"session_id,omitempty"`
	URLs       []string                    `json:"urls,omitempty"`
	Results    map[string]profile.Analysis `json:"results,omitempty"`
	Aggregates *aggregate.Summary          `json:"aggregates,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

func (h *Handler) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var request submitFrame
	if err := conn.ReadJSON(&request); err != nil {
		h.writeFrame(conn, outgoingFrame{Event: "error", Error: "invalid request frame"})
		return
	}

	// Progress callbacks arrive serially from the collector, so writing
	// to the connection here needs no extra locking.
	view, err := h.svc.SubmitStream(r.Context(), request.URLs, request.SessionID, func(url string, analysis profile.Analysis) {
		h.writeFrame(conn, outgoingFrame{Event: "profile", URL: url, Analysis: &analysis})
	})
	if errors.Is(err, profilesService.ErrNoValidURLs) {
		h.writeFrame(conn, outgoingFrame{Event: "error", Error: err.Error()})
		return
	}
	if err != nil {
		log.Printf("[ws] submit failed: %v", err)
		h.writeFrame(conn, outgoingFrame{Event: "error", Error: "profile submission failed"})
		return
	}

	h.writeFrame(conn, outgoingFrame{
		Event:      "complete",
		SessionID:  view.SessionID,
		URLs:       view.URLs,
		Results:    view.Results,
		Aggregates: &view.Aggregates,
	})
}

func (h *Handler) writeFrame(conn *websocket.Conn, frame outgoingFrame) {
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}
