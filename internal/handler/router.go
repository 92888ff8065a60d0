package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	profilesHandler "github.com/fiascohq/fiasco/backend/internal/handler/profiles"
	streamHandler "github.com/fiascohq/fiasco/backend/internal/handler/stream"
	profilesService "github.com/fiascohq/fiasco/backend/internal/service/profiles"
	"github.com/fiascohq/fiasco/backend/pkg/utils"
)

// NewRouter wires HTTP routes to the profile session engine.
func NewRouter(svc *profilesService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	profiles := profilesHandler.New(svc)
	stream := streamHandler.New(svc)

	r.Route("/api", func(api chi.Router) {
		profiles.RegisterRoutes(api)
		stream.RegisterRoutes(api)
	})

	return r
}
