package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	chatHandler "github.com/ErikSvetich/treeline-assistant/internal/handler/chat"
	personaHandler "github.com/ErikSvetich/treeline-assistant/internal/handler/persona"
	personaModel "github.com/ErikSvetich/treeline-assistant/internal/model/persona"
	chatService "github.com/ErikSvetich/treeline-assistant/internal/service/chat"
	"github.com/ErikSvetich/treeline-assistant/web"
)

// NewRouter wires HTTP routes to core services and serves the embedded UI.
func NewRouter(personas personaModel.Store, chatSvc *chatService.Service, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.Route("/api", func(api chi.Router) {
		personaHandler.New(personas).RegisterRoutes(api)
		chatHandler.New(chatSvc).RegisterRoutes(api)
	})

	r.Handle("/*", web.Handler())

	return r
}
