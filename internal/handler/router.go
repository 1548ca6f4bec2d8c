package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	interviewHandler "github.com/insightwave/interviewer/backend/internal/handler/interview"
	settingsHandler "github.com/insightwave/interviewer/backend/internal/handler/settings"
	middlewarePkg "github.com/insightwave/interviewer/backend/internal/middleware"
	interviewService "github.com/insightwave/interviewer/backend/internal/service/interview"
	"github.com/insightwave/interviewer/backend/internal/settings"
	"github.com/insightwave/interviewer/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(interviewSvc *interviewService.Service, settingsStore *settings.FileStore, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(api chi.Router) {
		settingsHandler.New(settingsStore).RegisterRoutes(api)
		interviewHandler.New(interviewSvc).RegisterRoutes(api)
	})

	return r
}
