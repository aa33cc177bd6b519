package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chathandler "github.com/sridharsri/consultancy/backend/internal/handler/chat"
	doctorhandler "github.com/sridharsri/consultancy/backend/internal/handler/doctor"
	middlewarePkg "github.com/sridharsri/consultancy/backend/internal/middleware"
	doctormodel "github.com/sridharsri/consultancy/backend/internal/model/doctor"
	"github.com/sridharsri/consultancy/backend/internal/resolver"
	chatservice "github.com/sridharsri/consultancy/backend/internal/service/chat"
	"github.com/sridharsri/consultancy/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(doctors doctormodel.Store, chatSvc *chatservice.Service, res resolver.Resolver) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chathandler.New(chatSvc, res)
	doctorHandler := doctorhandler.New(doctors)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "Welcome to the Appointment System Backend!",
		})
	})

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		doctorHandler.RegisterRoutes(api)
	})

	return r
}
