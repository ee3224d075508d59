package worker

import (
	"net/http"
	"time"

	"dividendtracker/src/dependencies"
	handlers "dividendtracker/src/worker/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	Router  *chi.Mux
	Handler handlers.Handler
	deps    *dependencies.Dependencies
}

func NewServer(deps *dependencies.Dependencies) *Server {
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: *handlers.NewHandler(deps),
		deps:    deps,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(middleware.Recoverer)
	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Handle("/metrics", s.deps.Metrics.Handler())
	s.Router.Route("/api/refresh", func(r chi.Router) {
		r.Get("/schedules", s.Handler.GetSchedules)
		r.Post("/all", s.Handler.RefreshAll)
		r.Post("/{id}", s.Handler.RefreshPortfolio)
	})
}

// Start schedules the periodic refresh configured in worker.refreshCron.
func (s *Server) Start() error {
	return s.Handler.Controller.ScheduleRefresh(s.deps.Config.Worker.RefreshCron)
}

// Stop cancels every scheduled task.
func (s *Server) Stop() {
	s.Handler.Controller.StopAll()
}

func NewHTTPServer(server *Server, port string) *http.Server {
	if port == "" {
		port = "8000"
	}
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		Handler:      server,
	}
	return httpServer
}
