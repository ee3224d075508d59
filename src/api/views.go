package api

import (
	"net/http"
	"time"

	"dividendtracker/src/api/handlers"
	"dividendtracker/src/dependencies"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
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
	server.InitMiddleware()
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitMiddleware() {
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(middleware.RequestID)
	s.Router.Use(requestLogger(s.deps.Logger, s.deps.Metrics))

	origins := s.deps.Config.Service.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.Router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
}

func (s *Server) InitRoutes() {
	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Handle("/metrics", s.deps.Metrics.Handler())

	s.Router.Get("/api/quotes/{symbol}", s.Handler.GetQuote)

	s.Router.Route("/api/portfolios", func(r chi.Router) {
		r.Get("/", s.Handler.ListPortfolios)
		r.Post("/", s.Handler.CreatePortfolio)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.Handler.GetPortfolio)
			r.Delete("/", s.Handler.DeletePortfolio)

			r.Get("/holdings", s.Handler.ListHoldings)
			r.Post("/holdings", s.Handler.AddHolding)
			r.Put("/holdings/{symbol}", s.Handler.UpdateHolding)
			r.Delete("/holdings/{symbol}", s.Handler.RemoveHolding)
			r.Get("/holdings/{symbol}/dividends", s.Handler.ListDividends)
			r.Post("/holdings/{symbol}/dividends", s.Handler.AppendDividend)
			r.Post("/holdings/{symbol}/dividends/sync", s.Handler.SyncDividends)

			r.Get("/projection", s.Handler.GetProjection)
			r.Get("/sectors", s.Handler.GetSectors)
			r.Get("/charts/income", s.Handler.GetIncomeChart)
			r.Get("/charts/sectors", s.Handler.GetSectorChart)

			r.Get("/export", s.Handler.ExportHoldings)
			r.Post("/import", s.Handler.ImportHoldings)
			r.Post("/refresh", s.Handler.RefreshPortfolio)
		})
	})
}

func NewHTTPServer(server *Server, port string) *http.Server {
	if port == "" {
		port = "8000"
	}
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		Handler:      server,
	}
	return httpServer
}
