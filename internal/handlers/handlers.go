package handlers

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/GlebRadaev/mileage/docs"
	accounthandlers "github.com/GlebRadaev/mileage/internal/handlers/accounts"
	claimhandlers "github.com/GlebRadaev/mileage/internal/handlers/claims"
	transactionhandlers "github.com/GlebRadaev/mileage/internal/handlers/transactions"
	"github.com/GlebRadaev/mileage/internal/service"
	"github.com/GlebRadaev/mileage/pkg/auth"
	"github.com/GlebRadaev/mileage/pkg/metrics"
)

type AccountHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
}

type TransactionHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type ClaimHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AccountHandler     AccountHandler
	TransactionHandler TransactionHandler
	ClaimHandler       ClaimHandler
	tokens             auth.TokenValidator
}

func New(s *service.Services, tokens auth.TokenValidator) *Handlers {
	return &Handlers{
		AccountHandler:     accounthandlers.New(s.LifecycleService, s.QueryService),
		TransactionHandler: transactionhandlers.New(s.LedgerService, s.QueryService),
		ClaimHandler:       claimhandlers.New(s.ClaimService),
		tokens:             tokens,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		metrics.Middleware,
	)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api/accounts", func(r chi.Router) {
		r.Use(auth.AuthMiddleware(h.tokens))

		r.Post("/", h.AccountHandler.Create)
		r.Get("/", h.AccountHandler.Search)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.AccountHandler.Get)
			r.Delete("/", h.AccountHandler.Delete)
			r.Put("/status", h.AccountHandler.SetStatus)
			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", h.TransactionHandler.Submit)
				r.Get("/", h.TransactionHandler.List)
			})
			r.Route("/claims", func(r chi.Router) {
				r.Post("/", h.ClaimHandler.Register)
				r.Get("/", h.ClaimHandler.List)
			})
		})
	})

	return r
}
