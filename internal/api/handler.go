// Package api exposes the HTTP surface: request decoding, routing, and the
// JSON shapes of the service layer.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dealdesk/internal/middleware"
	"dealdesk/internal/service"
)

// Handler holds the services behind the HTTP surface.
type Handler struct {
	logger        *slog.Logger
	auth          *service.AuthService
	deals         *service.DealService
	users         *service.UserService
	organizations *service.OrganizationService
	commissions   *service.CommissionService
	kpis          *service.KPIService
	billing       *service.BillingService
	calendar      *service.CalendarService
	audit         *service.AuditService
}

type HandlerConfig struct {
	Logger        *slog.Logger
	Auth          *service.AuthService
	Deals         *service.DealService
	Users         *service.UserService
	Organizations *service.OrganizationService
	Commissions   *service.CommissionService
	KPIs          *service.KPIService
	Billing       *service.BillingService
	Calendar      *service.CalendarService
	Audit         *service.AuditService
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		logger:        cfg.Logger,
		auth:          cfg.Auth,
		deals:         cfg.Deals,
		users:         cfg.Users,
		organizations: cfg.Organizations,
		commissions:   cfg.Commissions,
		kpis:          cfg.KPIs,
		billing:       cfg.Billing,
		calendar:      cfg.Calendar,
		audit:         cfg.Audit,
	}
}

// Routes mounts the versioned API. Everything under /v1 except the auth
// endpoints requires a bearer token.
func (h *Handler) Routes(tokens *service.TokenIssuer) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/refresh", h.refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens))

			r.Route("/deals", func(r chi.Router) {
				r.Get("/", h.listDeals)
				r.Post("/", h.createDeal)
				r.Get("/{id}", h.getDeal)
				r.Patch("/{id}", h.updateDeal)
				r.Delete("/{id}", h.deleteDeal)
				r.Patch("/{id}/stage", h.changeDealStage)
			})

			r.Route("/commissions", func(r chi.Router) {
				r.Get("/", h.listCommissions)
				r.Get("/summary", h.commissionSummary)
				r.Get("/by-user", h.commissionsByUser)
			})

			r.Get("/kpis/dashboard", h.dashboard)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.listUsers)
				r.Post("/", h.createUser)
				r.Get("/me", h.profile)
				r.Get("/{id}", h.getUser)
				r.Patch("/{id}", h.updateUser)
				r.Delete("/{id}", h.deleteUser)
			})

			r.Route("/organizations", func(r chi.Router) {
				r.Get("/current", h.currentOrganization)
				r.Patch("/current", h.updateOrganization)
			})

			r.Route("/calendar", func(r chi.Router) {
				r.Get("/", h.listSlots)
				r.Post("/", h.createSlot)
				r.Get("/{id}", h.getSlot)
				r.Patch("/{id}", h.updateSlot)
				r.Delete("/{id}", h.deleteSlot)
			})

			r.Route("/billing", func(r chi.Router) {
				r.Get("/subscription", h.subscription)
				r.Get("/plans", h.listPlans)
			})

			r.With(middleware.RequireAdmin).Get("/audit", h.listAudit)
		})
	})

	return r
}
