// Package app provides application-level wiring and dependency injection
// following the hexagonal layout: repositories behind domain ports, services
// on top, handler config at the edge.
package app

import (
	"database/sql"
	"log/slog"

	"dealdesk/internal/config"
	"dealdesk/internal/db/repository"
	"dealdesk/internal/service"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config, and the root logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups the service pointers the HTTP handler needs.
type Services struct {
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

// App holds the fully-wired application.
type App struct {
	Services Services
	Tokens   *service.TokenIssuer
}

// New wires repositories and services from the provided deps.
func New(deps Deps) *App {
	cfg := deps.Cfg

	// Mutating services get write-pool repositories, read-only services
	// (commissions, KPIs, audit log) the read pool.
	orgRepo := repository.NewOrganizationRepo(deps.WriteDB)
	userRepo := repository.NewUserRepo(deps.WriteDB)
	dealRepo := repository.NewDealRepo(deps.WriteDB)
	commissionRepo := repository.NewCommissionRepo(deps.WriteDB)
	planRepo := repository.NewPlanRepo(deps.WriteDB)
	subscriptionRepo := repository.NewSubscriptionRepo(deps.WriteDB)
	calendarRepo := repository.NewCalendarRepo(deps.WriteDB)
	auditRepo := repository.NewAuditRepo(deps.WriteDB)

	dealReadRepo := repository.NewDealRepo(deps.ReadDB)
	commissionReadRepo := repository.NewCommissionRepo(deps.ReadDB)
	auditReadRepo := repository.NewAuditRepo(deps.ReadDB)

	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	billingSvc := service.NewBillingService(planRepo, subscriptionRepo)
	dealSvc := service.NewDealService(dealRepo, commissionRepo, userRepo, billingSvc, auditRepo)
	userSvc := service.NewUserService(userRepo, billingSvc, auditRepo)
	authSvc := service.NewAuthService(userRepo, orgRepo, planRepo, subscriptionRepo, auditRepo, tokens)
	orgSvc := service.NewOrganizationService(orgRepo, auditRepo)
	commissionSvc := service.NewCommissionService(commissionReadRepo)
	kpiSvc := service.NewKPIService(dealReadRepo, commissionReadRepo, auditReadRepo)
	calendarSvc := service.NewCalendarService(calendarRepo)
	auditSvc := service.NewAuditService(auditReadRepo)

	return &App{
		Services: Services{
			Auth:          authSvc,
			Deals:         dealSvc,
			Users:         userSvc,
			Organizations: orgSvc,
			Commissions:   commissionSvc,
			KPIs:          kpiSvc,
			Billing:       billingSvc,
			Calendar:      calendarSvc,
			Audit:         auditSvc,
		},
		Tokens: tokens,
	}
}
