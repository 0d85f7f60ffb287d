package service

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	internaldb "dealdesk/internal/db"
	"dealdesk/internal/db/repository"
	"dealdesk/internal/domain"
)

type testEnv struct {
	deals         *DealService
	users         *UserService
	auth          *AuthService
	billing       *BillingService
	commissions   *CommissionService
	kpis          *KPIService
	orgs          *OrganizationService
	calendar      *CalendarService
	auditSvc      *AuditService
	dealRepo      *repository.DealRepo
	userRepo      *repository.UserRepo
	orgRepo       *repository.OrganizationRepo
	commissionsDB *repository.CommissionRepo
	planRepo      *repository.PlanRepo
	subRepo       *repository.SubscriptionRepo
	auditRepo     *repository.AuditRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, _ := internaldb.OpenTestSQLite(t)

	env := &testEnv{
		dealRepo:      repository.NewDealRepo(db),
		userRepo:      repository.NewUserRepo(db),
		orgRepo:       repository.NewOrganizationRepo(db),
		commissionsDB: repository.NewCommissionRepo(db),
		planRepo:      repository.NewPlanRepo(db),
		subRepo:       repository.NewSubscriptionRepo(db),
		auditRepo:     repository.NewAuditRepo(db),
	}

	tokens := NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)
	calendarRepo := repository.NewCalendarRepo(db)

	env.billing = NewBillingService(env.planRepo, env.subRepo)
	env.deals = NewDealService(env.dealRepo, env.commissionsDB, env.userRepo, env.billing, env.auditRepo)
	env.users = NewUserService(env.userRepo, env.billing, env.auditRepo)
	env.auth = NewAuthService(env.userRepo, env.orgRepo, env.planRepo, env.subRepo, env.auditRepo, tokens)
	env.commissions = NewCommissionService(env.commissionsDB)
	env.kpis = NewKPIService(env.dealRepo, env.commissionsDB, env.auditRepo)
	env.orgs = NewOrganizationService(env.orgRepo, env.auditRepo)
	env.calendar = NewCalendarService(calendarRepo)
	env.auditSvc = NewAuditService(env.auditRepo)

	seedPlans(t, env.planRepo)
	return env
}

func seedPlans(t *testing.T, plans *repository.PlanRepo) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []domain.Plan{
		{Key: domain.PlanFree, Name: "Free", MaxDeals: 10, MaxUsers: 2, PriceMonthly: 0},
		{Key: domain.PlanPro, Name: "Pro", MaxDeals: 100, MaxUsers: 10, PriceMonthly: 99},
		{Key: domain.PlanEnterprise, Name: "Enterprise", MaxDeals: 1000, MaxUsers: 100, PriceMonthly: 299},
	} {
		_, err := plans.Upsert(ctx, &p)
		require.NoError(t, err)
	}
}

// register creates a tenant through the real flow and returns an admin
// identity for it.
func (env *testEnv) register(t *testing.T, orgName, email string) domain.Identity {
	t.Helper()
	res, err := env.auth.Register(context.Background(), RegisterInput{
		OrganizationName: orgName,
		Name:             "Admin " + orgName,
		Email:            email,
		Password:         "s3cret-pass",
	})
	require.NoError(t, err)
	return identityFor(res.User)
}

func identityFor(u *domain.User) domain.Identity {
	return domain.Identity{
		UserID:         u.ID,
		OrganizationID: u.OrganizationID,
		Email:          u.Email,
		Role:           u.Role,
	}
}

func (env *testEnv) createDeal(t *testing.T, ident domain.Identity, title string, amount, rate float64) *domain.Deal {
	t.Helper()
	d, err := env.deals.Create(context.Background(), ident, &domain.Deal{
		Title:          title,
		Amount:         amount,
		CommissionRate: rate,
	})
	require.NoError(t, err)
	return d
}
