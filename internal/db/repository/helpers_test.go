package repository

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	internaldb "dealdesk/internal/db"
	"dealdesk/internal/domain"
)

type testRepos struct {
	db            *sql.DB
	orgs          *OrganizationRepo
	users         *UserRepo
	deals         *DealRepo
	commissions   *CommissionRepo
	plans         *PlanRepo
	subscriptions *SubscriptionRepo
	calendar      *CalendarRepo
	audit         *AuditRepo
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()
	db, _ := internaldb.OpenTestSQLite(t)
	return &testRepos{
		db:            db,
		orgs:          NewOrganizationRepo(db),
		users:         NewUserRepo(db),
		deals:         NewDealRepo(db),
		commissions:   NewCommissionRepo(db),
		plans:         NewPlanRepo(db),
		subscriptions: NewSubscriptionRepo(db),
		calendar:      NewCalendarRepo(db),
		audit:         NewAuditRepo(db),
	}
}

func (tr *testRepos) createOrg(t *testing.T, name string) *domain.Organization {
	t.Helper()
	org, err := tr.orgs.Create(context.Background(), &domain.Organization{Name: name})
	require.NoError(t, err)
	return org
}

func (tr *testRepos) createUser(t *testing.T, orgID, name, email string) *domain.User {
	t.Helper()
	u, err := tr.users.Create(context.Background(), &domain.User{
		OrganizationID: orgID,
		Name:           name,
		Email:          email,
		PasswordHash:   "x",
		Role:           domain.RoleUser,
	})
	require.NoError(t, err)
	return u
}

func (tr *testRepos) createDeal(t *testing.T, orgID, title string, amount, rate float64, stage domain.DealStage) *domain.Deal {
	t.Helper()
	d, err := tr.deals.Create(context.Background(), &domain.Deal{
		OrganizationID: orgID,
		Title:          title,
		Amount:         amount,
		CommissionRate: rate,
		Stage:          stage,
	})
	require.NoError(t, err)
	return d
}
