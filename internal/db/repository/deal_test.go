package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/domain"
)

func TestDealRepo_CreateAndGet(t *testing.T) {
	tr := newTestRepos(t)
	org := tr.createOrg(t, "acme")

	deal := tr.createDeal(t, org.ID, "Enterprise License", 50000, 15, domain.StageProspect)
	assert.NotEmpty(t, deal.ID)

	got, err := tr.deals.GetByID(context.Background(), deal.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Enterprise License", got.Title)
	assert.Equal(t, domain.StageProspect, got.Stage)
	assert.Nil(t, got.CloseDate)
	assert.Nil(t, got.OwnerID)
}

func TestDealRepo_TenantIsolation(t *testing.T) {
	tr := newTestRepos(t)
	orgA := tr.createOrg(t, "org-a")
	orgB := tr.createOrg(t, "org-b")

	deal := tr.createDeal(t, orgA.ID, "deal", 1000, 10, domain.StageProspect)

	_, err := tr.deals.GetByID(context.Background(), deal.ID, orgB.ID)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	// Cross-tenant stage writes must not match any row.
	updated, err := tr.deals.UpdateStage(context.Background(), deal.ID, orgB.ID,
		domain.StageProspect, domain.StageActive, nil)
	require.NoError(t, err)
	assert.False(t, updated)

	got, err := tr.deals.GetByID(context.Background(), deal.ID, orgA.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageProspect, got.Stage)
}

func TestDealRepo_ListFilters(t *testing.T) {
	tr := newTestRepos(t)
	org := tr.createOrg(t, "acme")
	tr.createDeal(t, org.ID, "small", 100, 10, domain.StageProspect)
	tr.createDeal(t, org.ID, "medium", 5000, 10, domain.StageActive)
	tr.createDeal(t, org.ID, "large", 90000, 10, domain.StageActive)

	ctx := context.Background()

	all, err := tr.deals.List(ctx, org.ID, domain.DealFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active := domain.StageActive
	byStage, err := tr.deals.List(ctx, org.ID, domain.DealFilter{Stage: &active})
	require.NoError(t, err)
	assert.Len(t, byStage, 2)

	minAmount := 1000.0
	maxAmount := 10000.0
	byAmount, err := tr.deals.List(ctx, org.ID, domain.DealFilter{MinAmount: &minAmount, MaxAmount: &maxAmount})
	require.NoError(t, err)
	require.Len(t, byAmount, 1)
	assert.Equal(t, "medium", byAmount[0].Title)

	other := tr.createOrg(t, "other")
	none, err := tr.deals.List(ctx, other.ID, domain.DealFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDealRepo_UpdateStage_CompareAndSet(t *testing.T) {
	tr := newTestRepos(t)
	org := tr.createOrg(t, "acme")
	deal := tr.createDeal(t, org.ID, "deal", 1000, 10, domain.StageActive)

	ctx := context.Background()
	closeDate := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	updated, err := tr.deals.UpdateStage(ctx, deal.ID, org.ID, domain.StageActive, domain.StageClosed, &closeDate)
	require.NoError(t, err)
	assert.True(t, updated)

	// Second CAS with the stale previous stage loses.
	updated, err = tr.deals.UpdateStage(ctx, deal.ID, org.ID, domain.StageActive, domain.StageClosed, &closeDate)
	require.NoError(t, err)
	assert.False(t, updated)

	got, err := tr.deals.GetByID(ctx, deal.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageClosed, got.Stage)
	require.NotNil(t, got.CloseDate)
	assert.True(t, closeDate.Equal(*got.CloseDate))
}

func TestDealRepo_UpdateStage_NilCloseDateLeavesItUntouched(t *testing.T) {
	tr := newTestRepos(t)
	org := tr.createOrg(t, "acme")
	deal := tr.createDeal(t, org.ID, "deal", 1000, 10, domain.StageProspect)

	updated, err := tr.deals.UpdateStage(context.Background(), deal.ID, org.ID,
		domain.StageProspect, domain.StageActive, nil)
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := tr.deals.GetByID(context.Background(), deal.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageActive, got.Stage)
	assert.Nil(t, got.CloseDate)
}

func TestDealRepo_Update_PartialFields(t *testing.T) {
	tr := newTestRepos(t)
	org := tr.createOrg(t, "acme")
	deal := tr.createDeal(t, org.ID, "old title", 1000, 10, domain.StageProspect)

	title := "new title"
	amount := 2500.0
	got, err := tr.deals.Update(context.Background(), deal.ID, org.ID, domain.DealUpdate{
		Title:  &title,
		Amount: &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, 2500.0, got.Amount)
	assert.Equal(t, 10.0, got.CommissionRate)
	assert.Equal(t, domain.StageProspect, got.Stage)
}

func TestDealRepo_Delete_CascadesLedger(t *testing.T) {
	tr := newTestRepos(t)
	org := tr.createOrg(t, "acme")
	user := tr.createUser(t, org.ID, "alice", "alice@acme.test")
	deal := tr.createDeal(t, org.ID, "deal", 1000, 10, domain.StageClosed)

	ctx := context.Background()
	_, err := tr.commissions.Insert(ctx, &domain.CommissionEntry{
		DealID: deal.ID,
		UserID: user.ID,
		Amount: 100,
	})
	require.NoError(t, err)

	require.NoError(t, tr.deals.Delete(ctx, deal.ID, org.ID))

	sum, err := tr.commissions.SumForDeal(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sum)

	err = tr.deals.Delete(ctx, deal.ID, org.ID)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDealRepo_GetWithCommission(t *testing.T) {
	tr := newTestRepos(t)
	org := tr.createOrg(t, "acme")
	user := tr.createUser(t, org.ID, "alice", "alice@acme.test")
	deal := tr.createDeal(t, org.ID, "deal", 1000, 10, domain.StageProspect)

	ctx := context.Background()

	// Never closed: ledger sum is zero.
	got, err := tr.deals.GetWithCommission(ctx, deal.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.CommissionAmount)
	assert.False(t, got.IsClosed)

	_, err = tr.commissions.Insert(ctx, &domain.CommissionEntry{DealID: deal.ID, UserID: user.ID, Amount: 150})
	require.NoError(t, err)
	updated, err := tr.deals.UpdateStage(ctx, deal.ID, org.ID, domain.StageProspect, domain.StageActive, nil)
	require.NoError(t, err)
	require.True(t, updated)

	got, err = tr.deals.GetWithCommission(ctx, deal.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.CommissionAmount)
	assert.False(t, got.IsClosed)
}

func TestDealRepo_StatsAndBreakdown(t *testing.T) {
	tr := newTestRepos(t)
	org := tr.createOrg(t, "acme")
	tr.createDeal(t, org.ID, "a", 1000, 10, domain.StageProspect)
	tr.createDeal(t, org.ID, "b", 3000, 20, domain.StageClosed)

	stats, err := tr.deals.Stats(context.Background(), org.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalDeals)
	assert.Equal(t, int64(1), stats.ClosedDeals)
	assert.Equal(t, 3000.0, stats.TotalRevenue)
	assert.Equal(t, 2000.0, stats.AverageDealSize)
	assert.Equal(t, 15.0, stats.AverageCommissionRate)

	breakdown, err := tr.deals.StageBreakdown(context.Background(), org.ID)
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	for _, b := range breakdown {
		assert.Equal(t, 50.0, b.Percentage)
	}
}
