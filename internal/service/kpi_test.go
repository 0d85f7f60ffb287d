package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/domain"
)

func TestDashboardAggregates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ident := env.register(t, "Acme", "admin@acme.test")

	d1 := env.createDeal(t, ident, "Won", 10000, 20)
	env.createDeal(t, ident, "Open", 5000, 10)

	_, err := env.deals.ChangeStage(ctx, ident, d1.ID, domain.StageActive, nil)
	require.NoError(t, err)
	_, err = env.deals.ChangeStage(ctx, ident, d1.ID, domain.StageClosed, nil)
	require.NoError(t, err)

	dash, err := env.kpis.Dashboard(ctx, ident)
	require.NoError(t, err)

	assert.EqualValues(t, 2, dash.Summary.TotalDeals)
	assert.InDelta(t, 10000.0, dash.Summary.TotalRevenue, 0.001)
	assert.InDelta(t, 2000.0, dash.Summary.TotalCommissions, 0.001)
	assert.InDelta(t, 7500.0, dash.Summary.AverageDealSize, 0.001)
	assert.InDelta(t, 50.0, dash.Summary.ConversionRate, 0.001)

	byStage := map[domain.DealStage]domain.StageBreakdown{}
	for _, b := range dash.StageBreakdown {
		byStage[b.Stage] = b
	}
	assert.EqualValues(t, 1, byStage[domain.StageClosed].Count)
	assert.EqualValues(t, 1, byStage[domain.StageProspect].Count)
	assert.InDelta(t, 50.0, byStage[domain.StageClosed].Percentage, 0.001)

	assert.NotEmpty(t, dash.RecentActivity)
}

func TestDashboardEmptyOrg(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ident := env.register(t, "Acme", "admin@acme.test")

	dash, err := env.kpis.Dashboard(ctx, ident)
	require.NoError(t, err)
	assert.Zero(t, dash.Summary.TotalDeals)
	assert.Zero(t, dash.Summary.ConversionRate)
	assert.Zero(t, dash.Summary.TotalCommissions)
}

func TestCommissionSummaryAndByUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ident := env.register(t, "Acme", "admin@acme.test")

	d := env.createDeal(t, ident, "Won", 50000, 15)
	_, err := env.deals.ChangeStage(ctx, ident, d.ID, domain.StageActive, nil)
	require.NoError(t, err)
	_, err = env.deals.ChangeStage(ctx, ident, d.ID, domain.StageClosed, nil)
	require.NoError(t, err)

	summary, err := env.commissions.Summary(ctx, ident)
	require.NoError(t, err)
	assert.InDelta(t, 7500.0, summary.TotalCommissions, 0.001)
	assert.EqualValues(t, 1, summary.TotalDeals)
	assert.InDelta(t, 7500.0, summary.CommissionsThisMonth, 0.001)
	assert.InDelta(t, 7500.0, summary.CommissionsThisYear, 0.001)

	perUser, err := env.commissions.ByUser(ctx, ident)
	require.NoError(t, err)
	require.Len(t, perUser, 1)
	assert.Equal(t, ident.UserID, perUser[0].UserID)
	assert.InDelta(t, 7500.0, perUser[0].TotalCommissions, 0.001)
}
