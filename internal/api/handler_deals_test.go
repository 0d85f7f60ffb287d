package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealPipelineEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerTenant(t, "acme")

	deal := ts.createDeal(t, token, map[string]any{
		"title":          "Enterprise rollout",
		"amount":         10000,
		"commissionRate": 20,
	})
	assert.Equal(t, "PROSPECT", deal.Stage)
	assert.Equal(t, 20.0, deal.CommissionRate)

	rec := ts.do(t, http.MethodPatch, "/v1/deals/"+deal.ID+"/stage", token, map[string]any{"stage": "ACTIVE"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	active := decodeBody[dealResponse](t, rec)
	assert.Equal(t, "ACTIVE", active.Stage)

	rec = ts.do(t, http.MethodPatch, "/v1/deals/"+deal.ID+"/stage", token, map[string]any{"stage": "CLOSED"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	closed := decodeBody[dealResponse](t, rec)
	assert.Equal(t, "CLOSED", closed.Stage)
	require.NotNil(t, closed.CommissionAmount)
	assert.InDelta(t, 2000.0, *closed.CommissionAmount, 0.001)
	require.NotNil(t, closed.IsClosed)
	assert.True(t, *closed.IsClosed)
	assert.NotNil(t, closed.CloseDate)

	// Terminal stage: any further transition is a 400 with the canonical message.
	rec = ts.do(t, http.MethodPatch, "/v1/deals/"+deal.ID+"/stage", token, map[string]any{"stage": "LOST"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeBody[Error](t, rec)
	assert.Equal(t, http.StatusBadRequest, errBody.Code)
	assert.Contains(t, errBody.Message, "Invalid stage transition from CLOSED to LOST")

	// Exactly one ledger entry came out of the close.
	rec = ts.do(t, http.MethodGet, "/v1/commissions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ledger := decodeBody[commissionListResponse](t, rec)
	require.Len(t, ledger.Commissions, 1)
	assert.Equal(t, deal.ID, ledger.Commissions[0].DealID)
	assert.InDelta(t, 2000.0, ledger.Commissions[0].Amount, 0.001)
}

func TestCreateDealDefaultsAndValidation(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerTenant(t, "acme")

	// Commission rate defaults when omitted.
	deal := ts.createDeal(t, token, map[string]any{"title": "Starter", "amount": 500})
	assert.Equal(t, 10.0, deal.CommissionRate)
	assert.Equal(t, "PROSPECT", deal.Stage)

	// Missing title, missing amount, negative amount, unknown stage, rate out
	// of range, and an unknown field.
	cases := []map[string]any{
		{"amount": 500},
		{"title": "X"},
		{"title": "X", "amount": -5},
		{"title": "X", "amount": 5, "stage": "WON"},
		{"title": "X", "amount": 5, "commissionRate": 120},
		{"title": "X", "amount": 5, "unexpectedField": "boom"},
	}
	for _, body := range cases {
		rec := ts.do(t, http.MethodPost, "/v1/deals", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %v", body)
	}
}

func TestListDealsWithFilters(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerTenant(t, "acme")

	ts.createDeal(t, token, map[string]any{"title": "Small", "amount": 1000})
	big := ts.createDeal(t, token, map[string]any{"title": "Big", "amount": 90000})
	rec := ts.do(t, http.MethodPatch, "/v1/deals/"+big.ID+"/stage", token, map[string]any{"stage": "ACTIVE"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/v1/deals?stage=ACTIVE", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deals := decodeBody[[]dealResponse](t, rec)
	require.Len(t, deals, 1)
	assert.Equal(t, "Big", deals[0].Title)

	rec = ts.do(t, http.MethodGet, "/v1/deals?minAmount=5000", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deals = decodeBody[[]dealResponse](t, rec)
	require.Len(t, deals, 1)
	assert.Equal(t, "Big", deals[0].Title)

	rec = ts.do(t, http.MethodGet, "/v1/deals?stage=BOGUS", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExplicitCloseDatePassedThrough(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerTenant(t, "acme")
	deal := ts.createDeal(t, token, map[string]any{"title": "Dated", "amount": 4000})

	when := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	rec := ts.do(t, http.MethodPatch, "/v1/deals/"+deal.ID+"/stage", token, map[string]any{
		"stage":     "ACTIVE",
		"closeDate": when.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[dealResponse](t, rec)
	require.NotNil(t, got.CloseDate)
	assert.True(t, got.CloseDate.Equal(when))
}

func TestUpdateAndDeleteDeal(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerTenant(t, "acme")
	deal := ts.createDeal(t, token, map[string]any{"title": "Draft", "amount": 1000})

	rec := ts.do(t, http.MethodPatch, "/v1/deals/"+deal.ID, token, map[string]any{"title": "Final", "amount": 2500})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[dealResponse](t, rec)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, 2500.0, updated.Amount)

	rec = ts.do(t, http.MethodDelete, "/v1/deals/"+deal.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/v1/deals/"+deal.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerTenant(t, "acme")

	deal := ts.createDeal(t, token, map[string]any{"title": "Won", "amount": 50000, "commissionRate": 15})
	rec := ts.do(t, http.MethodPatch, "/v1/deals/"+deal.ID+"/stage", token, map[string]any{"stage": "ACTIVE"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPatch, "/v1/deals/"+deal.ID+"/stage", token, map[string]any{"stage": "CLOSED"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/v1/kpis/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decodeBody[dashboardResponse](t, rec)
	assert.EqualValues(t, 1, dash.TotalDeals)
	assert.InDelta(t, 7500.0, dash.TotalCommissions, 0.001)
	assert.InDelta(t, 100.0, dash.ConversionRate, 0.001)
	assert.NotEmpty(t, dash.StageBreakdown)

	rec = ts.do(t, http.MethodGet, "/v1/commissions/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody[commissionSummaryResponse](t, rec)
	assert.InDelta(t, 7500.0, summary.TotalCommissions, 0.001)

	rec = ts.do(t, http.MethodGet, "/v1/commissions/by-user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	perUser := decodeBody[[]userCommissionsResponse](t, rec)
	require.Len(t, perUser, 1)
}
