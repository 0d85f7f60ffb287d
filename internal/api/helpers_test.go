package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	internaldb "dealdesk/internal/db"
	"dealdesk/internal/db/repository"
	"dealdesk/internal/domain"
	"dealdesk/internal/service"
)

type testServer struct {
	router chi.Router
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, _ := internaldb.OpenTestSQLite(t)

	orgRepo := repository.NewOrganizationRepo(db)
	userRepo := repository.NewUserRepo(db)
	dealRepo := repository.NewDealRepo(db)
	commissionRepo := repository.NewCommissionRepo(db)
	planRepo := repository.NewPlanRepo(db)
	subscriptionRepo := repository.NewSubscriptionRepo(db)
	calendarRepo := repository.NewCalendarRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	for _, p := range []domain.Plan{
		{Key: domain.PlanFree, Name: "Free Plan", MaxDeals: 10, MaxUsers: 2, PriceMonthly: 0},
		{Key: domain.PlanPro, Name: "Pro Plan", MaxDeals: 100, MaxUsers: 10, PriceMonthly: 99},
		{Key: domain.PlanEnterprise, Name: "Enterprise Plan", MaxDeals: 1000, MaxUsers: 100, PriceMonthly: 299},
	} {
		_, err := planRepo.Upsert(context.Background(), &p)
		require.NoError(t, err)
	}

	tokens := service.NewTokenIssuer("api-test-secret", 15*time.Minute, time.Hour)
	billingSvc := service.NewBillingService(planRepo, subscriptionRepo)
	dealSvc := service.NewDealService(dealRepo, commissionRepo, userRepo, billingSvc, auditRepo)
	userSvc := service.NewUserService(userRepo, billingSvc, auditRepo)
	authSvc := service.NewAuthService(userRepo, orgRepo, planRepo, subscriptionRepo, auditRepo, tokens)

	handler := NewHandler(HandlerConfig{
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Auth:          authSvc,
		Deals:         dealSvc,
		Users:         userSvc,
		Organizations: service.NewOrganizationService(orgRepo, auditRepo),
		Commissions:   service.NewCommissionService(commissionRepo),
		KPIs:          service.NewKPIService(dealRepo, commissionRepo, auditRepo),
		Billing:       billingSvc,
		Calendar:      service.NewCalendarService(calendarRepo),
		Audit:         service.NewAuditService(auditRepo),
	})

	return &testServer{router: handler.Routes(tokens)}
}

// do sends a request with an optional bearer token and JSON body.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), "body: %s", rec.Body.String())
	return out
}

// registerTenant creates an organization through the API and returns the
// admin's access token and the registration payload.
func (ts *testServer) registerTenant(t *testing.T, orgName string) (string, authResponse) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"organizationName": orgName,
		"name":             "Admin " + orgName,
		"email":            fmt.Sprintf("admin@%s.test", orgName),
		"password":         "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decodeBody[authResponse](t, rec)
	return res.AccessToken, res
}

func (ts *testServer) createDeal(t *testing.T, token string, body map[string]any) dealResponse {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/v1/deals", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[dealResponse](t, rec)
}
