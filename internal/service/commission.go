package service

import (
	"context"
	"time"

	"dealdesk/internal/domain"
)

// CommissionService reads the commission ledger and its aggregations.
// The ledger itself is written only by DealService on close.
type CommissionService struct {
	commissions domain.CommissionRepository
}

func NewCommissionService(commissions domain.CommissionRepository) *CommissionService {
	return &CommissionService{commissions: commissions}
}

func (s *CommissionService) List(ctx context.Context, ident domain.Identity, filter domain.CommissionFilter) ([]domain.CommissionDetail, int64, error) {
	return s.commissions.List(ctx, ident.OrganizationID, filter)
}

func (s *CommissionService) Summary(ctx context.Context, ident domain.Identity) (*domain.CommissionSummary, error) {
	return s.commissions.Summary(ctx, ident.OrganizationID, time.Now().UTC())
}

func (s *CommissionService) ByUser(ctx context.Context, ident domain.Identity) ([]domain.UserCommissions, error) {
	return s.commissions.ByUser(ctx, ident.OrganizationID)
}
