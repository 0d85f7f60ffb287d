// Package service implements the business operations behind the HTTP API.
package service

import (
	"context"
	"errors"
	"time"

	"dealdesk/internal/domain"
)

// DealService owns the deal lifecycle, including the stage state machine and
// the commission write on close.
type DealService struct {
	deals       domain.DealRepository
	commissions domain.CommissionRepository
	users       domain.UserRepository
	billing     *BillingService
	audit       domain.AuditRepository
}

func NewDealService(
	deals domain.DealRepository,
	commissions domain.CommissionRepository,
	users domain.UserRepository,
	billing *BillingService,
	audit domain.AuditRepository,
) *DealService {
	return &DealService{deals: deals, commissions: commissions, users: users, billing: billing, audit: audit}
}

// Create validates and persists a new deal. The organization's plan caps the
// number of deals it may hold.
func (s *DealService) Create(ctx context.Context, ident domain.Identity, d *domain.Deal) (*domain.Deal, error) {
	if d.Title == "" {
		return nil, domain.ErrValidation("deal title is required")
	}
	if d.Amount <= 0 {
		return nil, domain.ErrValidation("deal amount must be positive")
	}
	if d.CommissionRate < 0 || d.CommissionRate > 100 {
		return nil, domain.ErrValidation("commission rate must be between 0 and 100")
	}
	if d.Stage == "" {
		d.Stage = domain.StageProspect
	}
	if _, err := domain.ParseDealStage(string(d.Stage)); err != nil {
		return nil, err
	}
	d.OrganizationID = ident.OrganizationID

	if d.OwnerID != nil {
		if _, err := s.users.GetByID(ctx, *d.OwnerID, ident.OrganizationID); err != nil {
			return nil, domain.ErrValidation("owner %s does not belong to this organization", *d.OwnerID)
		}
	}

	if err := s.checkDealQuota(ctx, ident.OrganizationID); err != nil {
		return nil, err
	}

	result, err := s.deals.Create(ctx, d)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, ident, domain.AuditDealCreated, result.ID, map[string]any{"title": result.Title})
	return result, nil
}

// checkDealQuota enforces the active plan's maxDeals limit. Organizations
// without a subscription are not gated; any other plan-lookup failure blocks
// the write.
func (s *DealService) checkDealQuota(ctx context.Context, orgID string) error {
	plan, err := s.billing.ActivePlan(ctx, orgID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	count, err := s.deals.CountByOrg(ctx, orgID)
	if err != nil {
		return err
	}
	if count >= plan.MaxDeals {
		return domain.ErrAccessDenied("plan %s allows at most %d deals; upgrade to add more", plan.Key, plan.MaxDeals)
	}
	return nil
}

func (s *DealService) List(ctx context.Context, ident domain.Identity, filter domain.DealFilter) ([]domain.Deal, error) {
	return s.deals.List(ctx, ident.OrganizationID, filter)
}

// Get returns a deal with its ledger-derived commission amount.
func (s *DealService) Get(ctx context.Context, ident domain.Identity, id string) (*domain.DealWithCommission, error) {
	return s.deals.GetWithCommission(ctx, id, ident.OrganizationID)
}

// Update applies a partial field update. Stage and close date are not
// updatable here; they change only through ChangeStage.
func (s *DealService) Update(ctx context.Context, ident domain.Identity, id string, upd domain.DealUpdate) (*domain.Deal, error) {
	if upd.Title != nil && *upd.Title == "" {
		return nil, domain.ErrValidation("deal title is required")
	}
	if upd.Amount != nil && *upd.Amount <= 0 {
		return nil, domain.ErrValidation("deal amount must be positive")
	}
	if upd.CommissionRate != nil && (*upd.CommissionRate < 0 || *upd.CommissionRate > 100) {
		return nil, domain.ErrValidation("commission rate must be between 0 and 100")
	}
	if upd.OwnerID != nil {
		if _, err := s.users.GetByID(ctx, *upd.OwnerID, ident.OrganizationID); err != nil {
			return nil, domain.ErrValidation("owner %s does not belong to this organization", *upd.OwnerID)
		}
	}

	result, err := s.deals.Update(ctx, id, ident.OrganizationID, upd)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, ident, domain.AuditDealUpdated, result.ID, nil)
	return result, nil
}

// ChangeStage moves a deal along the pipeline. On a transition into CLOSED it
// appends exactly one commission entry computed from the deal's amount and
// rate as they were before the update.
//
// The stage write is a compare-and-set on the previous stage, so two
// concurrent transitions cannot both close the deal: the loser gets a
// conflict and no second ledger entry is written.
func (s *DealService) ChangeStage(ctx context.Context, ident domain.Identity, id string, requested domain.DealStage, requestedCloseDate *time.Time) (*domain.DealWithCommission, error) {
	deal, err := s.deals.GetByID(ctx, id, ident.OrganizationID)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateStageTransition(deal.Stage, requested); err != nil {
		return nil, err
	}

	// An explicit close date is applied verbatim whatever the target stage;
	// a close without one defaults to the transition time.
	closeDate := requestedCloseDate
	if requested == domain.StageClosed && closeDate == nil {
		now := time.Now().UTC()
		closeDate = &now
	}

	updated, err := s.deals.UpdateStage(ctx, id, ident.OrganizationID, deal.Stage, requested, closeDate)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.ErrConflict("deal %s was modified concurrently; re-read and retry", id)
	}

	s.logAudit(ctx, ident, domain.AuditStageChanged, deal.ID, map[string]any{
		"from": string(deal.Stage),
		"to":   string(requested),
	})

	if requested == domain.StageClosed {
		if err := s.recordCommission(ctx, ident, deal); err != nil {
			return nil, err
		}
	}

	return s.deals.GetWithCommission(ctx, id, ident.OrganizationID)
}

// recordCommission appends the single ledger entry for a closed deal, using
// the pre-update amount and rate.
func (s *DealService) recordCommission(ctx context.Context, ident domain.Identity, deal *domain.Deal) error {
	earner, err := s.resolveEarner(ctx, deal)
	if err != nil {
		return err
	}

	amount := domain.CommissionAmount(deal.Amount, deal.CommissionRate)
	entry, err := s.commissions.Insert(ctx, &domain.CommissionEntry{
		DealID: deal.ID,
		UserID: earner,
		Amount: amount,
	})
	if err != nil {
		return err
	}

	s.logAudit(ctx, ident, domain.AuditCommissionCalculated, deal.ID, map[string]any{
		"commissionEntryId": entry.ID,
		"amount":            amount,
		"userId":            earner,
	})
	return nil
}

// resolveEarner picks the commission recipient: the deal's owner when set,
// otherwise the organization's first user. The fallback keeps ownerless
// deals payable; assigning an owner is the supported path.
func (s *DealService) resolveEarner(ctx context.Context, deal *domain.Deal) (string, error) {
	if deal.OwnerID != nil {
		return *deal.OwnerID, nil
	}
	first, err := s.users.FirstInOrg(ctx, deal.OrganizationID)
	if err != nil {
		return "", err
	}
	return first.ID, nil
}

func (s *DealService) Delete(ctx context.Context, ident domain.Identity, id string) error {
	if err := s.deals.Delete(ctx, id, ident.OrganizationID); err != nil {
		return err
	}
	s.logAudit(ctx, ident, domain.AuditDealDeleted, id, nil)
	return nil
}

func (s *DealService) logAudit(ctx context.Context, ident domain.Identity, action, entityID string, meta map[string]any) {
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		OrganizationID: ident.OrganizationID,
		UserID:         ident.UserID,
		Action:         action,
		Entity:         "Deal",
		EntityID:       entityID,
		Meta:           meta,
	})
}
