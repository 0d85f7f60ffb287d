package service

import (
	"context"

	"dealdesk/internal/domain"
)

// BillingService exposes the plan catalog and the organization's current
// subscription, and answers quota questions for the other services.
type BillingService struct {
	plans         domain.PlanRepository
	subscriptions domain.SubscriptionRepository
}

func NewBillingService(plans domain.PlanRepository, subscriptions domain.SubscriptionRepository) *BillingService {
	return &BillingService{plans: plans, subscriptions: subscriptions}
}

func (s *BillingService) Plans(ctx context.Context) ([]domain.Plan, error) {
	return s.plans.List(ctx)
}

func (s *BillingService) Subscription(ctx context.Context, ident domain.Identity) (*domain.SubscriptionWithPlan, error) {
	return s.subscriptions.GetByOrg(ctx, ident.OrganizationID)
}

// ActivePlan returns the plan backing the organization's current subscription.
func (s *BillingService) ActivePlan(ctx context.Context, orgID string) (*domain.Plan, error) {
	sub, err := s.subscriptions.GetByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &sub.Plan, nil
}
