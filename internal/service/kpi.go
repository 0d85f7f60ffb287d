package service

import (
	"context"
	"fmt"

	"dealdesk/internal/domain"
)

const recentActivityLimit = 10

// KPIService composes the dashboard from deal stats, the commission ledger,
// and recent audit activity.
type KPIService struct {
	deals       domain.DealRepository
	commissions domain.CommissionRepository
	audit       domain.AuditRepository
}

func NewKPIService(deals domain.DealRepository, commissions domain.CommissionRepository, audit domain.AuditRepository) *KPIService {
	return &KPIService{deals: deals, commissions: commissions, audit: audit}
}

func (s *KPIService) Dashboard(ctx context.Context, ident domain.Identity) (*domain.KPIDashboard, error) {
	stats, err := s.deals.Stats(ctx, ident.OrganizationID)
	if err != nil {
		return nil, err
	}
	totalCommissions, err := s.commissions.TotalForOrg(ctx, ident.OrganizationID)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.deals.StageBreakdown(ctx, ident.OrganizationID)
	if err != nil {
		return nil, err
	}
	recent, err := s.audit.Recent(ctx, ident.OrganizationID, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	summary := domain.KPISummary{
		TotalDeals:            stats.TotalDeals,
		TotalRevenue:          stats.TotalRevenue,
		TotalCommissions:      totalCommissions,
		AverageDealSize:       stats.AverageDealSize,
		AverageCommissionRate: stats.AverageCommissionRate,
	}
	if stats.TotalDeals > 0 {
		summary.ConversionRate = float64(stats.ClosedDeals) / float64(stats.TotalDeals) * 100
	}

	activity := make([]domain.ActivityItem, 0, len(recent))
	for _, e := range recent {
		activity = append(activity, domain.ActivityItem{
			ID:          e.ID,
			Action:      e.Action,
			Entity:      e.Entity,
			Description: describeActivity(e),
			CreatedAt:   e.CreatedAt,
		})
	}

	return &domain.KPIDashboard{
		Summary:        summary,
		StageBreakdown: breakdown,
		RecentActivity: activity,
	}, nil
}

func describeActivity(e domain.AuditDetail) string {
	actor := e.UserName
	if actor == "" {
		actor = "someone"
	}
	switch e.Action {
	case domain.AuditDealCreated:
		return fmt.Sprintf("%s created a deal", actor)
	case domain.AuditStageChanged:
		from, to := e.Meta["from"], e.Meta["to"]
		return fmt.Sprintf("%s moved a deal from %v to %v", actor, from, to)
	case domain.AuditCommissionCalculated:
		return "commission recorded for a closed deal"
	case domain.AuditUserCreated:
		return fmt.Sprintf("%s added a user", actor)
	case domain.AuditUserLoggedIn:
		return fmt.Sprintf("%s logged in", actor)
	default:
		return fmt.Sprintf("%s performed %s", actor, e.Action)
	}
}
