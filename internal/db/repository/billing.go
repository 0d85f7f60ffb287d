package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"dealdesk/internal/domain"
)

type PlanRepo struct {
	db *sql.DB
}

func NewPlanRepo(db *sql.DB) *PlanRepo {
	return &PlanRepo{db: db}
}

// Upsert inserts a plan or updates the existing row for its key.
// Used by seeding so repeated startups converge on the same catalog.
func (r *PlanRepo) Upsert(ctx context.Context, p *domain.Plan) (*domain.Plan, error) {
	features, err := json.Marshal(p.Features)
	if err != nil {
		return nil, fmt.Errorf("marshal plan features: %w", err)
	}
	if p.ID == "" {
		p.ID = domain.NewID()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO plans (id, key, name, description, max_deals, max_users, price_monthly, features)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   max_deals = excluded.max_deals,
		   max_users = excluded.max_users,
		   price_monthly = excluded.price_monthly,
		   features = excluded.features`,
		p.ID, p.Key, p.Name, p.Description, p.MaxDeals, p.MaxUsers, p.PriceMonthly, string(features))
	if err != nil {
		return nil, fmt.Errorf("upsert plan: %w", err)
	}
	return r.GetByKey(ctx, p.Key)
}

func scanPlan(row interface{ Scan(...any) error }) (*domain.Plan, error) {
	var p domain.Plan
	var features string
	err := row.Scan(&p.ID, &p.Key, &p.Name, &p.Description, &p.MaxDeals, &p.MaxUsers,
		&p.PriceMonthly, &features)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(features), &p.Features); err != nil {
		return nil, fmt.Errorf("unmarshal plan features: %w", err)
	}
	return &p, nil
}

const planColumns = `id, key, name, description, max_deals, max_users, price_monthly, features`

func (r *PlanRepo) GetByKey(ctx context.Context, key domain.PlanKey) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM plans WHERE key = ?`, key)
	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("plan %s not found", key)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PlanRepo) List(ctx context.Context) ([]domain.Plan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+planColumns+` FROM plans ORDER BY price_monthly ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var plans []domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

type SubscriptionRepo struct {
	db *sql.DB
}

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

func (r *SubscriptionRepo) Create(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error) {
	now := nowUTC()
	s.ID = domain.NewID()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, organization_id, plan_id, status, current_period_start, current_period_end, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.OrganizationID, s.PlanID, s.Status, s.CurrentPeriodStart, s.CurrentPeriodEnd,
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}
	return s, nil
}

// GetByOrg returns the organization's most recent subscription joined with
// its plan.
func (r *SubscriptionRepo) GetByOrg(ctx context.Context, orgID string) (*domain.SubscriptionWithPlan, error) {
	var sub domain.SubscriptionWithPlan
	var features string
	err := r.db.QueryRowContext(ctx,
		`SELECT s.id, s.organization_id, s.plan_id, s.status,
		        s.current_period_start, s.current_period_end, s.created_at, s.updated_at,
		        p.id, p.key, p.name, p.description, p.max_deals, p.max_users, p.price_monthly, p.features
		 FROM subscriptions s
		 JOIN plans p ON p.id = s.plan_id
		 WHERE s.organization_id = ?
		 ORDER BY s.created_at DESC LIMIT 1`, orgID).
		Scan(&sub.ID, &sub.OrganizationID, &sub.PlanID, &sub.Status,
			&sub.CurrentPeriodStart, &sub.CurrentPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt,
			&sub.Plan.ID, &sub.Plan.Key, &sub.Plan.Name, &sub.Plan.Description,
			&sub.Plan.MaxDeals, &sub.Plan.MaxUsers, &sub.Plan.PriceMonthly, &features)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("no subscription for organization")
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(features), &sub.Plan.Features); err != nil {
		return nil, fmt.Errorf("unmarshal plan features: %w", err)
	}
	return &sub, nil
}
