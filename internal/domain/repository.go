package domain

import (
	"context"
	"time"
)

// DealRepository provides tenant-scoped persistence for deals.
// Every read and write carries the organization ID; a deal belonging to a
// different organization behaves as if it did not exist.
type DealRepository interface {
	Create(ctx context.Context, d *Deal) (*Deal, error)
	List(ctx context.Context, orgID string, filter DealFilter) ([]Deal, error)
	GetByID(ctx context.Context, id, orgID string) (*Deal, error)
	GetWithCommission(ctx context.Context, id, orgID string) (*DealWithCommission, error)
	Update(ctx context.Context, id, orgID string, upd DealUpdate) (*Deal, error)
	// UpdateStage persists a stage transition as a compare-and-set on the
	// previous stage. It reports whether the row was updated; false means
	// a concurrent transition won the race.
	UpdateStage(ctx context.Context, id, orgID string, from, to DealStage, closeDate *time.Time) (bool, error)
	Delete(ctx context.Context, id, orgID string) error
	CountByOrg(ctx context.Context, orgID string) (int64, error)
	Stats(ctx context.Context, orgID string) (*DealStats, error)
	StageBreakdown(ctx context.Context, orgID string) ([]StageBreakdown, error)
}

// CommissionRepository owns the append-only ledger.
type CommissionRepository interface {
	Insert(ctx context.Context, e *CommissionEntry) (*CommissionEntry, error)
	List(ctx context.Context, orgID string, filter CommissionFilter) ([]CommissionDetail, int64, error)
	SumForDeal(ctx context.Context, dealID string) (float64, error)
	TotalForOrg(ctx context.Context, orgID string) (float64, error)
	Summary(ctx context.Context, orgID string, now time.Time) (*CommissionSummary, error)
	ByUser(ctx context.Context, orgID string) ([]UserCommissions, error)
}

// UserRepository provides persistence for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id, orgID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, orgID string) ([]User, error)
	Update(ctx context.Context, id, orgID string, upd UserUpdate) (*User, error)
	Delete(ctx context.Context, id, orgID string) error
	// FirstInOrg returns the earliest-created user of an organization.
	// It backs the fallback commission attribution for ownerless deals.
	FirstInOrg(ctx context.Context, orgID string) (*User, error)
	CountByOrg(ctx context.Context, orgID string) (int64, error)
}

// OrganizationRepository provides persistence for organizations.
type OrganizationRepository interface {
	Create(ctx context.Context, o *Organization) (*Organization, error)
	GetByID(ctx context.Context, id string) (*Organization, error)
	Update(ctx context.Context, id string, name string) (*Organization, error)
}

// PlanRepository provides read access to the plan catalog.
type PlanRepository interface {
	Upsert(ctx context.Context, p *Plan) (*Plan, error)
	GetByKey(ctx context.Context, key PlanKey) (*Plan, error)
	List(ctx context.Context) ([]Plan, error)
}

// SubscriptionRepository links organizations to plans.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *Subscription) (*Subscription, error)
	GetByOrg(ctx context.Context, orgID string) (*SubscriptionWithPlan, error)
}

// CalendarRepository provides per-user persistence for calendar slots.
type CalendarRepository interface {
	Create(ctx context.Context, s *CalendarSlot) (*CalendarSlot, error)
	List(ctx context.Context, userID string) ([]CalendarSlot, error)
	GetByID(ctx context.Context, id, userID string) (*CalendarSlot, error)
	Update(ctx context.Context, id, userID string, upd CalendarSlotUpdate) (*CalendarSlot, error)
	Delete(ctx context.Context, id, userID string) error
}

// AuditRepository is the audit sink and its read side.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, orgID string, filter AuditFilter) ([]AuditDetail, int64, error)
	Recent(ctx context.Context, orgID string, limit int) ([]AuditDetail, error)
}
