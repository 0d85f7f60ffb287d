package domain

import "time"

// PlanKey identifies a subscription plan tier.
type PlanKey string

const (
	PlanFree       PlanKey = "FREE"
	PlanPro        PlanKey = "PRO"
	PlanEnterprise PlanKey = "ENTERPRISE"
)

// SubscriptionStatus is the billing state of an organization's subscription.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionCanceled SubscriptionStatus = "CANCELED"
	SubscriptionPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionTrial    SubscriptionStatus = "TRIAL"
)

// Plan is a subscription tier with feature limits.
type Plan struct {
	ID           string
	Key          PlanKey
	Name         string
	Description  string
	MaxDeals     int64
	MaxUsers     int64
	PriceMonthly float64
	Features     []string
}

// Subscription links an organization to its plan for a billing period.
type Subscription struct {
	ID                 string
	OrganizationID     string
	PlanID             string
	Status             SubscriptionStatus
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SubscriptionWithPlan is a subscription joined with its plan.
type SubscriptionWithPlan struct {
	Subscription
	Plan Plan
}
