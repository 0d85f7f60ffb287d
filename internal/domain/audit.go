package domain

import "time"

// Audit actions recorded by the services. The sink is fire-and-forget: a
// failed audit write never fails the operation that produced it.
const (
	AuditUserCreated          = "USER_CREATED"
	AuditUserUpdated          = "USER_UPDATED"
	AuditUserDeleted          = "USER_DELETED"
	AuditUserLoggedIn         = "USER_LOGGED_IN"
	AuditDealCreated          = "DEAL_CREATED"
	AuditDealUpdated          = "DEAL_UPDATED"
	AuditDealDeleted          = "DEAL_DELETED"
	AuditStageChanged         = "STAGE_CHANGED"
	AuditCommissionCalculated = "COMMISSION_CALCULATED"
	AuditOrganizationUpdated  = "ORGANIZATION_UPDATED"
	AuditSubscriptionCreated  = "SUBSCRIPTION_CREATED"
)

// AuditEntry is one event record in an organization's audit trail.
type AuditEntry struct {
	ID             string
	OrganizationID string
	UserID         string
	Action         string
	Entity         string
	EntityID       string
	Meta           map[string]any
	CreatedAt      time.Time
}

// AuditDetail is an audit entry joined with its actor.
type AuditDetail struct {
	AuditEntry
	UserName  string
	UserEmail string
}

// AuditFilter narrows audit listings. Nil fields are ignored.
type AuditFilter struct {
	Action        *string
	Entity        *string
	EntityID      *string
	UserID        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Page          PageRequest
}
