package domain

import "time"

// CommissionEntry is one append-only ledger record, written exactly once
// when a deal transitions into CLOSED.
type CommissionEntry struct {
	ID        string
	DealID    string
	UserID    string
	Amount    float64
	CreatedAt time.Time
}

// CommissionAmount computes the commission owed for a deal.
func CommissionAmount(dealAmount, commissionRate float64) float64 {
	return dealAmount * commissionRate / 100
}

// CommissionDetail is a ledger entry joined with its deal and earner.
type CommissionDetail struct {
	CommissionEntry
	DealTitle      string
	DealAmount     float64
	CommissionRate float64
	UserName       string
}

// CommissionFilter narrows ledger listings. Nil fields are ignored.
type CommissionFilter struct {
	UserID        *string
	DealID        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Page          PageRequest
}

// CommissionSummary aggregates an organization's ledger.
type CommissionSummary struct {
	TotalCommissions      float64
	TotalDeals            int64
	AverageCommissionRate float64
	CommissionsThisMonth  float64
	CommissionsThisYear   float64
}

// UserCommissions aggregates ledger entries per earner.
type UserCommissions struct {
	UserID                string
	UserName              string
	TotalCommissions      float64
	TotalDeals            int64
	AverageCommissionRate float64
}
