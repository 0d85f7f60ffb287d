package domain

import "time"

// DealStats aggregates an organization's deals for KPI reporting.
type DealStats struct {
	TotalDeals            int64
	ClosedDeals           int64
	TotalRevenue          float64
	AverageDealSize       float64
	AverageCommissionRate float64
}

// StageBreakdown is the per-stage slice of the pipeline.
type StageBreakdown struct {
	Stage       DealStage
	Count       int64
	TotalAmount float64
	Percentage  float64
}

// ActivityItem is a recent audit event shaped for the dashboard.
type ActivityItem struct {
	ID          string
	Action      string
	Entity      string
	Description string
	CreatedAt   time.Time
}

// KPISummary holds the headline dashboard metrics.
type KPISummary struct {
	TotalDeals            int64
	TotalRevenue          float64
	TotalCommissions      float64
	AverageDealSize       float64
	AverageCommissionRate float64
	ConversionRate        float64 // closed / total, percent
}

// KPIDashboard is the full dashboard payload.
type KPIDashboard struct {
	Summary        KPISummary
	StageBreakdown []StageBreakdown
	RecentActivity []ActivityItem
}
