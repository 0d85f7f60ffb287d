package api

import (
	"time"

	"dealdesk/internal/domain"
	"dealdesk/internal/service"
)

// --- request bodies ---

type registerRequest struct {
	OrganizationName string `json:"organizationName" validate:"required"`
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type createDealRequest struct {
	Title          string     `json:"title" validate:"required"`
	Amount         float64    `json:"amount" validate:"required,gt=0"`
	CommissionRate *float64   `json:"commissionRate" validate:"omitempty,gte=0,lte=100"`
	Stage          *string    `json:"stage" validate:"omitempty,oneof=PROSPECT ACTIVE CLOSED LOST"`
	Description    *string    `json:"description"`
	OwnerID        *string    `json:"ownerId"`
	CloseDate      *time.Time `json:"closeDate"`
}

type updateDealRequest struct {
	Title          *string  `json:"title"`
	Amount         *float64 `json:"amount" validate:"omitempty,gt=0"`
	CommissionRate *float64 `json:"commissionRate" validate:"omitempty,gte=0,lte=100"`
	Description    *string  `json:"description"`
	OwnerID        *string  `json:"ownerId"`
}

type changeStageRequest struct {
	Stage     string     `json:"stage" validate:"required,oneof=PROSPECT ACTIVE CLOSED LOST"`
	CloseDate *time.Time `json:"closeDate"`
}

type createUserRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

type updateOrganizationRequest struct {
	Name string `json:"name" validate:"required"`
}

type createSlotRequest struct {
	StartAt     time.Time `json:"startAt" validate:"required"`
	EndAt       time.Time `json:"endAt" validate:"required"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
}

type updateSlotRequest struct {
	StartAt     *time.Time `json:"startAt"`
	EndAt       *time.Time `json:"endAt"`
	IsBooked    *bool      `json:"isBooked"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
}

// --- response bodies ---

type authResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
}

type userResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type profileResponse struct {
	userResponse
	Organization organizationResponse `json:"organization"`
}

type organizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type dealResponse struct {
	ID               string     `json:"id"`
	OrganizationID   string     `json:"organizationId"`
	OwnerID          *string    `json:"ownerId,omitempty"`
	Title            string     `json:"title"`
	Amount           float64    `json:"amount"`
	Stage            string     `json:"stage"`
	CommissionRate   float64    `json:"commissionRate"`
	CloseDate        *time.Time `json:"closeDate,omitempty"`
	Description      *string    `json:"description,omitempty"`
	CommissionAmount *float64   `json:"commissionAmount,omitempty"`
	IsClosed         *bool      `json:"isClosed,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type commissionResponse struct {
	ID             string    `json:"id"`
	DealID         string    `json:"dealId"`
	UserID         string    `json:"userId"`
	Amount         float64   `json:"amount"`
	DealTitle      string    `json:"dealTitle"`
	DealAmount     float64   `json:"dealAmount"`
	CommissionRate float64   `json:"commissionRate"`
	UserName       string    `json:"userName"`
	CreatedAt      time.Time `json:"createdAt"`
}

type commissionListResponse struct {
	Commissions   []commissionResponse `json:"commissions"`
	Total         int64                `json:"total"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
}

type commissionSummaryResponse struct {
	TotalCommissions      float64 `json:"totalCommissions"`
	TotalDeals            int64   `json:"totalDeals"`
	AverageCommissionRate float64 `json:"averageCommissionRate"`
	CommissionsThisMonth  float64 `json:"commissionsThisMonth"`
	CommissionsThisYear   float64 `json:"commissionsThisYear"`
}

type userCommissionsResponse struct {
	UserID                string  `json:"userId"`
	UserName              string  `json:"userName"`
	TotalCommissions      float64 `json:"totalCommissions"`
	TotalDeals            int64   `json:"totalDeals"`
	AverageCommissionRate float64 `json:"averageCommissionRate"`
}

type stageBreakdownResponse struct {
	Stage       string  `json:"stage"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
	Percentage  float64 `json:"percentage"`
}

type activityResponse struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Entity      string    `json:"entity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type dashboardResponse struct {
	TotalDeals            int64                    `json:"totalDeals"`
	TotalRevenue          float64                  `json:"totalRevenue"`
	TotalCommissions      float64                  `json:"totalCommissions"`
	AverageDealSize       float64                  `json:"averageDealSize"`
	AverageCommissionRate float64                  `json:"averageCommissionRate"`
	ConversionRate        float64                  `json:"conversionRate"`
	StageBreakdown        []stageBreakdownResponse `json:"stageBreakdown"`
	RecentActivity        []activityResponse       `json:"recentActivity"`
}

type planResponse struct {
	ID           string   `json:"id"`
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	MaxDeals     int64    `json:"maxDeals"`
	MaxUsers     int64    `json:"maxUsers"`
	PriceMonthly float64  `json:"priceMonthly"`
	Features     []string `json:"features"`
}

type subscriptionResponse struct {
	ID                 string       `json:"id"`
	OrganizationID     string       `json:"organizationId"`
	Status             string       `json:"status"`
	CurrentPeriodStart time.Time    `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time    `json:"currentPeriodEnd"`
	Plan               planResponse `json:"plan"`
}

type slotResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	IsBooked    bool      `json:"isBooked"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type auditResponse struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entityId"`
	UserID    string         `json:"userId"`
	UserName  string         `json:"userName"`
	UserEmail string         `json:"userEmail"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

type auditListResponse struct {
	Entries       []auditResponse `json:"entries"`
	Total         int64           `json:"total"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
}

// --- mapping helpers ---

func userToAPI(u *domain.User) userResponse {
	return userResponse{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func organizationToAPI(o *domain.Organization) organizationResponse {
	return organizationResponse{ID: o.ID, Name: o.Name, CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt}
}

func dealToAPI(d *domain.Deal) dealResponse {
	return dealResponse{
		ID:             d.ID,
		OrganizationID: d.OrganizationID,
		OwnerID:        d.OwnerID,
		Title:          d.Title,
		Amount:         d.Amount,
		Stage:          string(d.Stage),
		CommissionRate: d.CommissionRate,
		CloseDate:      d.CloseDate,
		Description:    d.Description,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func dealWithCommissionToAPI(d *domain.DealWithCommission) dealResponse {
	resp := dealToAPI(&d.Deal)
	amount := d.CommissionAmount
	closed := d.IsClosed
	resp.CommissionAmount = &amount
	resp.IsClosed = &closed
	return resp
}

func commissionToAPI(c domain.CommissionDetail) commissionResponse {
	return commissionResponse{
		ID:             c.ID,
		DealID:         c.DealID,
		UserID:         c.UserID,
		Amount:         c.Amount,
		DealTitle:      c.DealTitle,
		DealAmount:     c.DealAmount,
		CommissionRate: c.CommissionRate,
		UserName:       c.UserName,
		CreatedAt:      c.CreatedAt,
	}
}

func planToAPI(p *domain.Plan) planResponse {
	return planResponse{
		ID:           p.ID,
		Key:          string(p.Key),
		Name:         p.Name,
		Description:  p.Description,
		MaxDeals:     p.MaxDeals,
		MaxUsers:     p.MaxUsers,
		PriceMonthly: p.PriceMonthly,
		Features:     p.Features,
	}
}

func subscriptionToAPI(s *domain.SubscriptionWithPlan) subscriptionResponse {
	return subscriptionResponse{
		ID:                 s.ID,
		OrganizationID:     s.OrganizationID,
		Status:             string(s.Status),
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		Plan:               planToAPI(&s.Plan),
	}
}

func slotToAPI(s *domain.CalendarSlot) slotResponse {
	return slotResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		StartAt:     s.StartAt,
		EndAt:       s.EndAt,
		IsBooked:    s.IsBooked,
		Title:       s.Title,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func auditToAPI(e domain.AuditDetail) auditResponse {
	return auditResponse{
		ID:        e.ID,
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		UserID:    e.UserID,
		UserName:  e.UserName,
		UserEmail: e.UserEmail,
		Meta:      e.Meta,
		CreatedAt: e.CreatedAt,
	}
}

func authResultToAPI(res *service.AuthResult) authResponse {
	return authResponse{
		User:         userToAPI(res.User),
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		ExpiresIn:    res.Tokens.ExpiresIn,
	}
}
