package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dealdesk/internal/db/repository"
	"dealdesk/internal/domain"
)

// EnsurePlans upserts the plan catalog. It runs on every startup so plan
// limits can be adjusted by shipping a new build.
func EnsurePlans(ctx context.Context, plans *repository.PlanRepo) error {
	catalog := []domain.Plan{
		{
			Key:          domain.PlanFree,
			Name:         "Free Plan",
			Description:  "Perfect for getting started",
			MaxDeals:     10,
			MaxUsers:     2,
			PriceMonthly: 0,
			Features: []string{
				"Basic deal tracking",
				"Commission calculations",
				"Basic reporting",
			},
		},
		{
			Key:          domain.PlanPro,
			Name:         "Pro Plan",
			Description:  "For growing teams",
			MaxDeals:     100,
			MaxUsers:     10,
			PriceMonthly: 99,
			Features: []string{
				"Advanced deal tracking",
				"Commission calculations",
				"Advanced reporting",
				"Calendar integration",
				"Audit logs",
			},
		},
		{
			Key:          domain.PlanEnterprise,
			Name:         "Enterprise Plan",
			Description:  "For large organizations",
			MaxDeals:     1000,
			MaxUsers:     100,
			PriceMonthly: 299,
			Features: []string{
				"Unlimited deal tracking",
				"Advanced commission calculations",
				"Custom reporting",
				"Full calendar integration",
				"Advanced audit logs",
				"Priority support",
			},
		},
	}
	for i := range catalog {
		if _, err := plans.Upsert(ctx, &catalog[i]); err != nil {
			return fmt.Errorf("upsert plan %s: %w", catalog[i].Key, err)
		}
	}
	return nil
}

type seedDeal struct {
	title       string
	amount      float64
	stage       domain.DealStage
	rate        float64
	closeDate   string // yyyy-mm-dd, closed deals only
	description string
}

var demoDeals = []seedDeal{
	{"Enterprise Software License", 50000, domain.StageClosed, 15, "2024-01-15", "Annual software license for enterprise client"},
	{"Consulting Services", 25000, domain.StageActive, 12, "", "6-month consulting engagement"},
	{"Training Program", 15000, domain.StageProspect, 10, "", "Corporate training program"},
	{"Support Contract", 8000, domain.StageClosed, 8, "2024-02-01", "Annual support contract"},
	{"Custom Development", 75000, domain.StageActive, 20, "", "Custom software development project"},
	{"Data Migration", 12000, domain.StageLost, 10, "", "Data migration project (lost to competitor)"},
	{"Cloud Migration", 45000, domain.StageClosed, 18, "2024-01-30", "Cloud infrastructure migration"},
	{"Security Audit", 18000, domain.StageProspect, 12, "", "Comprehensive security audit"},
	{"Performance Optimization", 22000, domain.StageActive, 15, "", "System performance optimization"},
	{"Integration Project", 35000, domain.StageClosed, 16, "2024-02-10", "Third-party system integration"},
}

// SeedDemo populates a demo organization with two users, a PRO subscription,
// sample deals, ledger entries for the closed ones, and a few calendar slots.
// Idempotent: a no-op when the demo admin already exists.
func SeedDemo(ctx context.Context, deps Deps) error {
	orgs := repository.NewOrganizationRepo(deps.WriteDB)
	users := repository.NewUserRepo(deps.WriteDB)
	deals := repository.NewDealRepo(deps.WriteDB)
	commissions := repository.NewCommissionRepo(deps.WriteDB)
	plans := repository.NewPlanRepo(deps.WriteDB)
	subscriptions := repository.NewSubscriptionRepo(deps.WriteDB)
	calendar := repository.NewCalendarRepo(deps.WriteDB)
	audit := repository.NewAuditRepo(deps.WriteDB)

	if _, err := users.GetByEmail(ctx, "admin@demo.com"); err == nil {
		return nil
	}

	org, err := orgs.Create(ctx, &domain.Organization{Name: "Demo Organization"})
	if err != nil {
		return fmt.Errorf("create demo org: %w", err)
	}

	admin, err := createSeedUser(ctx, users, org.ID, "Admin User", "admin@demo.com", "admin123", domain.RoleAdmin)
	if err != nil {
		return err
	}
	regular, err := createSeedUser(ctx, users, org.ID, "Regular User", "user@demo.com", "user123", domain.RoleUser)
	if err != nil {
		return err
	}

	pro, err := plans.GetByKey(ctx, domain.PlanPro)
	if err != nil {
		return fmt.Errorf("load PRO plan: %w", err)
	}
	now := time.Now().UTC()
	if _, err := subscriptions.Create(ctx, &domain.Subscription{
		OrganizationID:     org.ID,
		PlanID:             pro.ID,
		Status:             domain.SubscriptionActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
	}); err != nil {
		return fmt.Errorf("create demo subscription: %w", err)
	}

	for _, sd := range demoDeals {
		deal := &domain.Deal{
			OrganizationID: org.ID,
			OwnerID:        &admin.ID,
			Title:          sd.title,
			Amount:         sd.amount,
			Stage:          sd.stage,
			CommissionRate: sd.rate,
		}
		if sd.description != "" {
			desc := sd.description
			deal.Description = &desc
		}
		if sd.closeDate != "" {
			ts, err := time.Parse("2006-01-02", sd.closeDate)
			if err != nil {
				return fmt.Errorf("parse close date %q: %w", sd.closeDate, err)
			}
			deal.CloseDate = &ts
		}
		created, err := deals.Create(ctx, deal)
		if err != nil {
			return fmt.Errorf("create demo deal %q: %w", sd.title, err)
		}
		if sd.stage == domain.StageClosed {
			if _, err := commissions.Insert(ctx, &domain.CommissionEntry{
				DealID: created.ID,
				UserID: admin.ID,
				Amount: domain.CommissionAmount(sd.amount, sd.rate),
			}); err != nil {
				return fmt.Errorf("create demo commission for %q: %w", sd.title, err)
			}
		}
	}

	slots := []struct {
		offset   time.Duration
		length   time.Duration
		isBooked bool
		title    string
		desc     string
	}{
		{24 * time.Hour, time.Hour, false, "Available for meetings", "Open slot for client meetings"},
		{48 * time.Hour, 2 * time.Hour, true, "Client Demo", "Product demonstration for potential client"},
		{72 * time.Hour, 90 * time.Minute, false, "Available", "Open slot for consultations"},
	}
	for _, s := range slots {
		title, desc := s.title, s.desc
		if _, err := calendar.Create(ctx, &domain.CalendarSlot{
			UserID:      admin.ID,
			StartAt:     now.Add(s.offset),
			EndAt:       now.Add(s.offset + s.length),
			IsBooked:    s.isBooked,
			Title:       &title,
			Description: &desc,
		}); err != nil {
			return fmt.Errorf("create demo slot %q: %w", s.title, err)
		}
	}

	for _, u := range []*domain.User{admin, regular} {
		_ = audit.Insert(ctx, &domain.AuditEntry{
			OrganizationID: org.ID,
			UserID:         admin.ID,
			Action:         domain.AuditUserCreated,
			Entity:         "User",
			EntityID:       u.ID,
			Meta:           map[string]any{"email": u.Email, "role": string(u.Role)},
		})
	}

	deps.Logger.Info("seeded demo data",
		"organization", org.Name,
		"admin", admin.Email,
		"deals", len(demoDeals))
	return nil
}

func createSeedUser(ctx context.Context, users *repository.UserRepo, orgID, name, email, password string, role domain.UserRole) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := users.Create(ctx, &domain.User{
		OrganizationID: orgID,
		Name:           name,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           role,
	})
	if err != nil {
		return nil, fmt.Errorf("create seed user %s: %w", email, err)
	}
	return u, nil
}
