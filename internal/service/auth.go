package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dealdesk/internal/domain"
)

// AuthService handles registration, login, and token refresh.
type AuthService struct {
	users         domain.UserRepository
	orgs          domain.OrganizationRepository
	plans         domain.PlanRepository
	subscriptions domain.SubscriptionRepository
	audit         domain.AuditRepository
	tokens        *TokenIssuer
}

func NewAuthService(
	users domain.UserRepository,
	orgs domain.OrganizationRepository,
	plans domain.PlanRepository,
	subscriptions domain.SubscriptionRepository,
	audit domain.AuditRepository,
	tokens *TokenIssuer,
) *AuthService {
	return &AuthService{users: users, orgs: orgs, plans: plans, subscriptions: subscriptions, audit: audit, tokens: tokens}
}

// RegisterInput is the payload for creating a tenant.
type RegisterInput struct {
	OrganizationName string
	Name             string
	Email            string
	Password         string
}

// AuthResult is the response for register, login, and refresh.
type AuthResult struct {
	User   *domain.User
	Tokens *TokenPair
}

// Register creates an organization with its first user as ADMIN and starts a
// FREE subscription.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.OrganizationName == "" {
		return nil, domain.ErrValidation("organization name is required")
	}
	if in.Name == "" {
		return nil, domain.ErrValidation("user name is required")
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	org, err := s.orgs.Create(ctx, &domain.Organization{Name: in.OrganizationName})
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		OrganizationID: org.ID,
		Name:           in.Name,
		Email:          strings.ToLower(in.Email),
		PasswordHash:   string(hash),
		Role:           domain.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}

	if err := s.startFreeSubscription(ctx, org.ID, user.ID); err != nil {
		return nil, err
	}

	tokens, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		OrganizationID: org.ID,
		UserID:         user.ID,
		Action:         domain.AuditUserCreated,
		Entity:         "User",
		EntityID:       user.ID,
		Meta:           map[string]any{"email": user.Email, "role": string(user.Role)},
	})

	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) startFreeSubscription(ctx context.Context, orgID, actorID string) error {
	plan, err := s.plans.GetByKey(ctx, domain.PlanFree)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	sub, err := s.subscriptions.Create(ctx, &domain.Subscription{
		OrganizationID:     orgID,
		PlanID:             plan.ID,
		Status:             domain.SubscriptionActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
	})
	if err != nil {
		return err
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		OrganizationID: orgID,
		UserID:         actorID,
		Action:         domain.AuditSubscriptionCreated,
		Entity:         "Subscription",
		EntityID:       sub.ID,
		Meta:           map[string]any{"plan": string(plan.Key)},
	})
	return nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	tokens, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		OrganizationID: user.OrganizationID,
		UserID:         user.ID,
		Action:         domain.AuditUserLoggedIn,
		Entity:         "User",
		EntityID:       user.ID,
	})

	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.Verify(refreshToken, "refresh")
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, claims.Subject, claims.OrganizationID)
	if err != nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}
	tokens, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func validateEmail(email string) error {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return domain.ErrValidation("invalid email address %q", email)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return domain.ErrValidation("password must be at least 8 characters")
	}
	return nil
}
