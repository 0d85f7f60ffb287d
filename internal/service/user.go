package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"dealdesk/internal/domain"
)

// UserService manages organization membership.
type UserService struct {
	users   domain.UserRepository
	billing *BillingService
	audit   domain.AuditRepository
}

func NewUserService(users domain.UserRepository, billing *BillingService, audit domain.AuditRepository) *UserService {
	return &UserService{users: users, billing: billing, audit: audit}
}

// CreateInput is the payload for adding a member to the caller's organization.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.UserRole
}

// Create adds a new user to the caller's organization. Admin only; the plan
// caps how many members an organization may have.
func (s *UserService) Create(ctx context.Context, ident domain.Identity, in CreateUserInput) (*domain.User, error) {
	if !ident.IsAdmin() {
		return nil, domain.ErrAccessDenied("only admins can create users")
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
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if _, err := domain.ParseUserRole(string(role)); err != nil {
		return nil, err
	}

	if err := s.checkUserQuota(ctx, ident.OrganizationID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		OrganizationID: ident.OrganizationID,
		Name:           in.Name,
		Email:          strings.ToLower(in.Email),
		PasswordHash:   string(hash),
		Role:           role,
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, ident, domain.AuditUserCreated, user.ID, map[string]any{"email": user.Email, "role": string(user.Role)})
	return user, nil
}

// checkUserQuota enforces the active plan's maxUsers limit. Organizations
// without a subscription are not gated; any other plan-lookup failure blocks
// the write.
func (s *UserService) checkUserQuota(ctx context.Context, orgID string) error {
	plan, err := s.billing.ActivePlan(ctx, orgID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	count, err := s.users.CountByOrg(ctx, orgID)
	if err != nil {
		return err
	}
	if count >= plan.MaxUsers {
		return domain.ErrAccessDenied("plan %s allows at most %d users; upgrade to add more", plan.Key, plan.MaxUsers)
	}
	return nil
}

func (s *UserService) List(ctx context.Context, ident domain.Identity) ([]domain.User, error) {
	return s.users.List(ctx, ident.OrganizationID)
}

func (s *UserService) Get(ctx context.Context, ident domain.Identity, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id, ident.OrganizationID)
}

// Update modifies a user. Non-admins may only update themselves, and only an
// admin can change roles.
func (s *UserService) Update(ctx context.Context, ident domain.Identity, id string, upd domain.UserUpdate) (*domain.User, error) {
	if !ident.IsAdmin() && ident.UserID != id {
		return nil, domain.ErrAccessDenied("you can only update your own profile")
	}
	if upd.Role != nil {
		if !ident.IsAdmin() {
			return nil, domain.ErrAccessDenied("only admins can change roles")
		}
		if _, err := domain.ParseUserRole(string(*upd.Role)); err != nil {
			return nil, err
		}
	}
	if upd.Name != nil && *upd.Name == "" {
		return nil, domain.ErrValidation("user name is required")
	}
	if upd.Email != nil {
		if err := validateEmail(*upd.Email); err != nil {
			return nil, err
		}
		lower := strings.ToLower(*upd.Email)
		upd.Email = &lower
	}

	user, err := s.users.Update(ctx, id, ident.OrganizationID, upd)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, ident, domain.AuditUserUpdated, user.ID, nil)
	return user, nil
}

// Delete removes a user. Admin only; self-deletion is rejected so an
// organization cannot orphan itself.
func (s *UserService) Delete(ctx context.Context, ident domain.Identity, id string) error {
	if !ident.IsAdmin() {
		return domain.ErrAccessDenied("only admins can delete users")
	}
	if ident.UserID == id {
		return domain.ErrValidation("you cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id, ident.OrganizationID); err != nil {
		return err
	}
	s.logAudit(ctx, ident, domain.AuditUserDeleted, id, nil)
	return nil
}

func (s *UserService) logAudit(ctx context.Context, ident domain.Identity, action, entityID string, meta map[string]any) {
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		OrganizationID: ident.OrganizationID,
		UserID:         ident.UserID,
		Action:         action,
		Entity:         "User",
		EntityID:       entityID,
		Meta:           meta,
	})
}
