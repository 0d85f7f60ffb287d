package service

import (
	"context"

	"dealdesk/internal/domain"
)

// OrganizationService serves the caller's own organization.
type OrganizationService struct {
	orgs  domain.OrganizationRepository
	audit domain.AuditRepository
}

func NewOrganizationService(orgs domain.OrganizationRepository, audit domain.AuditRepository) *OrganizationService {
	return &OrganizationService{orgs: orgs, audit: audit}
}

func (s *OrganizationService) Current(ctx context.Context, ident domain.Identity) (*domain.Organization, error) {
	return s.orgs.GetByID(ctx, ident.OrganizationID)
}

// Rename updates the organization's name. Admin only.
func (s *OrganizationService) Rename(ctx context.Context, ident domain.Identity, name string) (*domain.Organization, error) {
	if !ident.IsAdmin() {
		return nil, domain.ErrAccessDenied("only admins can update the organization")
	}
	if name == "" {
		return nil, domain.ErrValidation("organization name is required")
	}
	org, err := s.orgs.Update(ctx, ident.OrganizationID, name)
	if err != nil {
		return nil, err
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		OrganizationID: ident.OrganizationID,
		UserID:         ident.UserID,
		Action:         domain.AuditOrganizationUpdated,
		Entity:         "Organization",
		EntityID:       org.ID,
		Meta:           map[string]any{"name": name},
	})
	return org, nil
}
