package service

import (
	"context"

	"dealdesk/internal/domain"
)

// AuditService reads the organization's audit trail. Admin only.
type AuditService struct {
	audit domain.AuditRepository
}

func NewAuditService(audit domain.AuditRepository) *AuditService {
	return &AuditService{audit: audit}
}

func (s *AuditService) List(ctx context.Context, ident domain.Identity, filter domain.AuditFilter) ([]domain.AuditDetail, int64, error) {
	if !ident.IsAdmin() {
		return nil, 0, domain.ErrAccessDenied("only admins can read the audit log")
	}
	return s.audit.List(ctx, ident.OrganizationID, filter)
}
