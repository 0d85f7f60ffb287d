package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"dealdesk/internal/domain"
)

type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	meta := e.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal audit meta: %w", err)
	}

	e.ID = domain.NewID()
	e.CreatedAt = nowUTC()

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, organization_id, user_id, action, entity, entity_id, meta, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OrganizationID, e.UserID, e.Action, e.Entity, e.EntityID, string(metaJSON), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

const auditSelect = `SELECT a.id, a.organization_id, a.user_id, a.action, a.entity, a.entity_id,
       a.meta, a.created_at, u.name, u.email
FROM audit_logs a
JOIN users u ON u.id = a.user_id`

func scanAudit(row interface{ Scan(...any) error }) (*domain.AuditDetail, error) {
	var d domain.AuditDetail
	var meta string
	err := row.Scan(&d.ID, &d.OrganizationID, &d.UserID, &d.Action, &d.Entity, &d.EntityID,
		&meta, &d.CreatedAt, &d.UserName, &d.UserEmail)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(meta), &d.Meta); err != nil {
		return nil, fmt.Errorf("unmarshal audit meta: %w", err)
	}
	return &d, nil
}

func (r *AuditRepo) List(ctx context.Context, orgID string, filter domain.AuditFilter) ([]domain.AuditDetail, int64, error) {
	where := []string{"a.organization_id = ?"}
	args := []any{orgID}

	if filter.Action != nil {
		where = append(where, "a.action = ?")
		args = append(args, *filter.Action)
	}
	if filter.Entity != nil {
		where = append(where, "a.entity = ?")
		args = append(args, *filter.Entity)
	}
	if filter.EntityID != nil {
		where = append(where, "a.entity_id = ?")
		args = append(args, *filter.EntityID)
	}
	if filter.UserID != nil {
		where = append(where, "a.user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.CreatedAfter != nil {
		where = append(where, "a.created_at >= ?")
		args = append(args, *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		where = append(where, "a.created_at <= ?")
		args = append(args, *filter.CreatedBefore)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_logs a WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.db.QueryContext(ctx,
		auditSelect+` WHERE `+cond+` ORDER BY a.created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.AuditDetail
	for rows.Next() {
		d, err := scanAudit(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, *d)
	}
	return entries, total, rows.Err()
}

func (r *AuditRepo) Recent(ctx context.Context, orgID string, limit int) ([]domain.AuditDetail, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		auditSelect+` WHERE a.organization_id = ? ORDER BY a.created_at DESC LIMIT ?`, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.AuditDetail
	for rows.Next() {
		d, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *d)
	}
	return entries, rows.Err()
}
