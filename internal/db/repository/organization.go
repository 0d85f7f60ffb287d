package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dealdesk/internal/domain"
)

type OrganizationRepo struct {
	db *sql.DB
}

func NewOrganizationRepo(db *sql.DB) *OrganizationRepo {
	return &OrganizationRepo{db: db}
}

func (r *OrganizationRepo) Create(ctx context.Context, o *domain.Organization) (*domain.Organization, error) {
	now := nowUTC()
	o.ID = domain.NewID()
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO organizations (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		o.ID, o.Name, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert organization: %w", err)
	}
	return o, nil
}

func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	var o domain.Organization
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM organizations WHERE id = ?`, id).
		Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("organization not found")
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrganizationRepo) Update(ctx context.Context, id string, name string) (*domain.Organization, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE organizations SET name = ?, updated_at = ? WHERE id = ?`, name, nowUTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrNotFound("organization not found")
	}
	return r.GetByID(ctx, id)
}
