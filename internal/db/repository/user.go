package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dealdesk/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, organization_id, name, email, password_hash, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.OrganizationID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	now := nowUTC()
	u.ID = domain.NewID()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.OrganizationID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if mapped := mapConstraintErr(err, "user with email %q already exists", u.Email); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id, orgID string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? AND organization_id = ?`, id, orgID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context, orgID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE organization_id = ? ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Update(ctx context.Context, id, orgID string, upd domain.UserUpdate) (*domain.User, error) {
	set := []string{"updated_at = ?"}
	args := []any{nowUTC()}

	if upd.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Email != nil {
		set = append(set, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.Role != nil {
		set = append(set, "role = ?")
		args = append(args, *upd.Role)
	}

	args = append(args, id, orgID)
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(set, ", ")+` WHERE id = ? AND organization_id = ?`, args...)
	if err != nil {
		if upd.Email != nil {
			if mapped := mapConstraintErr(err, "user with email %q already exists", *upd.Email); mapped != err {
				return nil, mapped
			}
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrNotFound("user not found")
	}
	return r.GetByID(ctx, id, orgID)
}

func (r *UserRepo) Delete(ctx context.Context, id, orgID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = ? AND organization_id = ?`, id, orgID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound("user not found")
	}
	return nil
}

func (r *UserRepo) FirstInOrg(ctx context.Context, orgID string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE organization_id = ? ORDER BY created_at ASC LIMIT 1`, orgID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("organization %s has no users", orgID)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) CountByOrg(ctx context.Context, orgID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE organization_id = ?`, orgID).Scan(&count)
	return count, err
}
