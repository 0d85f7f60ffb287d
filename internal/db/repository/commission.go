package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dealdesk/internal/domain"
)

type CommissionRepo struct {
	db *sql.DB
}

func NewCommissionRepo(db *sql.DB) *CommissionRepo {
	return &CommissionRepo{db: db}
}

func (r *CommissionRepo) Insert(ctx context.Context, e *domain.CommissionEntry) (*domain.CommissionEntry, error) {
	e.ID = domain.NewID()
	e.CreatedAt = nowUTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO commission_entries (id, deal_id, user_id, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.DealID, e.UserID, e.Amount, e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert commission entry: %w", err)
	}
	return e, nil
}

func (r *CommissionRepo) List(ctx context.Context, orgID string, filter domain.CommissionFilter) ([]domain.CommissionDetail, int64, error) {
	where := []string{"d.organization_id = ?"}
	args := []any{orgID}

	if filter.UserID != nil {
		where = append(where, "ce.user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.DealID != nil {
		where = append(where, "ce.deal_id = ?")
		args = append(args, *filter.DealID)
	}
	if filter.CreatedAfter != nil {
		where = append(where, "ce.created_at >= ?")
		args = append(args, *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		where = append(where, "ce.created_at <= ?")
		args = append(args, *filter.CreatedBefore)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM commission_entries ce
		 JOIN deals d ON d.id = ce.deal_id WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ce.id, ce.deal_id, ce.user_id, ce.amount, ce.created_at,
	                 d.title, d.amount, d.commission_rate, u.name
	          FROM commission_entries ce
	          JOIN deals d ON d.id = ce.deal_id
	          JOIN users u ON u.id = ce.user_id
	          WHERE ` + cond + ` ORDER BY ce.created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Page.Limit(), filter.Page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.CommissionDetail
	for rows.Next() {
		var c domain.CommissionDetail
		if err := rows.Scan(&c.ID, &c.DealID, &c.UserID, &c.Amount, &c.CreatedAt,
			&c.DealTitle, &c.DealAmount, &c.CommissionRate, &c.UserName); err != nil {
			return nil, 0, err
		}
		entries = append(entries, c)
	}
	return entries, total, rows.Err()
}

func (r *CommissionRepo) SumForDeal(ctx context.Context, dealID string) (float64, error) {
	var sum float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM commission_entries WHERE deal_id = ?`, dealID).Scan(&sum)
	return sum, err
}

func (r *CommissionRepo) TotalForOrg(ctx context.Context, orgID string) (float64, error) {
	var sum float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(ce.amount), 0) FROM commission_entries ce
		 JOIN deals d ON d.id = ce.deal_id WHERE d.organization_id = ?`, orgID).Scan(&sum)
	return sum, err
}

// Summary aggregates the ledger for an organization. The month-to-date and
// year-to-date windows are derived from now in UTC.
func (r *CommissionRepo) Summary(ctx context.Context, orgID string, now time.Time) (*domain.CommissionSummary, error) {
	now = now.UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	var s domain.CommissionSummary
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(ce.amount), 0),
		        COALESCE(SUM(CASE WHEN ce.created_at >= ? THEN ce.amount ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN ce.created_at >= ? THEN ce.amount ELSE 0 END), 0)
		 FROM commission_entries ce
		 JOIN deals d ON d.id = ce.deal_id WHERE d.organization_id = ?`,
		startOfMonth, startOfYear, orgID).
		Scan(&s.TotalCommissions, &s.CommissionsThisMonth, &s.CommissionsThisYear)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(commission_rate), 0) FROM deals WHERE organization_id = ?`, orgID).
		Scan(&s.TotalDeals, &s.AverageCommissionRate)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CommissionRepo) ByUser(ctx context.Context, orgID string) ([]domain.UserCommissions, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.name,
		        COALESCE(SUM(ce.amount), 0),
		        COUNT(ce.id),
		        COALESCE(AVG(d.commission_rate), 0)
		 FROM users u
		 LEFT JOIN commission_entries ce ON ce.user_id = u.id
		 LEFT JOIN deals d ON d.id = ce.deal_id
		 WHERE u.organization_id = ?
		 GROUP BY u.id, u.name
		 ORDER BY u.created_at`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var result []domain.UserCommissions
	for rows.Next() {
		var uc domain.UserCommissions
		if err := rows.Scan(&uc.UserID, &uc.UserName, &uc.TotalCommissions,
			&uc.TotalDeals, &uc.AverageCommissionRate); err != nil {
			return nil, err
		}
		result = append(result, uc)
	}
	return result, rows.Err()
}
