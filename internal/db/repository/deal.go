package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealdesk/internal/domain"
)

type DealRepo struct {
	db *sql.DB
}

func NewDealRepo(db *sql.DB) *DealRepo {
	return &DealRepo{db: db}
}

const dealColumns = `id, organization_id, owner_id, title, amount, stage, commission_rate, close_date, description, created_at, updated_at`

func scanDeal(row interface{ Scan(...any) error }) (*domain.Deal, error) {
	var d domain.Deal
	var ownerID, description sql.NullString
	var closeDate sql.NullTime
	err := row.Scan(&d.ID, &d.OrganizationID, &ownerID, &d.Title, &d.Amount, &d.Stage,
		&d.CommissionRate, &closeDate, &description, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.OwnerID = strPtr(ownerID)
	d.CloseDate = timePtr(closeDate)
	d.Description = strPtr(description)
	return &d, nil
}

func (r *DealRepo) Create(ctx context.Context, d *domain.Deal) (*domain.Deal, error) {
	now := nowUTC()
	d.ID = domain.NewID()
	d.CreatedAt = now
	d.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO deals (`+dealColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.OrganizationID, nullStr(d.OwnerID), d.Title, d.Amount, d.Stage,
		d.CommissionRate, nullTime(d.CloseDate), nullStr(d.Description), d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert deal: %w", err)
	}
	return d, nil
}

func (r *DealRepo) List(ctx context.Context, orgID string, filter domain.DealFilter) ([]domain.Deal, error) {
	where := []string{"organization_id = ?"}
	args := []any{orgID}

	if filter.Stage != nil {
		where = append(where, "stage = ?")
		args = append(args, *filter.Stage)
	}
	if filter.MinAmount != nil {
		where = append(where, "amount >= ?")
		args = append(args, *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		where = append(where, "amount <= ?")
		args = append(args, *filter.MaxAmount)
	}
	if filter.CreatedAfter != nil {
		where = append(where, "created_at >= ?")
		args = append(args, *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		where = append(where, "created_at <= ?")
		args = append(args, *filter.CreatedBefore)
	}

	query := `SELECT ` + dealColumns + ` FROM deals WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var deals []domain.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *d)
	}
	return deals, rows.Err()
}

func (r *DealRepo) GetByID(ctx context.Context, id, orgID string) (*domain.Deal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE id = ? AND organization_id = ?`, id, orgID)
	d, err := scanDeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("deal not found")
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DealRepo) GetWithCommission(ctx context.Context, id, orgID string) (*domain.DealWithCommission, error) {
	d, err := r.GetByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}

	var commissionAmount float64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM commission_entries WHERE deal_id = ?`, id).
		Scan(&commissionAmount); err != nil {
		return nil, err
	}

	return &domain.DealWithCommission{
		Deal:             *d,
		CommissionAmount: commissionAmount,
		IsClosed:         d.Stage == domain.StageClosed,
	}, nil
}

func (r *DealRepo) Update(ctx context.Context, id, orgID string, upd domain.DealUpdate) (*domain.Deal, error) {
	set := []string{"updated_at = ?"}
	args := []any{nowUTC()}

	if upd.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Amount != nil {
		set = append(set, "amount = ?")
		args = append(args, *upd.Amount)
	}
	if upd.CommissionRate != nil {
		set = append(set, "commission_rate = ?")
		args = append(args, *upd.CommissionRate)
	}
	if upd.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.OwnerID != nil {
		set = append(set, "owner_id = ?")
		args = append(args, *upd.OwnerID)
	}

	args = append(args, id, orgID)
	res, err := r.db.ExecContext(ctx,
		`UPDATE deals SET `+strings.Join(set, ", ")+` WHERE id = ? AND organization_id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update deal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrNotFound("deal not found")
	}
	return r.GetByID(ctx, id, orgID)
}

// UpdateStage persists a stage transition with a compare-and-set on the
// previous stage. closeDate, when non-nil, overwrites the stored close date.
func (r *DealRepo) UpdateStage(ctx context.Context, id, orgID string, from, to domain.DealStage, closeDate *time.Time) (bool, error) {
	var res sql.Result
	var err error
	if closeDate != nil {
		res, err = r.db.ExecContext(ctx,
			`UPDATE deals SET stage = ?, close_date = ?, updated_at = ?
			 WHERE id = ? AND organization_id = ? AND stage = ?`,
			to, *closeDate, nowUTC(), id, orgID, from)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE deals SET stage = ?, updated_at = ?
			 WHERE id = ? AND organization_id = ? AND stage = ?`,
			to, nowUTC(), id, orgID, from)
	}
	if err != nil {
		return false, fmt.Errorf("update deal stage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *DealRepo) Delete(ctx context.Context, id, orgID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM deals WHERE id = ? AND organization_id = ?`, id, orgID)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound("deal not found")
	}
	return nil
}

func (r *DealRepo) CountByOrg(ctx context.Context, orgID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deals WHERE organization_id = ?`, orgID).Scan(&count)
	return count, err
}

func (r *DealRepo) Stats(ctx context.Context, orgID string) (*domain.DealStats, error) {
	var s domain.DealStats
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN stage = 'CLOSED' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN stage = 'CLOSED' THEN amount ELSE 0 END), 0),
		        COALESCE(AVG(amount), 0),
		        COALESCE(AVG(commission_rate), 0)
		 FROM deals WHERE organization_id = ?`, orgID).
		Scan(&s.TotalDeals, &s.ClosedDeals, &s.TotalRevenue, &s.AverageDealSize, &s.AverageCommissionRate)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *DealRepo) StageBreakdown(ctx context.Context, orgID string) ([]domain.StageBreakdown, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT stage, COUNT(*), COALESCE(SUM(amount), 0)
		 FROM deals WHERE organization_id = ? GROUP BY stage ORDER BY stage`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var breakdown []domain.StageBreakdown
	var total int64
	for rows.Next() {
		var b domain.StageBreakdown
		if err := rows.Scan(&b.Stage, &b.Count, &b.TotalAmount); err != nil {
			return nil, err
		}
		total += b.Count
		breakdown = append(breakdown, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range breakdown {
		if total > 0 {
			breakdown[i].Percentage = float64(breakdown[i].Count) / float64(total) * 100
		}
	}
	return breakdown, nil
}
