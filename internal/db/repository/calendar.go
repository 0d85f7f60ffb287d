package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dealdesk/internal/domain"
)

type CalendarRepo struct {
	db *sql.DB
}

func NewCalendarRepo(db *sql.DB) *CalendarRepo {
	return &CalendarRepo{db: db}
}

const slotColumns = `id, user_id, start_at, end_at, is_booked, title, description, created_at, updated_at`

func scanSlot(row interface{ Scan(...any) error }) (*domain.CalendarSlot, error) {
	var s domain.CalendarSlot
	var title, description sql.NullString
	err := row.Scan(&s.ID, &s.UserID, &s.StartAt, &s.EndAt, &s.IsBooked,
		&title, &description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Title = strPtr(title)
	s.Description = strPtr(description)
	return &s, nil
}

func (r *CalendarRepo) Create(ctx context.Context, s *domain.CalendarSlot) (*domain.CalendarSlot, error) {
	now := nowUTC()
	s.ID = domain.NewID()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO calendar_slots (`+slotColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.StartAt, s.EndAt, s.IsBooked, nullStr(s.Title), nullStr(s.Description),
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert calendar slot: %w", err)
	}
	return s, nil
}

func (r *CalendarRepo) List(ctx context.Context, userID string) ([]domain.CalendarSlot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM calendar_slots WHERE user_id = ? ORDER BY start_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var slots []domain.CalendarSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *s)
	}
	return slots, rows.Err()
}

func (r *CalendarRepo) GetByID(ctx context.Context, id, userID string) (*domain.CalendarSlot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM calendar_slots WHERE id = ? AND user_id = ?`, id, userID)
	s, err := scanSlot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("calendar slot not found")
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *CalendarRepo) Update(ctx context.Context, id, userID string, upd domain.CalendarSlotUpdate) (*domain.CalendarSlot, error) {
	set := []string{"updated_at = ?"}
	args := []any{nowUTC()}

	if upd.StartAt != nil {
		set = append(set, "start_at = ?")
		args = append(args, *upd.StartAt)
	}
	if upd.EndAt != nil {
		set = append(set, "end_at = ?")
		args = append(args, *upd.EndAt)
	}
	if upd.IsBooked != nil {
		set = append(set, "is_booked = ?")
		args = append(args, *upd.IsBooked)
	}
	if upd.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *upd.Description)
	}

	args = append(args, id, userID)
	res, err := r.db.ExecContext(ctx,
		`UPDATE calendar_slots SET `+strings.Join(set, ", ")+` WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update calendar slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrNotFound("calendar slot not found")
	}
	return r.GetByID(ctx, id, userID)
}

func (r *CalendarRepo) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM calendar_slots WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete calendar slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound("calendar slot not found")
	}
	return nil
}
