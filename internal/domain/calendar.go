package domain

import "time"

// CalendarSlot is a bookable window of time owned by a single user.
type CalendarSlot struct {
	ID          string
	UserID      string
	StartAt     time.Time
	EndAt       time.Time
	IsBooked    bool
	Title       *string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CalendarSlotUpdate is a partial field update for a slot.
type CalendarSlotUpdate struct {
	StartAt     *time.Time
	EndAt       *time.Time
	IsBooked    *bool
	Title       *string
	Description *string
}
