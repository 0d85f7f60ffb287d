package service

import (
	"context"

	"dealdesk/internal/domain"
)

// CalendarService manages a user's personal availability slots.
type CalendarService struct {
	calendar domain.CalendarRepository
}

func NewCalendarService(calendar domain.CalendarRepository) *CalendarService {
	return &CalendarService{calendar: calendar}
}

func (s *CalendarService) Create(ctx context.Context, ident domain.Identity, slot *domain.CalendarSlot) (*domain.CalendarSlot, error) {
	if !slot.EndAt.After(slot.StartAt) {
		return nil, domain.ErrValidation("slot end must be after its start")
	}
	slot.UserID = ident.UserID
	return s.calendar.Create(ctx, slot)
}

func (s *CalendarService) List(ctx context.Context, ident domain.Identity) ([]domain.CalendarSlot, error) {
	return s.calendar.List(ctx, ident.UserID)
}

func (s *CalendarService) Get(ctx context.Context, ident domain.Identity, id string) (*domain.CalendarSlot, error) {
	return s.calendar.GetByID(ctx, id, ident.UserID)
}

func (s *CalendarService) Update(ctx context.Context, ident domain.Identity, id string, upd domain.CalendarSlotUpdate) (*domain.CalendarSlot, error) {
	if upd.StartAt != nil && upd.EndAt != nil && !upd.EndAt.After(*upd.StartAt) {
		return nil, domain.ErrValidation("slot end must be after its start")
	}
	return s.calendar.Update(ctx, id, ident.UserID, upd)
}

func (s *CalendarService) Delete(ctx context.Context, ident domain.Identity, id string) error {
	return s.calendar.Delete(ctx, id, ident.UserID)
}
