package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"dealdesk/internal/domain"
)

func (h *Handler) createSlot(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req createSlotRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	slot, err := h.calendar.Create(r.Context(), ident, &domain.CalendarSlot{
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, slotToAPI(slot))
}

func (h *Handler) listSlots(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	slots, err := h.calendar.List(r.Context(), ident)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]slotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, slotToAPI(&slots[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getSlot(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	slot, err := h.calendar.Get(r.Context(), ident, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slotToAPI(slot))
}

func (h *Handler) updateSlot(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req updateSlotRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	slot, err := h.calendar.Update(r.Context(), ident, chi.URLParam(r, "id"), domain.CalendarSlotUpdate{
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		IsBooked:    req.IsBooked,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slotToAPI(slot))
}

func (h *Handler) deleteSlot(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.calendar.Delete(r.Context(), ident, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
