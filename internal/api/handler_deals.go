package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"dealdesk/internal/domain"
)

func (h *Handler) createDeal(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req createDealRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	deal := &domain.Deal{
		Title:          req.Title,
		Amount:         req.Amount,
		CommissionRate: domain.DefaultCommissionRate,
		Description:    req.Description,
		OwnerID:        req.OwnerID,
		CloseDate:      req.CloseDate,
	}
	if req.CommissionRate != nil {
		deal.CommissionRate = *req.CommissionRate
	}
	if req.Stage != nil {
		deal.Stage = domain.DealStage(*req.Stage)
	}

	created, err := h.deals.Create(r.Context(), ident, deal)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dealToAPI(created))
}

func (h *Handler) listDeals(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	filter, err := dealFilterFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	deals, err := h.deals.List(r.Context(), ident, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]dealResponse, 0, len(deals))
	for i := range deals {
		out = append(out, dealToAPI(&deals[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func dealFilterFromQuery(r *http.Request) (domain.DealFilter, error) {
	var filter domain.DealFilter
	q := r.URL.Query()

	if raw := q.Get("stage"); raw != "" {
		stage, err := domain.ParseDealStage(raw)
		if err != nil {
			return filter, err
		}
		filter.Stage = &stage
	}
	for param, dst := range map[string]**float64{"minAmount": &filter.MinAmount, "maxAmount": &filter.MaxAmount} {
		if raw := q.Get(param); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return filter, domain.ErrValidation("invalid %s %q", param, raw)
			}
			*dst = &v
		}
	}
	for param, dst := range map[string]**time.Time{"createdAfter": &filter.CreatedAfter, "createdBefore": &filter.CreatedBefore} {
		if raw := q.Get(param); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return filter, domain.ErrValidation("invalid %s %q, want RFC 3339", param, raw)
			}
			*dst = &ts
		}
	}
	return filter, nil
}

func (h *Handler) getDeal(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	deal, err := h.deals.Get(r.Context(), ident, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dealWithCommissionToAPI(deal))
}

func (h *Handler) updateDeal(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req updateDealRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	deal, err := h.deals.Update(r.Context(), ident, chi.URLParam(r, "id"), domain.DealUpdate{
		Title:          req.Title,
		Amount:         req.Amount,
		CommissionRate: req.CommissionRate,
		Description:    req.Description,
		OwnerID:        req.OwnerID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dealToAPI(deal))
}

func (h *Handler) changeDealStage(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req changeStageRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	stage, err := domain.ParseDealStage(req.Stage)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	deal, err := h.deals.ChangeStage(r.Context(), ident, chi.URLParam(r, "id"), stage, req.CloseDate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dealWithCommissionToAPI(deal))
}

func (h *Handler) deleteDeal(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.deals.Delete(r.Context(), ident, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
