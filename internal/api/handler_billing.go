package api

import (
	"net/http"

	"dealdesk/internal/domain"
)

func (h *Handler) subscription(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	sub, err := h.billing.Subscription(r.Context(), ident)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subscriptionToAPI(sub))
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	if _, err := identity(r); err != nil {
		h.writeError(w, r, err)
		return
	}

	plans, err := h.billing.Plans(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]planResponse, 0, len(plans))
	for i := range plans {
		out = append(out, planToAPI(&plans[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	filter := domain.AuditFilter{Page: pageFromQuery(r)}
	q := r.URL.Query()
	if raw := q.Get("action"); raw != "" {
		filter.Action = &raw
	}
	if raw := q.Get("entity"); raw != "" {
		filter.Entity = &raw
	}
	if raw := q.Get("entityId"); raw != "" {
		filter.EntityID = &raw
	}
	if raw := q.Get("userId"); raw != "" {
		filter.UserID = &raw
	}

	entries, total, err := h.audit.List(r.Context(), ident, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := auditListResponse{
		Entries:       make([]auditResponse, 0, len(entries)),
		Total:         total,
		NextPageToken: domain.NextPageToken(filter.Page.Offset(), filter.Page.Limit(), total),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, auditToAPI(e))
	}
	writeJSON(w, http.StatusOK, out)
}
