package api

import (
	"net/http"
	"strconv"
	"time"

	"dealdesk/internal/domain"
)

func pageFromQuery(r *http.Request) domain.PageRequest {
	var page domain.PageRequest
	q := r.URL.Query()
	if raw := q.Get("maxResults"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page.MaxResults = n
		}
	}
	page.PageToken = q.Get("pageToken")
	return page
}

func (h *Handler) listCommissions(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	filter := domain.CommissionFilter{Page: pageFromQuery(r)}
	q := r.URL.Query()
	if raw := q.Get("userId"); raw != "" {
		filter.UserID = &raw
	}
	if raw := q.Get("dealId"); raw != "" {
		filter.DealID = &raw
	}
	for param, dst := range map[string]**time.Time{"createdAfter": &filter.CreatedAfter, "createdBefore": &filter.CreatedBefore} {
		if raw := q.Get(param); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				h.writeError(w, r, domain.ErrValidation("invalid %s %q, want RFC 3339", param, raw))
				return
			}
			*dst = &ts
		}
	}

	entries, total, err := h.commissions.List(r.Context(), ident, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := commissionListResponse{
		Commissions:   make([]commissionResponse, 0, len(entries)),
		Total:         total,
		NextPageToken: domain.NextPageToken(filter.Page.Offset(), filter.Page.Limit(), total),
	}
	for _, e := range entries {
		out.Commissions = append(out.Commissions, commissionToAPI(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) commissionSummary(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summary, err := h.commissions.Summary(r.Context(), ident)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, commissionSummaryResponse{
		TotalCommissions:      summary.TotalCommissions,
		TotalDeals:            summary.TotalDeals,
		AverageCommissionRate: summary.AverageCommissionRate,
		CommissionsThisMonth:  summary.CommissionsThisMonth,
		CommissionsThisYear:   summary.CommissionsThisYear,
	})
}

func (h *Handler) commissionsByUser(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	perUser, err := h.commissions.ByUser(r.Context(), ident)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]userCommissionsResponse, 0, len(perUser))
	for _, u := range perUser {
		out = append(out, userCommissionsResponse{
			UserID:                u.UserID,
			UserName:              u.UserName,
			TotalCommissions:      u.TotalCommissions,
			TotalDeals:            u.TotalDeals,
			AverageCommissionRate: u.AverageCommissionRate,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	dash, err := h.kpis.Dashboard(r.Context(), ident)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := dashboardResponse{
		TotalDeals:            dash.Summary.TotalDeals,
		TotalRevenue:          dash.Summary.TotalRevenue,
		TotalCommissions:      dash.Summary.TotalCommissions,
		AverageDealSize:       dash.Summary.AverageDealSize,
		AverageCommissionRate: dash.Summary.AverageCommissionRate,
		ConversionRate:        dash.Summary.ConversionRate,
		StageBreakdown:        make([]stageBreakdownResponse, 0, len(dash.StageBreakdown)),
		RecentActivity:        make([]activityResponse, 0, len(dash.RecentActivity)),
	}
	for _, b := range dash.StageBreakdown {
		out.StageBreakdown = append(out.StageBreakdown, stageBreakdownResponse{
			Stage:       string(b.Stage),
			Count:       b.Count,
			TotalAmount: b.TotalAmount,
			Percentage:  b.Percentage,
		})
	}
	for _, a := range dash.RecentActivity {
		out.RecentActivity = append(out.RecentActivity, activityResponse{
			ID:          a.ID,
			Action:      a.Action,
			Entity:      a.Entity,
			Description: a.Description,
			CreatedAt:   a.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
