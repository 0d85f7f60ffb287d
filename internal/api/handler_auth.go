package api

import (
	"net/http"

	"dealdesk/internal/service"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.auth.Register(r.Context(), service.RegisterInput{
		OrganizationName: req.OrganizationName,
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResultToAPI(res))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResultToAPI(res))
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResultToAPI(res))
}
