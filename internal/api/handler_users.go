package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"dealdesk/internal/domain"
	"dealdesk/internal/service"
)

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req createUserRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	in := service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		in.Role = domain.UserRole(*req.Role)
	}

	user, err := h.users.Create(r.Context(), ident, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userToAPI(user))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	users, err := h.users.List(r.Context(), ident)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, userToAPI(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// profile returns the caller's own record with their organization attached.
func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.users.Get(r.Context(), ident, ident.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	org, err := h.organizations.Current(r.Context(), ident)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		userResponse: userToAPI(user),
		Organization: organizationToAPI(org),
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.users.Get(r.Context(), ident, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToAPI(user))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req updateUserRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	upd := domain.UserUpdate{Name: req.Name, Email: req.Email}
	if req.Role != nil {
		role := domain.UserRole(*req.Role)
		upd.Role = &role
	}

	user, err := h.users.Update(r.Context(), ident, chi.URLParam(r, "id"), upd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToAPI(user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.users.Delete(r.Context(), ident, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) currentOrganization(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	org, err := h.organizations.Current(r.Context(), ident)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, organizationToAPI(org))
}

func (h *Handler) updateOrganization(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req updateOrganizationRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	org, err := h.organizations.Rename(r.Context(), ident, req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, organizationToAPI(org))
}
