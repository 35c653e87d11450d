package httpapi

import (
	"net/http"
	"strings"

	"tablebite/pkg/auth"
	"tablebite/pkg/httpx"
	"tablebite/restaurant-svc/internal/domain"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in domain.RegisterInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		h.badBody(w)
		return
	}

	role := auth.RoleUser
	if in.Role != "" {
		parsed, err := auth.ParseRole(strings.ToLower(in.Role))
		if err != nil {
			httpx.WriteFieldError(w, http.StatusBadRequest, "role", "invalid role")
			return
		}
		role = parsed
	}
	if role == auth.RoleAdmin || role == auth.RoleStaff {
		httpx.WriteError(w, http.StatusForbidden, "admins and staff are created by their managers")
		return
	}

	res, err := h.Auth.Register(r.Context(), nil, role, in)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) registerAs(role auth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.RegisterInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			h.badBody(w)
			return
		}
		creator := principal(r)
		res, err := h.Auth.Register(r.Context(), &creator, role, in)
		if err != nil {
			h.writeServiceError(r.Context(), w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, res)
	}
}

func (h *Handler) registerAdmin(w http.ResponseWriter, r *http.Request) {
	h.registerAs(auth.RoleAdmin)(w, r)
}

func (h *Handler) registerStaff(w http.ResponseWriter, r *http.Request) {
	h.registerAs(auth.RoleStaff)(w, r)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		h.badBody(w)
		return
	}
	if body.Email == "" || body.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	res, err := h.Auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var upd domain.UserUpdate
	if err := httpx.DecodeJSON(r, &upd); err != nil {
		h.badBody(w)
		return
	}

	user, err := h.Auth.UpdateUser(r.Context(), id, upd)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request, role auth.Role, createdBy int64) {
	users, err := h.Auth.ListByRole(r.Context(), role, createdBy)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) listAdmins(w http.ResponseWriter, r *http.Request) {
	h.listUsers(w, r, auth.RoleAdmin, 0)
}

func (h *Handler) listStaff(w http.ResponseWriter, r *http.Request) {
	h.listUsers(w, r, auth.RoleStaff, 0)
}

func (h *Handler) listMyStaff(w http.ResponseWriter, r *http.Request) {
	h.listUsers(w, r, auth.RoleStaff, principal(r).UserID)
}
