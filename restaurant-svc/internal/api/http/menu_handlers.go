package httpapi

import (
	"net/http"
	"strconv"

	"tablebite/pkg/httpx"
	"tablebite/restaurant-svc/internal/domain"
)

func (h *Handler) publicMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.PublicMenu(r.Context(), tenantFrom(r.Context()))
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	items, err := h.Menu.List(r.Context(), owner)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var in domain.MenuItemInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		h.badBody(w)
		return
	}

	item, err := h.Menu.Create(r.Context(), owner, in)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in domain.MenuItemInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		h.badBody(w)
		return
	}

	item, err := h.Menu.Update(r.Context(), owner, id, in)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Menu.Delete(r.Context(), owner, id); err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggleMenuItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.Menu.ToggleAvailability(r.Context(), owner, id)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) uploadMenuImage(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	url, err := h.saveImage(w, r, "image", "menu_"+strconv.FormatInt(id, 10))
	if err != nil {
		if isUploadInputError(err) {
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeServiceError(r.Context(), w, err)
		return
	}

	if err := h.Menu.UpdateImage(r.Context(), owner, id, url); err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"image_url": url})
}
