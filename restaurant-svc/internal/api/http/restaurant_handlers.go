package httpapi

import (
	"net/http"

	"tablebite/pkg/httpx"
	"tablebite/restaurant-svc/internal/domain"
)

func (h *Handler) publicRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.Restaurants.Public(r.Context(), tenantFrom(r.Context()))
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rest)
}

func (h *Handler) myRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.Restaurants.ForPrincipal(r.Context(), principal(r))
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rest)
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var upd domain.RestaurantUpdate
	if err := httpx.DecodeJSON(r, &upd); err != nil {
		h.badBody(w)
		return
	}

	rest, err := h.Restaurants.Update(r.Context(), owner, upd)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rest)
}

func (h *Handler) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	if err := h.Restaurants.Delete(r.Context(), owner); err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) uploadLogo(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	url, err := h.saveImage(w, r, "logo", "logo")
	if err != nil {
		if isUploadInputError(err) {
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeServiceError(r.Context(), w, err)
		return
	}

	rest, err := h.Restaurants.Update(r.Context(), owner, domain.RestaurantUpdate{LogoURL: &url})
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rest)
}

func (h *Handler) updateGST(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var body struct {
		GSTEnabled *bool    `json:"gst_enabled"`
		GSTRate    *float64 `json:"gst_rate"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		h.badBody(w)
		return
	}

	rest, err := h.Restaurants.UpdateGST(r.Context(), owner, body.GSTEnabled, body.GSTRate)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rest)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var body struct {
		IsOpen *bool `json:"is_open"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.IsOpen == nil {
		httpx.WriteFieldError(w, http.StatusBadRequest, "is_open", "is_open must be a boolean")
		return
	}

	rest, err := h.Restaurants.SetOpen(r.Context(), owner, *body.IsOpen)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rest)
}

func (h *Handler) updateDelivery(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	var body struct {
		DeliveryCharge  *float64 `json:"delivery_charge"`
		DeliveryEnabled *bool    `json:"delivery_enabled"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		h.badBody(w)
		return
	}

	rest, err := h.Restaurants.UpdateDelivery(r.Context(), owner, body.DeliveryCharge, body.DeliveryEnabled)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rest)
}

func (h *Handler) getQRCode(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	qr, err := h.Restaurants.QRCode(r.Context(), owner)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(qr)
}
