package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"tablebite/pkg/daterange"
	"tablebite/pkg/httpx"
	"tablebite/restaurant-svc/internal/domain"
)

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.badBody(w)
		return
	}

	order, err := h.Orders.Place(r.Context(), tenantFrom(r.Context()), r.Header.Get("Idempotency-Key"), req)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, order)
}

func parseOrderFilter(r *http.Request, now time.Time) (domain.OrderFilter, error) {
	q := r.URL.Query()
	filter := domain.OrderFilter{
		Status:    domain.OrderStatus(q.Get("status")),
		OrderType: domain.OrderType(q.Get("order_type")),
	}

	var err error
	if v := q.Get("page"); v != "" {
		if filter.Page, err = strconv.Atoi(v); err != nil {
			return filter, domain.Invalid("page", "page must be a number")
		}
	}
	if v := q.Get("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil {
			return filter, domain.Invalid("limit", "limit must be a number")
		}
	}

	if q.Get("from") != "" || q.Get("to") != "" || q.Get("range") != "" {
		win := daterange.Resolve(q.Get("from"), q.Get("to"), q.Get("range"), now)
		filter.From = &win.From
		filter.To = &win.To
	}
	return filter, nil
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	filter, err := parseOrderFilter(r, time.Now())
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	page, err := h.Orders.List(r.Context(), owner, filter)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.Orders.Get(r.Context(), owner, id)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		h.badBody(w)
		return
	}

	order, err := h.Orders.UpdateStatus(r.Context(), owner, id, body.Status)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req domain.OrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.badBody(w)
		return
	}

	order, err := h.Orders.UpdateContent(r.Context(), owner, id, req)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}
