package httpapi

import (
	"context"
	"errors"
	"net/http"

	"tablebite/pkg/httpx"
	"tablebite/restaurant-svc/internal/domain"
)

type tenantKey struct{}

func tenantFrom(ctx context.Context) domain.Tenant {
	t, _ := ctx.Value(tenantKey{}).(domain.Tenant)
	return t
}

// requestHost prefers the host forwarded by the gateway over the connection host.
func requestHost(r *http.Request) string {
	if host := r.Header.Get("X-Forwarded-Host"); host != "" {
		return host
	}
	return r.Host
}

// withTenant resolves the restaurant a public request is addressed to.
func (h *Handler) withTenant(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant, err := h.Restaurants.ResolveTenant(r.Context(), requestHost(r))
		if errors.Is(err, domain.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Restaurant not found for this domain")
			return
		}
		if err != nil {
			h.writeServiceError(r.Context(), w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), tenantKey{}, *tenant)))
	})
}
