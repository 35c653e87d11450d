package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tablebite/analytics-svc/internal/service"
	"tablebite/pkg/auth"
	"tablebite/pkg/daterange"
	"tablebite/pkg/httpx"
)

type Handler struct {
	Analytics service.AnalyticsInterface
	Tokens    *auth.TokenManager
	Logger    *slog.Logger
	now       func() time.Time
}

func NewHandler(svc service.AnalyticsInterface, tokens *auth.TokenManager) *Handler {
	return &Handler{
		Analytics: svc,
		Tokens:    tokens,
		Logger:    slog.Default(),
		now:       time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.Handle("/api/analytics/insights", h.protect(h.getInsights)).Methods("GET")
	r.Handle("/api/analytics/top-products", h.protect(h.getTopProducts)).Methods("GET")
	r.Handle("/api/analytics/top-categories", h.protect(h.getTopCategories)).Methods("GET")
	r.Handle("/api/analytics/summary", h.protect(h.getSummary)).Methods("GET")
	r.Handle("/api/analytics/today", h.protect(h.getToday)).Methods("GET")
}

// protect admits restaurant admins and staff. User records live in
// restaurant-svc, so only the token itself is checked here.
func (h *Handler) protect(fn http.HandlerFunc) http.Handler {
	return httpx.Chain(fn,
		auth.Authenticate(h.Tokens, nil),
		auth.RequireRoles(auth.RoleAdmin, auth.RoleStaff),
	)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "analytics-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func ownerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	p, _ := auth.PrincipalFrom(r.Context())
	if p.OwnerID == 0 {
		httpx.WriteError(w, http.StatusForbidden, "No restaurant is associated with this account")
		return 0, false
	}
	return p.OwnerID, true
}

func (h *Handler) window(r *http.Request) daterange.Window {
	q := r.URL.Query()
	return daterange.Resolve(q.Get("from"), q.Get("to"), q.Get("range"), h.now())
}

// serve runs a windowed report for the caller's restaurant.
func serve[T any](h *Handler, report func(ctx context.Context, ownerID int64, win daterange.Window) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := ownerID(w, r)
		if !ok {
			return
		}
		v, err := report(r.Context(), owner, h.window(r))
		if err != nil {
			h.serverError(r.Context(), w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, v)
	}
}

func (h *Handler) getInsights(w http.ResponseWriter, r *http.Request) {
	serve(h, h.Analytics.Insights)(w, r)
}

func (h *Handler) getTopProducts(w http.ResponseWriter, r *http.Request) {
	serve(h, h.Analytics.TopProducts)(w, r)
}

func (h *Handler) getTopCategories(w http.ResponseWriter, r *http.Request) {
	serve(h, h.Analytics.TopCategories)(w, r)
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	serve(h, h.Analytics.Summary)(w, r)
}

func (h *Handler) getToday(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	today, err := h.Analytics.Today(r.Context(), owner)
	if err != nil {
		h.serverError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, today)
}

func (h *Handler) serverError(ctx context.Context, w http.ResponseWriter, err error) {
	h.Logger.ErrorContext(ctx, "analytics request failed", slog.String("error", err.Error()))
	httpx.WriteError(w, http.StatusInternalServerError, "Failed to load analytics")
}
