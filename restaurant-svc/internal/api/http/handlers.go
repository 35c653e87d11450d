package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"tablebite/pkg/auth"
	"tablebite/pkg/httpx"
	"tablebite/restaurant-svc/internal/domain"
	"tablebite/restaurant-svc/internal/pricing"
	"tablebite/restaurant-svc/internal/service"
)

type Handler struct {
	Auth        service.AuthServiceInterface
	Restaurants service.RestaurantServiceInterface
	Menu        service.MenuServiceInterface
	Orders      service.OrderServiceInterface
	Tokens      *auth.TokenManager
	UploadDir   string
	Logger      *slog.Logger
}

func NewHandler(authSvc service.AuthServiceInterface, restSvc service.RestaurantServiceInterface,
	menuSvc service.MenuServiceInterface, orderSvc service.OrderServiceInterface,
	tokens *auth.TokenManager, uploadDir string) *Handler {
	return &Handler{
		Auth:        authSvc,
		Restaurants: restSvc,
		Menu:        menuSvc,
		Orders:      orderSvc,
		Tokens:      tokens,
		UploadDir:   uploadDir,
		Logger:      slog.Default(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	admin := []auth.Role{auth.RoleAdmin}
	crew := []auth.Role{auth.RoleAdmin, auth.RoleStaff}
	super := []auth.Role{auth.RoleSuperadmin}

	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/auth/register", h.register).Methods("POST")
	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.Handle("/api/auth/register/admin", h.protect(h.registerAdmin, super...)).Methods("POST")
	r.Handle("/api/auth/register/staff", h.protect(h.registerStaff, admin...)).Methods("POST")
	r.Handle("/api/auth/admins", h.protect(h.listAdmins, super...)).Methods("GET")
	r.Handle("/api/auth/staff", h.protect(h.listStaff, super...)).Methods("GET")
	r.Handle("/api/auth/staff/mine", h.protect(h.listMyStaff, admin...)).Methods("GET")
	r.Handle("/api/auth/{id:[0-9]+}", h.protect(h.updateUser, super...)).Methods("PUT")

	r.Handle("/api/restaurant/public", h.withTenant(h.publicRestaurant)).Methods("GET")
	r.Handle("/api/restaurant/admin", h.protect(h.myRestaurant, admin...)).Methods("GET")
	r.Handle("/api/restaurant/mine", h.protect(h.myRestaurant, crew...)).Methods("GET")
	r.Handle("/api/restaurant", h.protect(h.updateRestaurant, admin...)).Methods("PUT")
	r.Handle("/api/restaurant", h.protect(h.deleteRestaurant, admin...)).Methods("DELETE")
	r.Handle("/api/restaurant/logo", h.protect(h.uploadLogo, admin...)).Methods("POST")
	r.Handle("/api/restaurant/gst", h.protect(h.updateGST, admin...)).Methods("PATCH")
	r.Handle("/api/restaurant/status", h.protect(h.updateStatus, admin...)).Methods("PATCH")
	r.Handle("/api/restaurant/delivery", h.protect(h.updateDelivery, admin...)).Methods("PATCH")
	r.Handle("/api/restaurant/qrcode", h.protect(h.getQRCode, admin...)).Methods("GET")

	r.Handle("/api/menu/public", h.withTenant(h.publicMenu)).Methods("GET")
	r.Handle("/api/menu", h.protect(h.listMenu, crew...)).Methods("GET")
	r.Handle("/api/menu", h.protect(h.createMenuItem, admin...)).Methods("POST")
	r.Handle("/api/menu/{id:[0-9]+}", h.protect(h.updateMenuItem, admin...)).Methods("PUT")
	r.Handle("/api/menu/{id:[0-9]+}", h.protect(h.deleteMenuItem, admin...)).Methods("DELETE")
	r.Handle("/api/menu/{id:[0-9]+}/toggle", h.protect(h.toggleMenuItem, crew...)).Methods("PATCH")
	r.Handle("/api/menu/{id:[0-9]+}/image", h.protect(h.uploadMenuImage, admin...)).Methods("POST")

	r.Handle("/api/orders/public", h.withTenant(h.placeOrder)).Methods("POST")
	r.Handle("/api/orders", h.protect(h.listOrders, crew...)).Methods("GET")
	r.Handle("/api/orders/{id:[0-9]+}", h.protect(h.getOrder, crew...)).Methods("GET")
	r.Handle("/api/orders/{id:[0-9]+}/status", h.protect(h.updateOrderStatus, crew...)).Methods("PATCH")
	r.Handle("/api/orders/{id:[0-9]+}", h.protect(h.updateOrder, admin...)).Methods("PUT")
}

// protect requires a valid token whose role is one of roles.
func (h *Handler) protect(fn http.HandlerFunc, roles ...auth.Role) http.Handler {
	return httpx.Chain(fn,
		auth.Authenticate(h.Tokens, h.Auth.VerifyPrincipal),
		auth.RequireRoles(roles...),
	)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "restaurant-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func principal(r *http.Request) auth.Principal {
	p, _ := auth.PrincipalFrom(r.Context())
	return p
}

// ownerID is the tenant owner the authenticated caller acts for.
func ownerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	p := principal(r)
	if p.OwnerID == 0 {
		httpx.WriteError(w, http.StatusForbidden, "No restaurant is associated with this account")
		return 0, false
	}
	return p.OwnerID, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var ve domain.ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.WriteFieldError(w, http.StatusBadRequest, ve.Field, ve.Message)
	case errors.Is(err, domain.ErrRestaurantClosed), errors.Is(err, domain.ErrOrderTypeDisabled):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pricing.ErrMenuItemNotFound),
		errors.Is(err, pricing.ErrVariantNotFound),
		errors.Is(err, pricing.ErrInvalidMenuItem):
		httpx.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrDuplicateSubmission),
		errors.Is(err, domain.ErrInvalidTransition):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, err.Error())
	default:
		h.Logger.ErrorContext(ctx, "request failed", slog.String("error", err.Error()))
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) badBody(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
}
