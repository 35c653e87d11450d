package domain

import (
	"time"

	"tablebite/pkg/auth"
)

type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           auth.Role `json:"role"`
	Domain         string    `json:"domain,omitempty"`
	RestaurantName string    `json:"restaurant_name,omitempty"`
	RestaurantID   int64     `json:"restaurant_id,omitempty"`
	CreatedBy      int64     `json:"created_by,omitempty"`
	Deleted        bool      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

type RegisterInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Domain         string `json:"domain"`
	RestaurantName string `json:"restaurant_name"`
}

type UserUpdate struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	Domain         *string `json:"domain"`
	RestaurantName *string `json:"restaurant_name"`

	PasswordHash *string `json:"-"`
}

type AuthResult struct {
	Token          string    `json:"token"`
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           auth.Role `json:"role"`
	RestaurantID   int64     `json:"restaurant_id,omitempty"`
	RestaurantName string    `json:"restaurant_name,omitempty"`
	Domain         string    `json:"domain,omitempty"`
}

type OrderModes struct {
	EatHere  bool `json:"eat_here"`
	TakeAway bool `json:"take_away"`
	Delivery bool `json:"delivery"`
}

type Restaurant struct {
	ID             int64      `json:"id"`
	OwnerID        int64      `json:"owner_id"`
	Name           string     `json:"name"`
	RestaurantName string     `json:"restaurant_name"`
	Address        string     `json:"address"`
	Domain         string     `json:"domain"`
	Phone          string     `json:"phone"`
	LogoURL        string     `json:"logo_url"`
	QRCode         []byte     `json:"-"`
	OrderModes     OrderModes `json:"order_modes"`
	GSTNumber      string     `json:"gst_number"`
	GSTRate        float64    `json:"gst_rate"`
	GSTEnabled     bool       `json:"gst_enabled"`
	DeliveryCharge float64    `json:"delivery_charge"`
	IsOpen         bool       `json:"is_open"`
	Categories     []string   `json:"categories"`
	TableCount     int        `json:"table_count"`
	Deleted        bool       `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PublicRestaurant is what customers see on the tenant's public pages.
type PublicRestaurant struct {
	ID             int64      `json:"id"`
	RestaurantName string     `json:"restaurant_name"`
	Address        string     `json:"address"`
	Phone          string     `json:"phone"`
	LogoURL        string     `json:"logo_url"`
	OrderModes     OrderModes `json:"order_modes"`
	GSTEnabled     bool       `json:"gst_enabled"`
	GSTRate        float64    `json:"gst_rate"`
	DeliveryCharge float64    `json:"delivery_charge"`
	IsOpen         bool       `json:"is_open"`
	Categories     []string   `json:"categories"`
	TableCount     int        `json:"table_count"`
}

func (r Restaurant) Public() PublicRestaurant {
	return PublicRestaurant{
		ID:             r.ID,
		RestaurantName: r.RestaurantName,
		Address:        r.Address,
		Phone:          r.Phone,
		LogoURL:        r.LogoURL,
		OrderModes:     r.OrderModes,
		GSTEnabled:     r.GSTEnabled,
		GSTRate:        r.GSTRate,
		DeliveryCharge: r.DeliveryCharge,
		IsOpen:         r.IsOpen,
		Categories:     r.Categories,
		TableCount:     r.TableCount,
	}
}

func (r Restaurant) PricingSettings() PricingSettings {
	return PricingSettings{
		TaxEnabled:      r.GSTEnabled,
		TaxRate:         r.GSTRate,
		DeliveryCharge:  r.DeliveryCharge,
		DeliveryEnabled: r.OrderModes.Delivery,
	}
}

func (r Restaurant) Accepts(t OrderType) bool {
	switch t {
	case OrderEatHere:
		return r.OrderModes.EatHere
	case OrderTakeAway:
		return r.OrderModes.TakeAway
	case OrderDelivery:
		return r.OrderModes.Delivery
	}
	return false
}

type RestaurantUpdate struct {
	Name           *string     `json:"name"`
	RestaurantName *string     `json:"restaurant_name"`
	Address        *string     `json:"address"`
	Phone          *string     `json:"phone"`
	GSTNumber      *string     `json:"gst_number"`
	GSTRate        *float64    `json:"gst_rate"`
	GSTEnabled     *bool       `json:"gst_enabled"`
	DeliveryCharge *float64    `json:"delivery_charge"`
	IsOpen         *bool       `json:"is_open"`
	OrderModes     *OrderModes `json:"order_modes"`
	Categories     *[]string   `json:"categories"`
	TableCount     *int        `json:"table_count"`
	LogoURL        *string     `json:"-"`
}

func (u RestaurantUpdate) Empty() bool {
	return u == RestaurantUpdate{}
}

// PricingSettings is the slice of tenant settings the order pricing reads.
type PricingSettings struct {
	TaxEnabled      bool
	TaxRate         float64
	DeliveryCharge  float64
	DeliveryEnabled bool
}

// Tenant identifies the restaurant a public request was addressed to.
type Tenant struct {
	OwnerID        int64  `json:"owner_id"`
	RestaurantID   int64  `json:"restaurant_id"`
	Host           string `json:"host"`
	RestaurantName string `json:"restaurant_name"`
}
