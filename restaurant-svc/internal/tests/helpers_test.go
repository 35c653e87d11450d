package tests

import (
	"tablebite/restaurant-svc/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func singleItem(id int64, name string, price float64, d *domain.Discount) domain.MenuItem {
	return domain.MenuItem{
		ID:          id,
		OwnerID:     7,
		Name:        name,
		PricingType: domain.PricingSingle,
		Price:       ptr(price),
		Discount:    d,
		Available:   true,
	}
}

func openRestaurant() *domain.Restaurant {
	return &domain.Restaurant{
		ID:             3,
		OwnerID:        7,
		RestaurantName: "Spice Route",
		Domain:         "spice.example.com",
		OrderModes:     domain.OrderModes{EatHere: true, TakeAway: true, Delivery: true},
		GSTEnabled:     true,
		GSTRate:        5,
		DeliveryCharge: 30,
		IsOpen:         true,
	}
}

var testTenant = domain.Tenant{OwnerID: 7, RestaurantID: 3, Host: "spice.example.com", RestaurantName: "Spice Route"}
