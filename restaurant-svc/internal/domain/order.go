package domain

import "time"

type OrderType string

const (
	OrderEatHere  OrderType = "EatHere"
	OrderTakeAway OrderType = "TakeAway"
	OrderDelivery OrderType = "Delivery"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderEatHere, OrderTakeAway, OrderDelivery:
		return true
	}
	return false
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from s to next.
// Orders are never deleted; cancellation is the terminal state.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCompleted:
		return next == StatusCancelled
	}
	return false
}

type OrderLineRequest struct {
	MenuItemID     int64    `json:"menu_item_id"`
	Variant        string   `json:"variant,omitempty"`
	Quantity       int      `json:"quantity"`
	Customizations []string `json:"customizations,omitempty"`
}

type OrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	OrderType     OrderType          `json:"order_type"`
	TableID       string             `json:"table_id,omitempty"`
	Address       string             `json:"address,omitempty"`
	Items         []OrderLineRequest `json:"items"`
}

// OrderLine is a priced snapshot of a menu item as it was when ordered.
type OrderLine struct {
	MenuItemID      int64    `json:"menu_item_id"`
	Name            string   `json:"name"`
	Variant         string   `json:"variant,omitempty"`
	Quantity        int      `json:"quantity"`
	BasePrice       float64  `json:"base_price"`
	DiscountedPrice float64  `json:"discounted_price"`
	DiscountApplied Discount `json:"discount_applied"`
	Customizations  []string `json:"customizations"`
}

type Order struct {
	ID             int64       `json:"id"`
	OwnerID        int64       `json:"owner_id"`
	CustomerName   string      `json:"customer_name"`
	CustomerPhone  string      `json:"customer_phone"`
	Items          []OrderLine `json:"items"`
	OrderType      OrderType   `json:"order_type"`
	TableID        string      `json:"table_id,omitempty"`
	Address        string      `json:"address,omitempty"`
	Subtotal       float64     `json:"subtotal"`
	TaxRate        float64     `json:"tax_rate"`
	TaxAmount      float64     `json:"tax_amount"`
	DeliveryCharge float64     `json:"delivery_charge"`
	TotalAmount    float64     `json:"total_amount"`
	Status         OrderStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type OrderFilter struct {
	Status    OrderStatus
	OrderType OrderType
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

type OrderPage struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

type OrderEventItem struct {
	MenuItemID int64   `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	LineTotal  float64 `json:"line_total"`
}

// OrderEvent is published to Kafka whenever an order is created or changes status.
type OrderEvent struct {
	Type        string           `json:"type"`
	OrderID     int64            `json:"order_id"`
	OwnerID     int64            `json:"owner_id"`
	Status      OrderStatus      `json:"status"`
	PrevStatus  OrderStatus      `json:"prev_status,omitempty"`
	OrderType   OrderType        `json:"order_type"`
	TotalAmount float64          `json:"total_amount"`
	Items       []OrderEventItem `json:"items"`
	CreatedAt   time.Time        `json:"created_at"`
	Timestamp   time.Time        `json:"timestamp"`
}

func NewOrderEvent(eventType string, o *Order, prev OrderStatus, at time.Time) OrderEvent {
	items := make([]OrderEventItem, 0, len(o.Items))
	for _, l := range o.Items {
		items = append(items, OrderEventItem{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			Quantity:   l.Quantity,
			LineTotal:  l.DiscountedPrice * float64(l.Quantity),
		})
	}
	return OrderEvent{
		Type:        eventType,
		OrderID:     o.ID,
		OwnerID:     o.OwnerID,
		Status:      o.Status,
		PrevStatus:  prev,
		OrderType:   o.OrderType,
		TotalAmount: o.TotalAmount,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		Timestamp:   at,
	}
}
