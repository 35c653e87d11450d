package domain

import "time"

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"

	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type OrderEventItem struct {
	MenuItemID int64   `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	LineTotal  float64 `json:"line_total"`
}

// OrderEvent is the message restaurant-svc publishes on the order-events topic.
type OrderEvent struct {
	Type        string           `json:"type"`
	OrderID     int64            `json:"order_id"`
	OwnerID     int64            `json:"owner_id"`
	Status      string           `json:"status"`
	PrevStatus  string           `json:"prev_status,omitempty"`
	OrderType   string           `json:"order_type"`
	TotalAmount float64          `json:"total_amount"`
	Items       []OrderEventItem `json:"items"`
	CreatedAt   time.Time        `json:"created_at"`
	Timestamp   time.Time        `json:"timestamp"`
}

// Completes reports whether the event moves an order into the completed state.
func (e OrderEvent) Completes() bool {
	return e.Type == EventOrderStatusChanged && e.Status == StatusCompleted && e.PrevStatus != StatusCompleted
}

// Reverts reports whether the event cancels an order that was already
// completed, and therefore already counted.
func (e OrderEvent) Reverts() bool {
	return e.Type == EventOrderStatusChanged && e.Status == StatusCancelled && e.PrevStatus == StatusCompleted
}

// Day is the instant the order is counted under. Analytics buckets completed
// orders by creation time, so counters do the same.
func (e OrderEvent) Day() time.Time {
	if !e.CreatedAt.IsZero() {
		return e.CreatedAt
	}
	return e.Timestamp
}
