// Package counters names the Redis keys agg-svc increments and analytics-svc
// reads for the live per-day leaderboard.
package counters

import (
	"strconv"
	"time"
)

const (
	DateLayout = "2006-01-02"

	FieldRevenue = "revenue"
	FieldOrders  = "orders"
)

// Day formats t as the UTC calendar day used in counter keys.
func Day(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ProductsKey is a sorted set of product name to quantity sold.
func ProductsKey(day string, ownerID int64) string {
	return "analytics:daily:" + day + ":" + strconv.FormatInt(ownerID, 10)
}

// RevenueKey is a hash with the revenue and orders fields.
func RevenueKey(day string, ownerID int64) string {
	return "analytics:revenue:" + day + ":" + strconv.FormatInt(ownerID, 10)
}
