package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebite/analytics-svc/internal/domain"
	"tablebite/pkg/daterange"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

var testWindow = daterange.Window{
	From: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	To:   time.Date(2024, 6, 7, 23, 59, 59, 0, time.UTC),
}

func TestCompletedOrders(t *testing.T) {
	store, mock := newMockStore(t)
	first := time.Date(2024, 6, 2, 9, 15, 0, 0, time.UTC)
	second := time.Date(2024, 6, 3, 20, 40, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT o.created_at, o.total_amount FROM orders o WHERE`) + `.+` +
		regexp.QuoteMeta(`ORDER BY o.created_at ASC`)).
		WithArgs(int64(7), "completed", testWindow.From, testWindow.To).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "total_amount"}).
			AddRow(first, 220.5).
			AddRow(second, 93.0))

	orders, err := store.CompletedOrders(context.Background(), 7, testWindow)

	require.NoError(t, err)
	assert.Equal(t, []domain.CompletedOrder{
		{CreatedAt: first, TotalAmount: 220.5},
		{CreatedAt: second, TotalAmount: 93},
	}, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletedOrders_Empty(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`FROM orders o`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "total_amount"}))

	orders, err := store.CompletedOrders(context.Background(), 7, testWindow)

	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestDailyLeaders(t *testing.T) {
	tests := []struct {
		name      string
		dim       domain.Dimension
		wantLabel string
		wantJoin  string
	}{
		{
			name:      "by product",
			dim:       domain.ByProduct,
			wantLabel: `oi.name AS label`,
			wantJoin:  `JOIN order_items oi ON oi.order_id = o.id WHERE`,
		},
		{
			name:      "by category",
			dim:       domain.ByCategory,
			wantLabel: `COALESCE(NULLIF(mi.category, ''), 'Uncategorized') AS label`,
			wantJoin:  `JOIN order_items oi ON oi.order_id = o.id LEFT JOIN menu_items mi ON mi.id = oi.menu_item_id WHERE`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT ON (day) day, label, qty, sales FROM (`) + `.+` +
				regexp.QuoteMeta(tt.wantLabel) + `.+` +
				regexp.QuoteMeta(tt.wantJoin) + `.+` +
				regexp.QuoteMeta(`GROUP BY day, label) AS t ORDER BY day, qty DESC, label`)).
				WithArgs(int64(7), "completed", testWindow.From, testWindow.To).
				WillReturnRows(sqlmock.NewRows([]string{"day", "label", "qty", "sales"}).
					AddRow("2024-06-02", "Paneer Tikka", int64(5), 450.0).
					AddRow("2024-06-03", "Lassi", int64(3), 90.0))

			leaders, err := store.DailyLeaders(context.Background(), 7, testWindow, tt.dim)

			require.NoError(t, err)
			assert.Equal(t, []domain.DailyLeader{
				{Date: "2024-06-02", Label: "Paneer Tikka", Quantity: 5, Sales: 450},
				{Date: "2024-06-03", Label: "Lassi", Quantity: 3, Sales: 90},
			}, leaders)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDailyLeaders_QueryError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT DISTINCT ON`).WillReturnError(errors.New("connection reset"))

	_, err := store.DailyLeaders(context.Background(), 7, testWindow, domain.ByCategory)

	assert.ErrorContains(t, err, "query daily category leaders")
}

func TestTodayTotals(t *testing.T) {
	store, mock := newMockStore(t)
	today := daterange.Window{
		From: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 6, 15, 13, 30, 0, 0, time.UTC),
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*), COALESCE(SUM(o.total_amount), 0) FROM orders o WHERE`)).
		WithArgs(int64(7), "completed", today.From, today.To).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(int64(4), 512.25))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT oi.name, SUM(oi.quantity) AS qty FROM orders o JOIN order_items oi`) + `.+` +
		regexp.QuoteMeta(`GROUP BY oi.name ORDER BY qty DESC, oi.name LIMIT 10`)).
		WithArgs(int64(7), "completed", today.From, today.To).
		WillReturnRows(sqlmock.NewRows([]string{"name", "qty"}).
			AddRow("Paneer Tikka", int64(6)).
			AddRow("Lassi", int64(2)))

	got, err := store.TodayTotals(context.Background(), 7, today, 10)

	require.NoError(t, err)
	assert.Equal(t, 4, got.Orders)
	assert.Equal(t, 512.25, got.Revenue)
	assert.Equal(t, []domain.ProductCount{{Name: "Paneer Tikka", Quantity: 6}, {Name: "Lassi", Quantity: 2}}, got.Products)
	assert.NoError(t, mock.ExpectationsWereMet())
}
