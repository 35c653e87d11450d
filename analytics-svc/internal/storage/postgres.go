package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"tablebite/analytics-svc/internal/domain"
	"tablebite/pkg/daterange"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	dayExpr      = "to_char(o.created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
	categoryExpr = "COALESCE(NULLIF(mi.category, ''), '" + domain.Uncategorized + "')"
)

// PostgresStore reads the orders written by restaurant-svc.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func completedIn(ownerID int64, win daterange.Window) sq.And {
	return sq.And{
		sq.Eq{"o.owner_id": ownerID, "o.status": "completed"},
		sq.GtOrEq{"o.created_at": win.From},
		sq.LtOrEq{"o.created_at": win.To},
	}
}

// CompletedOrders lists the owner's completed orders in the window, oldest first.
func (s *PostgresStore) CompletedOrders(ctx context.Context, ownerID int64, win daterange.Window) ([]domain.CompletedOrder, error) {
	query, args, err := psql.Select("o.created_at", "o.total_amount").
		From("orders o").
		Where(completedIn(ownerID, win)).
		OrderBy("o.created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query completed orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.CompletedOrder{}
	for rows.Next() {
		var o domain.CompletedOrder
		if err := rows.Scan(&o.CreatedAt, &o.TotalAmount); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// DailyLeaders returns, for every UTC day with completed orders, the product
// or category with the highest quantity sold. Ties go to the label that sorts first.
func (s *PostgresStore) DailyLeaders(ctx context.Context, ownerID int64, win daterange.Window, dim domain.Dimension) ([]domain.DailyLeader, error) {
	label := "oi.name"
	if dim == domain.ByCategory {
		label = categoryExpr
	}

	inner := psql.Select(
		dayExpr+" AS day",
		label+" AS label",
		"SUM(oi.quantity) AS qty",
		"SUM(oi.discounted_price * oi.quantity) AS sales",
	).
		From("orders o").
		Join("order_items oi ON oi.order_id = o.id")
	if dim == domain.ByCategory {
		inner = inner.LeftJoin("menu_items mi ON mi.id = oi.menu_item_id")
	}
	inner = inner.Where(completedIn(ownerID, win)).GroupBy("day", "label")

	query, args, err := psql.Select("DISTINCT ON (day) day", "label", "qty", "sales").
		FromSelect(inner, "t").
		OrderBy("day", "qty DESC", "label").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily %s leaders: %w", dim, err)
	}
	defer rows.Close()

	leaders := []domain.DailyLeader{}
	for rows.Next() {
		var l domain.DailyLeader
		if err := rows.Scan(&l.Date, &l.Label, &l.Quantity, &l.Sales); err != nil {
			return nil, err
		}
		leaders = append(leaders, l)
	}
	return leaders, rows.Err()
}

// TodayTotals rebuilds the live leaderboard from SQL when the Redis counters are empty.
func (s *PostgresStore) TodayTotals(ctx context.Context, ownerID int64, win daterange.Window, limit int) (*domain.Today, error) {
	today := &domain.Today{Products: []domain.ProductCount{}}

	query, args, err := psql.Select("COUNT(*)", "COALESCE(SUM(o.total_amount), 0)").
		From("orders o").
		Where(completedIn(ownerID, win)).
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&today.Orders, &today.Revenue); err != nil {
		return nil, fmt.Errorf("query today totals: %w", err)
	}

	query, args, err = psql.Select("oi.name", "SUM(oi.quantity) AS qty").
		From("orders o").
		Join("order_items oi ON oi.order_id = o.id").
		Where(completedIn(ownerID, win)).
		GroupBy("oi.name").
		OrderBy("qty DESC", "oi.name").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query today products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.ProductCount
		if err := rows.Scan(&p.Name, &p.Quantity); err != nil {
			return nil, err
		}
		today.Products = append(today.Products, p)
	}
	return today, rows.Err()
}
