package storage

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"tablebite/restaurant-svc/internal/domain"
)

const orderColumns = `id, owner_id, customer_name, customer_phone, order_type, table_id, address, subtotal,
	tax_rate, tax_amount, delivery_charge, total_amount, status, created_at, updated_at`

const lineColumns = `order_id, menu_item_id, name, variant, quantity, base_price, discounted_price,
	discount_applied, customizations`

func scanOrder(row scanner) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(&o.ID, &o.OwnerID, &o.CustomerName, &o.CustomerPhone, &o.OrderType, &o.TableID, &o.Address,
		&o.Subtotal, &o.TaxRate, &o.TaxAmount, &o.DeliveryCharge, &o.TotalAmount, &o.Status,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func insertLines(ctx context.Context, q queryer, orderID int64, lines []domain.OrderLine) error {
	for i, l := range lines {
		discount, err := jsonArg(l.DiscountApplied)
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, menu_item_id, name, variant, quantity, base_price,
				discounted_price, discount_applied, customizations)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			orderID, i, l.MenuItemID, l.Name, l.Variant, l.Quantity, l.BasePrice, l.DiscountedPrice,
			discount, pq.Array(nonNilStrings(l.Customizations)),
		); err != nil {
			return fmt.Errorf("insert order line %d: %w", i, err)
		}
	}
	return nil
}

// CreateOrder stores the order and its lines atomically.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (owner_id, customer_name, customer_phone, order_type, table_id, address, subtotal,
			tax_rate, tax_amount, delivery_charge, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		order.OwnerID, order.CustomerName, order.CustomerPhone, string(order.OrderType), order.TableID, order.Address,
		order.Subtotal, order.TaxRate, order.TaxAmount, order.DeliveryCharge, order.TotalAmount, string(order.Status),
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	if err := insertLines(ctx, tx, order.ID, order.Items); err != nil {
		return err
	}

	return tx.Commit()
}

// loadLines fetches the lines of every order in ids, keyed by order id.
func (r *PostgresRepository) loadLines(ctx context.Context, ids []int64) (map[int64][]domain.OrderLine, error) {
	lines := make(map[int64][]domain.OrderLine, len(ids))
	if len(ids) == 0 {
		return lines, nil
	}

	query, args, err := psql.Select(lineColumns).
		From("order_items").
		Where(sq.Eq{"order_id": ids}).
		OrderBy("order_id", "position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID  int64
			l        domain.OrderLine
			discount []byte
		)
		if err := rows.Scan(&orderID, &l.MenuItemID, &l.Name, &l.Variant, &l.Quantity, &l.BasePrice,
			&l.DiscountedPrice, &discount, pq.Array(&l.Customizations)); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(discount, &l.DiscountApplied); err != nil {
			return nil, fmt.Errorf("order %d line discount: %w", orderID, err)
		}
		lines[orderID] = append(lines[orderID], l)
	}
	return lines, rows.Err()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, ownerID, id int64) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if err != nil {
		return nil, mapError(err, "order")
	}

	lines, err := r.loadLines(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = lines[order.ID]
	return order, nil
}

func orderFilter(ownerID int64, f domain.OrderFilter) sq.And {
	where := sq.And{sq.Eq{"owner_id": ownerID}}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": string(f.Status)})
	}
	if f.OrderType != "" {
		where = append(where, sq.Eq{"order_type": string(f.OrderType)})
	}
	if f.From != nil {
		where = append(where, sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		where = append(where, sq.LtOrEq{"created_at": *f.To})
	}
	return where
}

// ListOrders returns one page of orders, newest first, and the total match count.
func (r *PostgresRepository) ListOrders(ctx context.Context, ownerID int64, filter domain.OrderFilter) ([]domain.Order, int, error) {
	where := orderFilter(ownerID, filter)

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("orders").Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select(orderColumns).
		From("orders").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		orders []domain.Order
		ids    []int64
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = lines[orders[i].ID]
	}
	return orders, total, nil
}

// UpdateOrderStatus moves an order from one status to another. It affects no
// rows when the order is no longer in from.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, ownerID, id int64, from, to domain.OrderStatus) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = now() WHERE id = $2 AND owner_id = $3 AND status = $4`,
		string(to), id, ownerID, string(from))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ReplaceOrderContent overwrites the priced content of a pending order.
func (r *PostgresRepository) ReplaceOrderContent(ctx context.Context, order *domain.Order) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer rollback(tx)

	result, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET customer_name = $1, customer_phone = $2, order_type = $3, table_id = $4, address = $5, subtotal = $6,
			tax_rate = $7, tax_amount = $8, delivery_charge = $9, total_amount = $10, updated_at = now()
		WHERE id = $11 AND owner_id = $12 AND status = 'pending'`,
		order.CustomerName, order.CustomerPhone, string(order.OrderType), order.TableID, order.Address,
		order.Subtotal, order.TaxRate, order.TaxAmount, order.DeliveryCharge, order.TotalAmount,
		order.ID, order.OwnerID)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return 0, err
	}
	if err := insertLines(ctx, tx, order.ID, order.Items); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return rows, nil
}
