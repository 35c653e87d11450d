package storage

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"tablebite/restaurant-svc/internal/domain"
)

const restaurantColumns = `id, owner_id, name, restaurant_name, address, domain, phone, logo_url, qr_code,
	eat_here, take_away, delivery, gst_number, gst_rate, gst_enabled, delivery_charge, is_open,
	categories, table_count, created_at, updated_at`

func scanRestaurant(row scanner) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	if err := row.Scan(&rest.ID, &rest.OwnerID, &rest.Name, &rest.RestaurantName, &rest.Address, &rest.Domain,
		&rest.Phone, &rest.LogoURL, &rest.QRCode,
		&rest.OrderModes.EatHere, &rest.OrderModes.TakeAway, &rest.OrderModes.Delivery,
		&rest.GSTNumber, &rest.GSTRate, &rest.GSTEnabled, &rest.DeliveryCharge, &rest.IsOpen,
		pq.Array(&rest.Categories), &rest.TableCount, &rest.CreatedAt, &rest.UpdatedAt); err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *PostgresRepository) getRestaurant(ctx context.Context, where sq.Eq) (*domain.Restaurant, error) {
	where["deleted"] = false
	query, args, err := psql.Select(restaurantColumns).From("restaurants").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	rest, err := scanRestaurant(r.DB.QueryRowContext(ctx, query, args...))
	return rest, mapError(err, "restaurant")
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	return r.getRestaurant(ctx, sq.Eq{"id": id})
}

func (r *PostgresRepository) GetRestaurantByOwner(ctx context.Context, ownerID int64) (*domain.Restaurant, error) {
	return r.getRestaurant(ctx, sq.Eq{"owner_id": ownerID})
}

func (r *PostgresRepository) GetRestaurantByDomain(ctx context.Context, host string) (*domain.Restaurant, error) {
	return r.getRestaurant(ctx, sq.Eq{"domain": host})
}

func (r *PostgresRepository) UpdateRestaurant(ctx context.Context, ownerID int64, upd domain.RestaurantUpdate) (*domain.Restaurant, error) {
	q := psql.Update("restaurants").Set("updated_at", sq.Expr("now()"))

	if upd.Name != nil {
		q = q.Set("name", *upd.Name)
	}
	if upd.RestaurantName != nil {
		q = q.Set("restaurant_name", *upd.RestaurantName)
	}
	if upd.Address != nil {
		q = q.Set("address", *upd.Address)
	}
	if upd.Phone != nil {
		q = q.Set("phone", *upd.Phone)
	}
	if upd.GSTNumber != nil {
		q = q.Set("gst_number", *upd.GSTNumber)
	}
	if upd.GSTRate != nil {
		q = q.Set("gst_rate", *upd.GSTRate)
	}
	if upd.GSTEnabled != nil {
		q = q.Set("gst_enabled", *upd.GSTEnabled)
	}
	if upd.DeliveryCharge != nil {
		q = q.Set("delivery_charge", *upd.DeliveryCharge)
	}
	if upd.IsOpen != nil {
		q = q.Set("is_open", *upd.IsOpen)
	}
	if upd.OrderModes != nil {
		q = q.Set("eat_here", upd.OrderModes.EatHere).
			Set("take_away", upd.OrderModes.TakeAway).
			Set("delivery", upd.OrderModes.Delivery)
	}
	if upd.Categories != nil {
		q = q.Set("categories", pq.Array(nonNilStrings(*upd.Categories)))
	}
	if upd.TableCount != nil {
		q = q.Set("table_count", *upd.TableCount)
	}
	if upd.LogoURL != nil {
		q = q.Set("logo_url", *upd.LogoURL)
	}

	query, args, err := q.
		Where(sq.Eq{"owner_id": ownerID, "deleted": false}).
		Suffix("RETURNING " + restaurantColumns).
		ToSql()
	if err != nil {
		return nil, err
	}

	rest, err := scanRestaurant(r.DB.QueryRowContext(ctx, query, args...))
	return rest, mapError(err, "restaurant")
}

func (r *PostgresRepository) SoftDeleteRestaurant(ctx context.Context, ownerID int64) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE restaurants SET deleted = TRUE, updated_at = now() WHERE owner_id = $1 AND NOT deleted`, ownerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
