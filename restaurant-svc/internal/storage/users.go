package storage

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"tablebite/pkg/auth"
	"tablebite/restaurant-svc/internal/domain"
)

const userColumns = `id, name, email, password_hash, role, COALESCE(domain, ''), COALESCE(restaurant_name, ''),
	COALESCE(restaurant_id, 0), COALESCE(created_by, 0), deleted, created_at`

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Domain, &u.RestaurantName,
		&u.RestaurantID, &u.CreatedBy, &u.Deleted, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func insertUser(ctx context.Context, q queryer, u *domain.User) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, domain, restaurant_name, restaurant_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		u.Name, u.Email, u.PasswordHash, string(u.Role), nullString(u.Domain), nullString(u.RestaurantName),
		nullID(u.RestaurantID), nullID(u.CreatedBy),
	).Scan(&u.ID, &u.CreatedAt)
	return mapError(err, "user")
}

func (r *PostgresRepository) CreateUser(ctx context.Context, u *domain.User) error {
	return insertUser(ctx, r.DB, u)
}

// CreateAdminWithRestaurant stores an admin and the restaurant it owns in one transaction.
func (r *PostgresRepository) CreateAdminWithRestaurant(ctx context.Context, u *domain.User, rest *domain.Restaurant) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)

	if err := insertUser(ctx, tx, u); err != nil {
		return err
	}

	rest.OwnerID = u.ID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO restaurants (owner_id, name, restaurant_name, domain, qr_code, eat_here, take_away, delivery, is_open, categories)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		rest.OwnerID, rest.Name, rest.RestaurantName, rest.Domain, rest.QRCode,
		rest.OrderModes.EatHere, rest.OrderModes.TakeAway, rest.OrderModes.Delivery, rest.IsOpen,
		pq.Array(nonNilStrings(rest.Categories)),
	).Scan(&rest.ID, &rest.CreatedAt, &rest.UpdatedAt)
	if err != nil {
		return mapError(err, "restaurant for domain "+rest.Domain)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE users SET restaurant_id = $1 WHERE id = $2`, rest.ID, u.ID); err != nil {
		return err
	}
	u.RestaurantID = rest.ID

	return tx.Commit()
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return u, mapError(err, "user")
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	return u, mapError(err, "user")
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	set := map[string]any{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		set["password_hash"] = *upd.PasswordHash
	}
	if upd.Domain != nil {
		set["domain"] = *upd.Domain
	}
	if upd.RestaurantName != nil {
		set["restaurant_name"] = *upd.RestaurantName
	}
	if len(set) == 0 {
		return r.GetUser(ctx, id)
	}

	query, args, err := psql.Update("users").
		SetMap(set).
		Where(sq.Eq{"id": id, "deleted": false}).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, err
	}

	u, err := scanUser(r.DB.QueryRowContext(ctx, query, args...))
	return u, mapError(err, "user")
}

func (r *PostgresRepository) ListUsersByRole(ctx context.Context, role auth.Role, createdBy int64) ([]domain.User, error) {
	q := psql.Select(userColumns).
		From("users").
		Where(sq.Eq{"role": string(role), "deleted": false}).
		OrderBy("created_at DESC")
	if createdBy > 0 {
		q = q.Where(sq.Eq{"created_by": createdBy})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
