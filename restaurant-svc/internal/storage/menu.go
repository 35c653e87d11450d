package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"tablebite/restaurant-svc/internal/domain"
)

const menuColumns = `id, owner_id, name, description, category, food_type, pricing_type, price, discount,
	variant_rates, combo_items, combo_price, image_url, available, created_at, updated_at`

func scanMenuItem(row scanner) (*domain.MenuItem, error) {
	var (
		item                      domain.MenuItem
		price, comboPrice         sql.NullFloat64
		discount, variants, combo []byte
	)
	if err := row.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.Category, &item.FoodType,
		&item.PricingType, &price, &discount, &variants, &combo, &comboPrice, &item.ImageURL, &item.Available,
		&item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}

	if price.Valid {
		item.Price = &price.Float64
	}
	if comboPrice.Valid {
		item.ComboPrice = &comboPrice.Float64
	}
	if len(discount) > 0 {
		var d domain.Discount
		if err := json.Unmarshal(discount, &d); err != nil {
			return nil, fmt.Errorf("menu item %d discount: %w", item.ID, err)
		}
		item.Discount = &d
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &item.VariantRates); err != nil {
			return nil, fmt.Errorf("menu item %d variants: %w", item.ID, err)
		}
	}
	if len(combo) > 0 {
		if err := json.Unmarshal(combo, &item.ComboItems); err != nil {
			return nil, fmt.Errorf("menu item %d combo: %w", item.ID, err)
		}
	}
	return &item, nil
}

// pricingArgs returns the discount, variant and combo JSONB parameters; unset shapes are NULL.
func pricingArgs(item *domain.MenuItem) (discount, variants, combo any, err error) {
	if item.Discount != nil {
		if discount, err = jsonArg(item.Discount); err != nil {
			return nil, nil, nil, err
		}
	}
	if len(item.VariantRates) > 0 {
		if variants, err = jsonArg(item.VariantRates); err != nil {
			return nil, nil, nil, err
		}
	}
	if len(item.ComboItems) > 0 {
		if combo, err = jsonArg(item.ComboItems); err != nil {
			return nil, nil, nil, err
		}
	}
	return discount, variants, combo, nil
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	discount, variants, combo, err := pricingArgs(item)
	if err != nil {
		return err
	}
	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (owner_id, name, description, category, food_type, pricing_type, price, discount,
			variant_rates, combo_items, combo_price, image_url, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		item.OwnerID, item.Name, item.Description, item.Category, item.FoodType, string(item.PricingType),
		item.Price, discount, variants, combo, item.ComboPrice, item.ImageURL, item.Available,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	return mapError(err, "menu item")
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	discount, variants, combo, err := pricingArgs(item)
	if err != nil {
		return err
	}
	err = r.DB.QueryRowContext(ctx, `
		UPDATE menu_items
		SET name = $1, description = $2, category = $3, food_type = $4, pricing_type = $5, price = $6,
			discount = $7, variant_rates = $8, combo_items = $9, combo_price = $10, available = $11, updated_at = now()
		WHERE id = $12 AND owner_id = $13 AND NOT deleted
		RETURNING updated_at`,
		item.Name, item.Description, item.Category, item.FoodType, string(item.PricingType), item.Price,
		discount, variants, combo, item.ComboPrice, item.Available, item.ID, item.OwnerID,
	).Scan(&item.UpdatedAt)
	return mapError(err, "menu item")
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, ownerID, id int64) (*domain.MenuItem, error) {
	item, err := scanMenuItem(r.DB.QueryRowContext(ctx,
		`SELECT `+menuColumns+` FROM menu_items WHERE id = $1 AND owner_id = $2 AND NOT deleted`, id, ownerID))
	return item, mapError(err, "menu item")
}

func (r *PostgresRepository) queryMenuItems(ctx context.Context, where sq.Sqlizer) ([]domain.MenuItem, error) {
	query, args, err := psql.Select(menuColumns).
		From("menu_items").
		Where(where).
		OrderBy("category", "name", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, ownerID int64, onlyAvailable bool) ([]domain.MenuItem, error) {
	where := sq.Eq{"owner_id": ownerID, "deleted": false}
	if onlyAvailable {
		where["available"] = true
	}
	return r.queryMenuItems(ctx, where)
}

// FindMenuItemsByIDs returns the owner's non-deleted items among ids. Unknown ids are skipped.
func (r *PostgresRepository) FindMenuItemsByIDs(ctx context.Context, ownerID int64, ids []int64, onlyAvailable bool) ([]domain.MenuItem, error) {
	if len(ids) == 0 {
		return []domain.MenuItem{}, nil
	}
	where := sq.Eq{"owner_id": ownerID, "deleted": false, "id": ids}
	if onlyAvailable {
		where["available"] = true
	}
	return r.queryMenuItems(ctx, where)
}

func (r *PostgresRepository) SoftDeleteMenuItem(ctx context.Context, ownerID, id int64) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE menu_items SET deleted = TRUE, updated_at = now() WHERE id = $1 AND owner_id = $2 AND NOT deleted`,
		id, ownerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) ToggleMenuItemAvailability(ctx context.Context, ownerID, id int64) (*domain.MenuItem, error) {
	item, err := scanMenuItem(r.DB.QueryRowContext(ctx, `
		UPDATE menu_items SET available = NOT available, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND NOT deleted
		RETURNING `+menuColumns, id, ownerID))
	return item, mapError(err, "menu item")
}

func (r *PostgresRepository) UpdateMenuItemImage(ctx context.Context, ownerID, id int64, imageURL string) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE menu_items SET image_url = $1, updated_at = now() WHERE id = $2 AND owner_id = $3 AND NOT deleted`,
		imageURL, id, ownerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
