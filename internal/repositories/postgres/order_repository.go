package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrisdamba/comanda/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `
    id, customer_name, customer_phone, table_number, delivery_address, notes,
    status, delivery_fee, total_amount, created_at, updated_at`

// Save writes the order row and reconciles its items in one transaction.
// Items keep their ids; new items get one, and items no longer present are removed.
func (r *OrderRepository) Save(ctx context.Context, order *models.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if order.ID == 0 {
		query := `
            INSERT INTO orders (
                customer_name, customer_phone, table_number, delivery_address,
                notes, status, delivery_fee, total_amount
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            RETURNING id, created_at, updated_at
        `
		err = tx.QueryRow(ctx, query,
			order.CustomerName,
			order.CustomerPhone,
			order.TableNumber,
			order.DeliveryAddress,
			order.Notes,
			order.Status,
			order.DeliveryFee,
			order.TotalAmount,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	} else {
		query := `
            UPDATE orders SET
                customer_name = $2, customer_phone = $3, table_number = $4,
                delivery_address = $5, notes = $6, status = $7,
                delivery_fee = $8, total_amount = $9, updated_at = NOW()
            WHERE id = $1
            RETURNING created_at, updated_at
        `
		err = tx.QueryRow(ctx, query,
			order.ID,
			order.CustomerName,
			order.CustomerPhone,
			order.TableNumber,
			order.DeliveryAddress,
			order.Notes,
			order.Status,
			order.DeliveryFee,
			order.TotalAmount,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewNotFound(models.EntityOrder, order.ID)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	if err := saveOrderItems(ctx, tx, order); err != nil {
		return fmt.Errorf("failed to save order items: %w", err)
	}
	return tx.Commit(ctx)
}

func saveOrderItems(ctx context.Context, tx pgx.Tx, order *models.Order) error {
	keep := make([]int64, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		if item.ID != 0 {
			tag, err := tx.Exec(ctx, `
                UPDATE order_items SET
                    position = $3, dish_id = $4, dish_name = $5,
                    quantity = $6, unit_price = $7, total_price = $8
                WHERE id = $1 AND order_id = $2
            `, item.ID, order.ID, i, item.DishID, item.DishName, item.Quantity, item.UnitPrice, item.TotalPrice)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 1 {
				keep = append(keep, item.ID)
				continue
			}
		}
		err := tx.QueryRow(ctx, `
            INSERT INTO order_items (order_id, position, dish_id, dish_name, quantity, unit_price, total_price)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING id
        `, order.ID, i, item.DishID, item.DishName, item.Quantity, item.UnitPrice, item.TotalPrice).Scan(&item.ID)
		if err != nil {
			return err
		}
		keep = append(keep, item.ID)
	}
	_, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1 AND NOT (id = ANY($2))`, order.ID, keep)
	return err
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound(models.EntityOrder, id)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	orders, err := r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, models.NewNotFound(models.EntityOrder, id)
	}
	return orders[0], nil
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]*models.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
}

func (r *OrderRepository) GetByTable(ctx context.Context, tableNumber int) ([]*models.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE table_number = $1 ORDER BY id`, tableNumber)
}

func (r *OrderRepository) GetByStatus(ctx context.Context, status models.OrderStatus) ([]*models.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY id`, status)
}

func (r *OrderRepository) GetActive(ctx context.Context) ([]*models.Order, error) {
	return r.query(ctx, `
        SELECT `+orderColumns+` FROM orders
        WHERE status NOT IN ('PAID', 'CANCELLED')
        ORDER BY created_at, id
    `)
}

// query loads the orders, then their items in a single round trip.
func (r *OrderRepository) query(ctx context.Context, sql string, args ...interface{}) ([]*models.Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	byID := make(map[int64]*models.Order)
	for rows.Next() {
		order := &models.Order{Items: []models.OrderItem{}}
		err := rows.Scan(
			&order.ID,
			&order.CustomerName,
			&order.CustomerPhone,
			&order.TableNumber,
			&order.DeliveryAddress,
			&order.Notes,
			&order.Status,
			&order.DeliveryFee,
			&order.TotalAmount,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
		byID[order.ID] = order
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	itemRows, err := r.pool.Query(ctx, `
        SELECT id, order_id, dish_id, dish_name, quantity, unit_price, total_price
        FROM order_items
        WHERE order_id = ANY($1)
        ORDER BY order_id, position, id
    `, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.OrderItem
		var orderID int64
		err := itemRows.Scan(
			&item.ID,
			&orderID,
			&item.DishID,
			&item.DishName,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
		)
		if err != nil {
			return nil, err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return orders, itemRows.Err()
}
