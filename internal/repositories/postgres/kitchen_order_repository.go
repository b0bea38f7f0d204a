package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chrisdamba/comanda/internal/models"
	"github.com/chrisdamba/comanda/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type KitchenOrderRepository struct {
	pool *pgxpool.Pool
}

func NewKitchenOrderRepository(pool *pgxpool.Pool) *KitchenOrderRepository {
	return &KitchenOrderRepository{pool: pool}
}

const kitchenOrderColumns = `
    id, COALESCE(order_id, 0), table_number, customer_name, customer_phone, delivery_address,
    status, total_amount, estimated_time, priority, notes, created_at, updated_at,
    started_at, ready_at`

const uniqueViolation = "23505"

func (r *KitchenOrderRepository) Save(ctx context.Context, ticket *models.KitchenOrder) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if ticket.ID == 0 {
		query := `
            INSERT INTO kitchen_orders (
                order_id, table_number, customer_name, customer_phone, delivery_address,
                status, total_amount, estimated_time, priority, notes, started_at, ready_at
            ) VALUES (NULLIF($1::BIGINT, 0), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
            RETURNING id, created_at, updated_at
        `
		err = tx.QueryRow(ctx, query,
			ticket.OrderID,
			ticket.TableNumber,
			ticket.CustomerName,
			ticket.CustomerPhone,
			ticket.DeliveryAddress,
			ticket.Status,
			ticket.TotalAmount,
			ticket.EstimatedTime,
			ticket.Priority,
			ticket.Notes,
			ticket.StartedAt,
			ticket.ReadyAt,
		).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.NewValidationError("orderId", "a kitchen order already exists for this order")
		}
	} else {
		query := `
            UPDATE kitchen_orders SET
                table_number = $2, customer_name = $3, customer_phone = $4,
                delivery_address = $5, status = $6, total_amount = $7,
                estimated_time = $8, priority = $9, notes = $10,
                started_at = $11, ready_at = $12, updated_at = NOW()
            WHERE id = $1
            RETURNING created_at, updated_at
        `
		err = tx.QueryRow(ctx, query,
			ticket.ID,
			ticket.TableNumber,
			ticket.CustomerName,
			ticket.CustomerPhone,
			ticket.DeliveryAddress,
			ticket.Status,
			ticket.TotalAmount,
			ticket.EstimatedTime,
			ticket.Priority,
			ticket.Notes,
			ticket.StartedAt,
			ticket.ReadyAt,
		).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewNotFound(models.EntityKitchen, ticket.ID)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to save kitchen order: %w", err)
	}

	if err := saveKitchenItems(ctx, tx, ticket); err != nil {
		return fmt.Errorf("failed to save kitchen order items: %w", err)
	}
	return tx.Commit(ctx)
}

func saveKitchenItems(ctx context.Context, tx pgx.Tx, ticket *models.KitchenOrder) error {
	keep := make([]int64, 0, len(ticket.Items))
	for i := range ticket.Items {
		item := &ticket.Items[i]
		if item.ID != 0 {
			tag, err := tx.Exec(ctx, `
                UPDATE kitchen_order_items SET
                    position = $3, dish_id = $4, dish_name = $5, dish_description = $6,
                    quantity = $7, unit_price = $8, total_price = $9,
                    preparation_status = $10, preparation_notes = $11, estimated_prep_time = $12
                WHERE id = $1 AND kitchen_order_id = $2
            `,
				item.ID, ticket.ID, i, item.DishID, item.DishName, item.DishDescription,
				item.Quantity, item.UnitPrice, item.TotalPrice,
				item.PreparationStatus, item.PreparationNotes, item.EstimatedPrepTime,
			)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 1 {
				keep = append(keep, item.ID)
				continue
			}
		}
		err := tx.QueryRow(ctx, `
            INSERT INTO kitchen_order_items (
                kitchen_order_id, position, dish_id, dish_name, dish_description,
                quantity, unit_price, total_price, preparation_status,
                preparation_notes, estimated_prep_time
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
            RETURNING id
        `,
			ticket.ID, i, item.DishID, item.DishName, item.DishDescription,
			item.Quantity, item.UnitPrice, item.TotalPrice, item.PreparationStatus,
			item.PreparationNotes, item.EstimatedPrepTime,
		).Scan(&item.ID)
		if err != nil {
			return err
		}
		keep = append(keep, item.ID)
	}
	_, err := tx.Exec(ctx, `DELETE FROM kitchen_order_items WHERE kitchen_order_id = $1 AND NOT (id = ANY($2))`, ticket.ID, keep)
	return err
}

func (r *KitchenOrderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM kitchen_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound(models.EntityKitchen, id)
	}
	return nil
}

func (r *KitchenOrderRepository) GetByID(ctx context.Context, id int64) (*models.KitchenOrder, error) {
	tickets, err := r.query(ctx, `SELECT `+kitchenOrderColumns+` FROM kitchen_orders WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, models.NewNotFound(models.EntityKitchen, id)
	}
	return tickets[0], nil
}

func (r *KitchenOrderRepository) GetByOrderID(ctx context.Context, orderID int64) (*models.KitchenOrder, error) {
	tickets, err := r.query(ctx, `SELECT `+kitchenOrderColumns+` FROM kitchen_orders WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, models.NewNotFound(models.EntityKitchen, orderID)
	}
	return tickets[0], nil
}

// Find builds the WHERE clause from the non-zero filter fields.
func (r *KitchenOrderRepository) Find(ctx context.Context, f repositories.KitchenOrderFilter) ([]*models.KitchenOrder, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		where = append(where, "status = ANY("+arg(statuses)+")")
	}
	if f.TableNumber != nil {
		where = append(where, "table_number = "+arg(*f.TableNumber))
	}
	if f.Priority != 0 {
		where = append(where, "priority = "+arg(f.Priority))
	}
	if !f.From.IsZero() {
		where = append(where, "created_at >= "+arg(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "created_at <= "+arg(f.To))
	}

	sql := `SELECT ` + kitchenOrderColumns + ` FROM kitchen_orders`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY " + kitchenOrderBy(f.OrderBy)
	return r.query(ctx, sql, args...)
}

func kitchenOrderBy(by repositories.KitchenOrdering) string {
	switch by {
	case repositories.OrderByCreatedDesc:
		return "created_at DESC, id DESC"
	case repositories.OrderByPriorityThenCreated:
		return "priority DESC, created_at ASC, id ASC"
	case repositories.OrderByStartedAsc:
		return "started_at ASC NULLS FIRST, created_at ASC, id ASC"
	case repositories.OrderByReadyAsc:
		return "ready_at ASC NULLS FIRST, created_at ASC, id ASC"
	}
	return "created_at ASC, id ASC"
}

func (r *KitchenOrderRepository) CountByStatus(ctx context.Context, status models.OrderStatus) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM kitchen_orders WHERE status = $1", status).Scan(&count)
	return count, err
}

func (r *KitchenOrderRepository) query(ctx context.Context, sql string, args ...interface{}) ([]*models.KitchenOrder, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*models.KitchenOrder, 0)
	byID := make(map[int64]*models.KitchenOrder)
	for rows.Next() {
		k := &models.KitchenOrder{Items: []models.KitchenOrderItem{}}
		err := rows.Scan(
			&k.ID,
			&k.OrderID,
			&k.TableNumber,
			&k.CustomerName,
			&k.CustomerPhone,
			&k.DeliveryAddress,
			&k.Status,
			&k.TotalAmount,
			&k.EstimatedTime,
			&k.Priority,
			&k.Notes,
			&k.CreatedAt,
			&k.UpdatedAt,
			&k.StartedAt,
			&k.ReadyAt,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, k)
		byID[k.ID] = k
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return tickets, nil
	}

	ids := make([]int64, 0, len(tickets))
	for _, k := range tickets {
		ids = append(ids, k.ID)
	}
	itemRows, err := r.pool.Query(ctx, `
        SELECT id, kitchen_order_id, dish_id, dish_name, dish_description, quantity,
               unit_price, total_price, preparation_status, preparation_notes, estimated_prep_time
        FROM kitchen_order_items
        WHERE kitchen_order_id = ANY($1)
        ORDER BY kitchen_order_id, position, id
    `, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.KitchenOrderItem
		var ticketID int64
		err := itemRows.Scan(
			&item.ID,
			&ticketID,
			&item.DishID,
			&item.DishName,
			&item.DishDescription,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.PreparationStatus,
			&item.PreparationNotes,
			&item.EstimatedPrepTime,
		)
		if err != nil {
			return nil, err
		}
		if k, ok := byID[ticketID]; ok {
			k.Items = append(k.Items, item)
		}
	}
	return tickets, itemRows.Err()
}
