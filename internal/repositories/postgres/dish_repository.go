package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/chrisdamba/comanda/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DishRepository struct {
	pool *pgxpool.Pool
}

func NewDishRepository(pool *pgxpool.Pool) *DishRepository {
	return &DishRepository{pool: pool}
}

const dishColumns = `id, name, description, price, category, available, created_at, updated_at`

func scanDish(row pgx.Row) (*models.Dish, error) {
	dish := &models.Dish{}
	err := row.Scan(
		&dish.ID,
		&dish.Name,
		&dish.Description,
		&dish.Price,
		&dish.Category,
		&dish.Available,
		&dish.CreatedAt,
		&dish.UpdatedAt,
	)
	return dish, err
}

func (r *DishRepository) BulkCreate(ctx context.Context, dishes []*models.Dish) error {
	now := time.Now()
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"dishes"},
		[]string{"name", "description", "price", "category", "available", "created_at", "updated_at"},
		pgx.CopyFromSlice(len(dishes), func(i int) ([]interface{}, error) {
			return []interface{}{
				dishes[i].Name,
				dishes[i].Description,
				dishes[i].Price,
				dishes[i].Category,
				dishes[i].Available,
				now,
				now,
			}, nil
		}),
	)
	return err
}

func (r *DishRepository) Create(ctx context.Context, dish *models.Dish) error {
	query := `
        INSERT INTO dishes (name, description, price, category, available)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `
	return r.pool.QueryRow(ctx, query,
		dish.Name,
		dish.Description,
		dish.Price,
		dish.Category,
		dish.Available,
	).Scan(&dish.ID, &dish.CreatedAt, &dish.UpdatedAt)
}

func (r *DishRepository) Update(ctx context.Context, dish *models.Dish) error {
	query := `
        UPDATE dishes
        SET name = $2, description = $3, price = $4, category = $5, available = $6, updated_at = NOW()
        WHERE id = $1
        RETURNING created_at, updated_at
    `
	err := r.pool.QueryRow(ctx, query,
		dish.ID,
		dish.Name,
		dish.Description,
		dish.Price,
		dish.Category,
		dish.Available,
	).Scan(&dish.CreatedAt, &dish.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewNotFound(models.EntityDish, dish.ID)
	}
	return err
}

func (r *DishRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound(models.EntityDish, id)
	}
	return nil
}

func (r *DishRepository) GetByID(ctx context.Context, id int64) (*models.Dish, error) {
	dish, err := scanDish(r.pool.QueryRow(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound(models.EntityDish, id)
	}
	if err != nil {
		return nil, err
	}
	return dish, nil
}

func (r *DishRepository) GetAll(ctx context.Context) ([]*models.Dish, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+dishColumns+` FROM dishes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dishes := make([]*models.Dish, 0)
	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

func (r *DishRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM dishes").Scan(&count)
	return count, err
}
