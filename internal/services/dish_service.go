package services

import (
	"context"
	"fmt"

	"github.com/chrisdamba/comanda/internal/factories"
	"github.com/chrisdamba/comanda/internal/models"
	"github.com/chrisdamba/comanda/internal/repositories"
)

type DishService struct {
	dishes repositories.DishRepository
}

func NewDishService(dishes repositories.DishRepository) *DishService {
	return &DishService{dishes: dishes}
}

func (s *DishService) List(ctx context.Context) ([]*models.Dish, error) {
	return s.dishes.GetAll(ctx)
}

func (s *DishService) Get(ctx context.Context, id int64) (*models.Dish, error) {
	return s.dishes.GetByID(ctx, id)
}

func (s *DishService) Create(ctx context.Context, dish *models.Dish) (*models.Dish, error) {
	if err := dish.Validate(); err != nil {
		return nil, err
	}
	dish.ID = 0
	if err := s.dishes.Create(ctx, dish); err != nil {
		return nil, fmt.Errorf("failed to create dish: %w", err)
	}
	return dish, nil
}

// Update replaces the editable fields. Order lines that reference the dish keep their snapshot.
func (s *DishService) Update(ctx context.Context, id int64, details *models.Dish) (*models.Dish, error) {
	dish, err := s.dishes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dish.Name = details.Name
	dish.Description = details.Description
	dish.Price = details.Price
	dish.Category = details.Category
	dish.Available = details.Available
	if err := dish.Validate(); err != nil {
		return nil, err
	}
	if err := s.dishes.Update(ctx, dish); err != nil {
		return nil, err
	}
	return dish, nil
}

func (s *DishService) Delete(ctx context.Context, id int64) error {
	return s.dishes.Delete(ctx, id)
}

// SeedDefaults loads the starter catalog into an empty store and reports how
// many dishes were inserted.
func (s *DishService) SeedDefaults(ctx context.Context) (int, error) {
	return s.seedIfEmpty(ctx, models.DefaultDishes())
}

// SeedFromFile loads a CSV catalog into an empty store.
func (s *DishService) SeedFromFile(ctx context.Context, path string) (int, error) {
	dishes, err := models.LoadDishCatalog(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load dish catalog: %w", err)
	}
	return s.seedIfEmpty(ctx, dishes)
}

func (s *DishService) seedIfEmpty(ctx context.Context, dishes []*models.Dish) (int, error) {
	count, err := s.dishes.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count dishes: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	if err := s.dishes.BulkCreate(ctx, dishes); err != nil {
		return 0, fmt.Errorf("failed to seed dishes: %w", err)
	}
	return len(dishes), nil
}

// SeedFake inserts n generated dishes regardless of what the catalog holds.
func (s *DishService) SeedFake(ctx context.Context, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	if err := s.dishes.BulkCreate(ctx, factories.NewDishes(n)); err != nil {
		return 0, fmt.Errorf("failed to seed fake dishes: %w", err)
	}
	return n, nil
}
