package repositories

import (
	"context"
	"time"

	"github.com/chrisdamba/comanda/internal/models"
)

// Repositories that load by id return a *models.NotFoundError when the row is absent.

type DishRepository interface {
	BulkCreate(ctx context.Context, dishes []*models.Dish) error
	Create(ctx context.Context, dish *models.Dish) error
	Update(ctx context.Context, dish *models.Dish) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Dish, error)
	GetAll(ctx context.Context) ([]*models.Dish, error)
	Count(ctx context.Context) (int, error)
}

type OrderRepository interface {
	// Save inserts the order when ID is zero, otherwise replaces it and its items.
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	GetAll(ctx context.Context) ([]*models.Order, error)
	GetByTable(ctx context.Context, tableNumber int) ([]*models.Order, error)
	GetByStatus(ctx context.Context, status models.OrderStatus) ([]*models.Order, error)
	GetActive(ctx context.Context) ([]*models.Order, error)
}

// KitchenOrderFilter selects tickets. Zero values are ignored.
type KitchenOrderFilter struct {
	Statuses    []models.OrderStatus
	TableNumber *int
	Priority    int
	From, To    time.Time
	OrderBy     KitchenOrdering
}

type KitchenOrdering int

const (
	OrderByCreatedAsc KitchenOrdering = iota
	OrderByCreatedDesc
	OrderByPriorityThenCreated
	OrderByStartedAsc
	OrderByReadyAsc
)

type KitchenOrderRepository interface {
	Save(ctx context.Context, ticket *models.KitchenOrder) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.KitchenOrder, error)
	// GetByOrderID returns a NotFoundError keyed by the order id when no ticket exists.
	GetByOrderID(ctx context.Context, orderID int64) (*models.KitchenOrder, error)
	Find(ctx context.Context, filter KitchenOrderFilter) ([]*models.KitchenOrder, error)
	CountByStatus(ctx context.Context, status models.OrderStatus) (int, error)
}

// PaymentFilter selects payments. Zero values are ignored.
type PaymentFilter struct {
	OrderID     int64
	Status      models.PaymentStatus
	Method      models.PaymentMethod
	ProcessedBy string
	From, To    time.Time
}

type PaymentRepository interface {
	Save(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	Find(ctx context.Context, filter PaymentFilter) ([]*models.Payment, error)
	HasCompleted(ctx context.Context, orderID int64) (bool, error)
}

// Store groups the repositories a backend provides.
type Store struct {
	Dishes   DishRepository
	Orders   OrderRepository
	Kitchen  KitchenOrderRepository
	Payments PaymentRepository
	Ping     func(ctx context.Context) error
	Close    func()
}
