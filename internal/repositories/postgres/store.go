package postgres

import (
	"github.com/chrisdamba/comanda/internal/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewStore wires every Postgres repository over one pool.
func NewStore(pool *pgxpool.Pool) *repositories.Store {
	return &repositories.Store{
		Dishes:   NewDishRepository(pool),
		Orders:   NewOrderRepository(pool),
		Kitchen:  NewKitchenOrderRepository(pool),
		Payments: NewPaymentRepository(pool),
		Ping:     pool.Ping,
		Close:    pool.Close,
	}
}
