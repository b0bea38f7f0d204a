// Package memory keeps every aggregate in process memory. It backs the
// memory storage driver, the simulator and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chrisdamba/comanda/internal/models"
	"github.com/chrisdamba/comanda/internal/repositories"
)

type db struct {
	mu       sync.RWMutex
	seq      int64
	dishes   map[int64]*models.Dish
	orders   map[int64]*models.Order
	tickets  map[int64]*models.KitchenOrder
	payments map[int64]*models.Payment
}

func (d *db) nextID() int64 {
	d.seq++
	return d.seq
}

// NewStore returns an empty in-memory store.
func NewStore() *repositories.Store {
	d := &db{
		dishes:   make(map[int64]*models.Dish),
		orders:   make(map[int64]*models.Order),
		tickets:  make(map[int64]*models.KitchenOrder),
		payments: make(map[int64]*models.Payment),
	}
	return &repositories.Store{
		Dishes:   &DishRepository{db: d},
		Orders:   &OrderRepository{db: d},
		Kitchen:  &KitchenOrderRepository{db: d},
		Payments: &PaymentRepository{db: d},
		Ping:     func(context.Context) error { return nil },
		Close:    func() {},
	}
}

type DishRepository struct{ db *db }

func copyDish(d *models.Dish) *models.Dish {
	c := *d
	return &c
}

func (r *DishRepository) BulkCreate(ctx context.Context, dishes []*models.Dish) error {
	for _, dish := range dishes {
		if err := r.Create(ctx, dish); err != nil {
			return err
		}
	}
	return nil
}

func (r *DishRepository) Create(_ context.Context, dish *models.Dish) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	dish.ID = r.db.nextID()
	dish.CreatedAt, dish.UpdatedAt = now, now
	r.db.dishes[dish.ID] = copyDish(dish)
	return nil
}

func (r *DishRepository) Update(_ context.Context, dish *models.Dish) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.dishes[dish.ID]
	if !ok {
		return models.NewNotFound(models.EntityDish, dish.ID)
	}
	dish.CreatedAt = existing.CreatedAt
	dish.UpdatedAt = time.Now()
	r.db.dishes[dish.ID] = copyDish(dish)
	return nil
}

func (r *DishRepository) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.dishes[id]; !ok {
		return models.NewNotFound(models.EntityDish, id)
	}
	delete(r.db.dishes, id)
	return nil
}

func (r *DishRepository) GetByID(_ context.Context, id int64) (*models.Dish, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	dish, ok := r.db.dishes[id]
	if !ok {
		return nil, models.NewNotFound(models.EntityDish, id)
	}
	return copyDish(dish), nil
}

func (r *DishRepository) GetAll(_ context.Context) ([]*models.Dish, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	dishes := make([]*models.Dish, 0, len(r.db.dishes))
	for _, dish := range r.db.dishes {
		dishes = append(dishes, copyDish(dish))
	}
	sort.Slice(dishes, func(i, j int) bool { return dishes[i].ID < dishes[j].ID })
	return dishes, nil
}

func (r *DishRepository) Count(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.dishes), nil
}

type OrderRepository struct{ db *db }

func copyOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = append([]models.OrderItem(nil), o.Items...)
	return &c
}

func (r *OrderRepository) Save(_ context.Context, order *models.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	if order.ID == 0 {
		order.ID = r.db.nextID()
		order.CreatedAt = now
	} else if existing, ok := r.db.orders[order.ID]; ok {
		order.CreatedAt = existing.CreatedAt
	} else {
		return models.NewNotFound(models.EntityOrder, order.ID)
	}
	order.UpdatedAt = now
	for i := range order.Items {
		if order.Items[i].ID == 0 {
			order.Items[i].ID = r.db.nextID()
		}
	}
	r.db.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *OrderRepository) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.orders[id]; !ok {
		return models.NewNotFound(models.EntityOrder, id)
	}
	delete(r.db.orders, id)
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id int64) (*models.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	order, ok := r.db.orders[id]
	if !ok {
		return nil, models.NewNotFound(models.EntityOrder, id)
	}
	return copyOrder(order), nil
}

func (r *OrderRepository) filter(keep func(o *models.Order) bool) []*models.Order {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	orders := make([]*models.Order, 0)
	for _, order := range r.db.orders {
		if keep(order) {
			orders = append(orders, copyOrder(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders
}

func (r *OrderRepository) GetAll(_ context.Context) ([]*models.Order, error) {
	return r.filter(func(*models.Order) bool { return true }), nil
}

func (r *OrderRepository) GetByTable(_ context.Context, tableNumber int) ([]*models.Order, error) {
	return r.filter(func(o *models.Order) bool { return o.TableNumber == tableNumber }), nil
}

func (r *OrderRepository) GetByStatus(_ context.Context, status models.OrderStatus) ([]*models.Order, error) {
	return r.filter(func(o *models.Order) bool { return o.Status == status }), nil
}

func (r *OrderRepository) GetActive(_ context.Context) ([]*models.Order, error) {
	return r.filter(func(o *models.Order) bool { return o.Status.IsActive() }), nil
}

type KitchenOrderRepository struct{ db *db }

func copyTicket(k *models.KitchenOrder) *models.KitchenOrder {
	c := *k
	c.Items = append([]models.KitchenOrderItem(nil), k.Items...)
	if k.StartedAt != nil {
		t := *k.StartedAt
		c.StartedAt = &t
	}
	if k.ReadyAt != nil {
		t := *k.ReadyAt
		c.ReadyAt = &t
	}
	return &c
}

func (r *KitchenOrderRepository) Save(_ context.Context, ticket *models.KitchenOrder) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	if ticket.ID == 0 {
		for _, existing := range r.db.tickets {
			if existing.OrderID == ticket.OrderID && ticket.OrderID != 0 {
				return models.NewValidationError("orderId", "a kitchen order already exists for this order")
			}
		}
		ticket.ID = r.db.nextID()
		if ticket.CreatedAt.IsZero() {
			ticket.CreatedAt = now
		}
	} else if _, ok := r.db.tickets[ticket.ID]; !ok {
		return models.NewNotFound(models.EntityKitchen, ticket.ID)
	}
	ticket.UpdatedAt = now
	for i := range ticket.Items {
		if ticket.Items[i].ID == 0 {
			ticket.Items[i].ID = r.db.nextID()
		}
	}
	r.db.tickets[ticket.ID] = copyTicket(ticket)
	return nil
}

func (r *KitchenOrderRepository) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tickets[id]; !ok {
		return models.NewNotFound(models.EntityKitchen, id)
	}
	delete(r.db.tickets, id)
	return nil
}

func (r *KitchenOrderRepository) GetByID(_ context.Context, id int64) (*models.KitchenOrder, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	ticket, ok := r.db.tickets[id]
	if !ok {
		return nil, models.NewNotFound(models.EntityKitchen, id)
	}
	return copyTicket(ticket), nil
}

func (r *KitchenOrderRepository) GetByOrderID(_ context.Context, orderID int64) (*models.KitchenOrder, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, ticket := range r.db.tickets {
		if ticket.OrderID == orderID {
			return copyTicket(ticket), nil
		}
	}
	return nil, models.NewNotFound(models.EntityKitchen, orderID)
}

func (r *KitchenOrderRepository) Find(_ context.Context, f repositories.KitchenOrderFilter) ([]*models.KitchenOrder, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	tickets := make([]*models.KitchenOrder, 0)
	for _, ticket := range r.db.tickets {
		if matchTicket(ticket, f) {
			tickets = append(tickets, copyTicket(ticket))
		}
	}
	sortTickets(tickets, f.OrderBy)
	return tickets, nil
}

func matchTicket(k *models.KitchenOrder, f repositories.KitchenOrderFilter) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if k.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.TableNumber != nil && k.TableNumber != *f.TableNumber {
		return false
	}
	if f.Priority != 0 && k.Priority != f.Priority {
		return false
	}
	if !f.From.IsZero() && k.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && k.CreatedAt.After(f.To) {
		return false
	}
	return true
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func sortTickets(tickets []*models.KitchenOrder, by repositories.KitchenOrdering) {
	sort.SliceStable(tickets, func(i, j int) bool {
		a, b := tickets[i], tickets[j]
		switch by {
		case repositories.OrderByCreatedDesc:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		case repositories.OrderByPriorityThenCreated:
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
		case repositories.OrderByStartedAsc:
			if sa, sb := timeOrZero(a.StartedAt), timeOrZero(b.StartedAt); !sa.Equal(sb) {
				return sa.Before(sb)
			}
		case repositories.OrderByReadyAsc:
			if ra, rb := timeOrZero(a.ReadyAt), timeOrZero(b.ReadyAt); !ra.Equal(rb) {
				return ra.Before(rb)
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func (r *KitchenOrderRepository) CountByStatus(_ context.Context, status models.OrderStatus) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	count := 0
	for _, ticket := range r.db.tickets {
		if ticket.Status == status {
			count++
		}
	}
	return count, nil
}

type PaymentRepository struct{ db *db }

func copyPayment(p *models.Payment) *models.Payment {
	c := *p
	if p.CashReceived != nil {
		v := *p.CashReceived
		c.CashReceived = &v
	}
	if p.ChangeAmount != nil {
		v := *p.ChangeAmount
		c.ChangeAmount = &v
	}
	if p.ProcessedAt != nil {
		t := *p.ProcessedAt
		c.ProcessedAt = &t
	}
	return &c
}

func (r *PaymentRepository) Save(_ context.Context, payment *models.Payment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if payment.ID == 0 {
		payment.ID = r.db.nextID()
		if payment.CreatedAt.IsZero() {
			payment.CreatedAt = time.Now()
		}
	} else if _, ok := r.db.payments[payment.ID]; !ok {
		return models.NewNotFound(models.EntityPayment, payment.ID)
	}
	r.db.payments[payment.ID] = copyPayment(payment)
	return nil
}

func (r *PaymentRepository) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.payments[id]; !ok {
		return models.NewNotFound(models.EntityPayment, id)
	}
	delete(r.db.payments, id)
	return nil
}

func (r *PaymentRepository) GetByID(_ context.Context, id int64) (*models.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	payment, ok := r.db.payments[id]
	if !ok {
		return nil, models.NewNotFound(models.EntityPayment, id)
	}
	return copyPayment(payment), nil
}

func (r *PaymentRepository) Find(_ context.Context, f repositories.PaymentFilter) ([]*models.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	payments := make([]*models.Payment, 0)
	for _, p := range r.db.payments {
		switch {
		case f.OrderID != 0 && p.OrderID != f.OrderID,
			f.Status != "" && p.Status != f.Status,
			f.Method != "" && p.Method != f.Method,
			f.ProcessedBy != "" && p.ProcessedBy != f.ProcessedBy,
			!f.From.IsZero() && p.CreatedAt.Before(f.From),
			!f.To.IsZero() && p.CreatedAt.After(f.To):
			continue
		}
		payments = append(payments, copyPayment(p))
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID < payments[j].ID })
	if f.ProcessedBy != "" {
		sort.SliceStable(payments, func(i, j int) bool {
			return timeOrZero(payments[i].ProcessedAt).After(timeOrZero(payments[j].ProcessedAt))
		})
	}
	return payments, nil
}

func (r *PaymentRepository) HasCompleted(_ context.Context, orderID int64) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, p := range r.db.payments {
		if p.OrderID == orderID && p.Status == models.PaymentStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}
