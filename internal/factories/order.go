package factories

import (
	"math/rand"

	"github.com/chrisdamba/comanda/internal/models"
	"github.com/shopspring/decimal"
)

const maxTables = 20

// NewOrder builds an unsaved order of one to four lines drawn from dishes.
// Roughly one order in five is a delivery order.
func NewOrder(dishes []*models.Dish) *models.Order {
	order := &models.Order{
		CustomerName:  fake.Person().Name(),
		CustomerPhone: fake.Phone().Number(),
		Status:        models.OrderStatusNew,
		DeliveryFee:   decimal.Zero,
	}
	if rand.Float64() < 0.2 {
		order.TableNumber = models.DeliveryTable
		order.DeliveryAddress = fake.Address().Address()
		order.DeliveryFee = decimal.NewFromFloat(fake.Float64(2, 3, 12)).Round(2)
	} else {
		order.TableNumber = rand.Intn(maxTables) + 1
	}

	lines := rand.Intn(4) + 1
	for i := 0; i < lines && len(dishes) > 0; i++ {
		dish := dishes[rand.Intn(len(dishes))]
		order.AddItem(NewOrderItem(dish, rand.Intn(3)+1))
	}
	return order
}

func NewOrderItem(dish *models.Dish, quantity int) models.OrderItem {
	item := models.OrderItem{
		DishID:    dish.ID,
		DishName:  dish.Name,
		Quantity:  quantity,
		UnitPrice: dish.Price,
	}
	item.CalculateTotal()
	return item
}

// RandomPaymentMethod favours cards and PIX over cash.
func RandomPaymentMethod() models.PaymentMethod {
	weights := map[models.PaymentMethod]float64{
		models.PaymentMethodCash:       0.2,
		models.PaymentMethodCreditCard: 0.35,
		models.PaymentMethodDebitCard:  0.2,
		models.PaymentMethodPix:        0.25,
	}
	r := rand.Float64()
	var cumulative float64
	for _, m := range []models.PaymentMethod{
		models.PaymentMethodCash,
		models.PaymentMethodCreditCard,
		models.PaymentMethodDebitCard,
		models.PaymentMethodPix,
	} {
		cumulative += weights[m]
		if r < cumulative {
			return m
		}
	}
	return models.PaymentMethodPix
}

// CardLastFour returns four random digits.
func CardLastFour() string {
	return fake.Numerify("####")
}
