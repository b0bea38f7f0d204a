package factories

import (
	"math/rand"

	"github.com/chrisdamba/comanda/internal/models"
	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"
)

var fake = faker.New()

var dishesByCuisine = map[string][]string{
	"Pizza":         {"Margherita", "Pepperoni", "Calabresa", "Quatro Queijos"},
	"Burgers":       {"Classic Cheeseburger", "Veggie Burger", "BBQ Bacon Burger", "Mushroom Swiss Burger"},
	"Grill":         {"Picanha", "BBQ Ribs", "Grilled Salmon", "Mixed Grill Platter"},
	"Salad":         {"Caesar Salad", "Greek Salad", "Cobb Salad", "Quinoa Salad"},
	"Italian":       {"Spaghetti Carbonara", "Lasagna", "Risotto", "Tiramisu"},
	"Japanese":      {"Sushi Roll", "Ramen", "Tempura", "Miso Soup"},
	"Mexican":       {"Tacos", "Burrito", "Guacamole", "Quesadilla"},
	"Brazilian":     {"Feijoada", "Moqueca", "Coxinha", "Pão de Queijo"},
	"Mediterranean": {"Falafel", "Hummus", "Tabbouleh", "Grilled Halloumi"},
	"Drinks":        {"Refrigerante", "Suco de Laranja", "Água com Gás", "Caipirinha"},
}

var categories = []string{"appetizer", "main course", "side dish", "dessert", "drink"}

// NewDish returns an unsaved dish with a realistic name and price.
func NewDish() *models.Dish {
	return &models.Dish{
		Name:        generateRandomDishName(),
		Description: fake.Lorem().Sentence(8),
		Price:       decimal.NewFromFloat(fake.Float64(2, 4, 80)).Round(2),
		Category:    categories[rand.Intn(len(categories))],
		Available:   true,
	}
}

func NewDishes(n int) []*models.Dish {
	dishes := make([]*models.Dish, 0, n)
	for i := 0; i < n; i++ {
		dishes = append(dishes, NewDish())
	}
	return dishes
}

func generateRandomDishName() string {
	cuisines := make([]string, 0, len(dishesByCuisine))
	for c := range dishesByCuisine {
		cuisines = append(cuisines, c)
	}
	items := dishesByCuisine[cuisines[rand.Intn(len(cuisines))]]
	return items[rand.Intn(len(items))]
}
