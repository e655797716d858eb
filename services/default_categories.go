package services

import (
	"fintrack/models"

	"github.com/google/uuid"
)

type defaultCategory struct {
	en, es string
	icon   string
	kind   models.Kind
}

var defaultCategories = []defaultCategory{
	{"Food", "Comida", "restaurant", models.KindExpense},
	{"Transport", "Transporte", "directions-car", models.KindExpense},
	{"Shopping", "Compras", "shopping-bag", models.KindExpense},
	{"Bills", "Facturas", "receipt", models.KindExpense},
	{"Housing", "Vivienda", "home", models.KindExpense},
	{"Health", "Salud", "local-hospital", models.KindExpense},
	{"Entertainment", "Ocio", "movie", models.KindExpense},
	{"Education", "Educación", "school", models.KindExpense},
	{"Other", "Otros", "more-horiz", models.KindExpense},

	{"Salary", "Salario", "work", models.KindIncome},
	{"Bonus", "Bonificación", "star", models.KindIncome},
	{"Investment", "Inversiones", "trending-up", models.KindIncome},
	{"Gift", "Regalos", "card-giftcard", models.KindIncome},
	{"Other", "Otros", "more-horiz", models.KindIncome},
}

// DefaultCategories returns a fresh set of the categories every new user
// starts with, ordered as they should be displayed.
func DefaultCategories() []models.Category {
	cats := make([]models.Category, 0, len(defaultCategories))
	for _, d := range defaultCategories {
		cats = append(cats, models.Category{
			ID:       uuid.New().String(),
			Name:     d.en,
			Names:    map[string]string{"en": d.en, "es": d.es},
			Icon:     d.icon,
			Kind:     d.kind,
			IsActive: true,
		})
	}
	return cats
}
