package models

import "time"

type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Valid reports whether k is one of the known transaction kinds.
func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// DefaultLanguage is the language used when a category has no label for the
// requested one.
const DefaultLanguage = "en"

type Category struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	Name         string            `json:"name"`
	Names        map[string]string `json:"names"`
	Label        string            `json:"label,omitempty"`
	Icon         string            `json:"icon"`
	Kind         Kind              `json:"kind"`
	IsActive     bool              `json:"is_active"`
	DisplayOrder int               `json:"display_order"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// DisplayName returns the label for lang, falling back to English and then to
// the canonical name.
func (c *Category) DisplayName(lang string) string {
	if name := c.Names[lang]; name != "" {
		return name
	}
	if name := c.Names[DefaultLanguage]; name != "" {
		return name
	}
	return c.Name
}

type CreateCategoryRequest struct {
	Name  string            `json:"name" validate:"required,min=1,max=50,categoryname"`
	Names map[string]string `json:"names" validate:"omitempty,dive,keys,language,endkeys,max=50"`
	Icon  string            `json:"icon" validate:"omitempty,icon"`
	Kind  Kind              `json:"kind" validate:"required,kind"`
}

type UpdateCategoryRequest struct {
	Name     string            `json:"name" validate:"required,min=1,max=50,categoryname"`
	Names    map[string]string `json:"names" validate:"omitempty,dive,keys,language,endkeys,max=50"`
	Icon     string            `json:"icon" validate:"omitempty,icon"`
	IsActive *bool             `json:"is_active"`
}

type ReorderCategoriesRequest struct {
	Kind Kind     `json:"kind" validate:"required,kind"`
	IDs  []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type SetCategoryActiveRequest struct {
	IsActive bool `json:"is_active"`
}
