package models

import "regexp"

// Preference keys as stored in the preference file.
const (
	PrefTheme              = "theme"
	PrefLanguage           = "language"
	PrefFontScale          = "font_scale"
	PrefCurrency           = "currency"
	PrefSelectedCategories = "selected_categories"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	MinFontScale = 0.8
	MaxFontScale = 1.6

	DefaultTheme     = ThemeSystem
	DefaultFontScale = 1.0
	DefaultCurrency  = "USD"
)

var (
	Themes    = []string{ThemeLight, ThemeDark, ThemeSystem}
	Languages = []string{"en", "es"}

	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

func IsTheme(s string) bool { return contains(Themes, s) }

func IsLanguage(s string) bool { return contains(Languages, s) }

// IsCurrency reports whether s looks like an ISO-4217 code
func IsCurrency(s string) bool { return currencyPattern.MatchString(s) }

func IsFontScale(f float64) bool { return f >= MinFontScale && f <= MaxFontScale }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type Preferences struct {
	Theme              string   `json:"theme" mapstructure:"theme"`
	Language           string   `json:"language" mapstructure:"language"`
	FontScale          float64  `json:"font_scale" mapstructure:"font_scale"`
	Currency           string   `json:"currency" mapstructure:"currency"`
	SelectedCategories []string `json:"selected_categories" mapstructure:"selected_categories"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:              DefaultTheme,
		Language:           DefaultLanguage,
		FontScale:          DefaultFontScale,
		Currency:           DefaultCurrency,
		SelectedCategories: []string{},
	}
}

// UpdatePreferencesRequest is a partial update; nil fields are left alone.
type UpdatePreferencesRequest struct {
	Theme              *string   `json:"theme" validate:"omitempty,theme"`
	Language           *string   `json:"language" validate:"omitempty,language"`
	FontScale          *float64  `json:"font_scale" validate:"omitempty,fontscale"`
	Currency           *string   `json:"currency" validate:"omitempty,currency"`
	SelectedCategories *[]string `json:"selected_categories" validate:"omitempty,dive,uuid"`
}
