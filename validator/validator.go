package validator

import (
	"fintrack/models"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

var (
	categoryNamePattern = regexp.MustCompile(`^[\p{L}\p{N}\s\-_.,&()'/]+$`)
	datePattern         = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	iconPattern         = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,31}$`)
)

// New creates a new validator instance
func New() *Validator {
	v := validator.New()

	// Register custom tag name function to use JSON tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validators
	v.RegisterValidation("categoryname", validateCategoryName)
	v.RegisterValidation("dateformat", validateDateFormat)
	v.RegisterValidation("kind", validateKind)
	v.RegisterValidation("theme", validateTheme)
	v.RegisterValidation("language", validateLanguage)
	v.RegisterValidation("currency", validateCurrency)
	v.RegisterValidation("fontscale", validateFontScale)
	v.RegisterValidation("icon", validateIcon)

	return &Validator{validate: v}
}

// Validate validates a struct and returns validation errors
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Convert validation errors to our custom format
	var validationErrs ValidationErrors
	for _, fe := range fieldErrs {
		validationErrs = append(validationErrs, ValidationError{
			Field:   fe.Field(),
			Message: msgForTag(fe),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
		})
	}

	return validationErrs
}

// msgForTag returns a human-readable error message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "categoryname":
		return fmt.Sprintf("%s contains invalid characters (only letters, numbers, spaces, and -_.,&()'/ are allowed)", field)
	case "dateformat":
		return fmt.Sprintf("%s must be a valid date in YYYY-MM-DD format", field)
	case "kind":
		return fmt.Sprintf("%s must be either 'expense' or 'income'", field)
	case "theme":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(models.Themes, ", "))
	case "language":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(models.Languages, ", "))
	case "currency":
		return fmt.Sprintf("%s must be a 3-letter ISO currency code", field)
	case "fontscale":
		return fmt.Sprintf("%s must be between %.1f and %.1f", field, models.MinFontScale, models.MaxFontScale)
	case "icon":
		return fmt.Sprintf("%s must be a lowercase icon key", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// Custom validators

// validateCategoryName allows letters (any language), numbers, spaces and a
// few symbols
func validateCategoryName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return strings.TrimSpace(name) != "" && categoryNamePattern.MatchString(name)
}

// validateDateFormat validates YYYY-MM-DD format and that the day exists
func validateDateFormat(fl validator.FieldLevel) bool {
	date := fl.Field().String()
	if !datePattern.MatchString(date) {
		return false
	}
	_, err := time.Parse(models.DateLayout, date)
	return err == nil
}

func validateKind(fl validator.FieldLevel) bool {
	return models.Kind(fl.Field().String()).Valid()
}

func validateTheme(fl validator.FieldLevel) bool {
	return models.IsTheme(fl.Field().String())
}

func validateLanguage(fl validator.FieldLevel) bool {
	return models.IsLanguage(fl.Field().String())
}

func validateCurrency(fl validator.FieldLevel) bool {
	return models.IsCurrency(fl.Field().String())
}

func validateFontScale(fl validator.FieldLevel) bool {
	return models.IsFontScale(fl.Field().Float())
}

func validateIcon(fl validator.FieldLevel) bool {
	return iconPattern.MatchString(fl.Field().String())
}
