package services

import (
	"context"
	"errors"
	"fintrack/database"
	"fintrack/live"
	"fintrack/models"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultIcon = "label"

// CategoryService handles business logic for categories
type CategoryService struct {
	repo      CategoryRepository
	publisher Publisher
}

// NewCategoryService creates a new category service. publisher may be nil.
func NewCategoryService(repo CategoryRepository, publisher Publisher) *CategoryService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &CategoryService{repo: repo, publisher: publisher}
}

// List retrieves a user's categories in display order
func (cs *CategoryService) List(ctx context.Context, userID string, kind models.Kind, includeInactive bool) ([]models.Category, error) {
	return cs.repo.GetCategories(ctx, userID, kind, includeInactive)
}

func (cs *CategoryService) Get(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	cat, err := cs.repo.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, ErrCategoryNotFound
	}
	return cat, nil
}

// Create adds a category at the end of its kind's list
func (cs *CategoryService) Create(ctx context.Context, userID string, req models.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)

	existing, err := cs.repo.GetCategoryByName(ctx, userID, req.Kind, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	cat := &models.Category{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Names:     normalizeNames(name, req.Names),
		Icon:      iconOrDefault(req.Icon),
		Kind:      req.Kind,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	if err := cs.repo.CreateCategory(ctx, cat); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	cs.publisher.Publish(live.CategoriesTopic(userID))
	return cat, nil
}

// Update renames a category or changes its icon. The kind never changes, so
// existing transactions stay consistent. An empty icon keeps the current one,
// and names are merged into the existing labels.
func (cs *CategoryService) Update(ctx context.Context, userID, categoryID string, req models.UpdateCategoryRequest) (*models.Category, error) {
	cat, err := cs.Get(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if !strings.EqualFold(name, cat.Name) {
		existing, err := cs.repo.GetCategoryByName(ctx, userID, cat.Kind, name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != cat.ID {
			return nil, ErrCategoryExists
		}
	}

	renamed := name != cat.Name
	cat.Name = name
	cat.Names = mergeNames(cat.Names, name, renamed, req.Names)
	if req.Icon != "" {
		cat.Icon = req.Icon
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	if err := cs.repo.UpdateCategory(ctx, cat); err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicate):
			return nil, ErrCategoryExists
		case errors.Is(err, database.ErrNotFound):
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	cs.publisher.Publish(live.CategoriesTopic(userID))
	return cat, nil
}

// SetActive hides or shows a category in pickers
func (cs *CategoryService) SetActive(ctx context.Context, userID, categoryID string, active bool) error {
	if err := cs.repo.SetCategoryActive(ctx, userID, categoryID, active); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	cs.publisher.Publish(live.CategoriesTopic(userID))
	return nil
}

// Reorder sets the display order of one kind of category. ids must contain
// each of the user's categories of that kind once.
func (cs *CategoryService) Reorder(ctx context.Context, userID string, kind models.Kind, ids []string) error {
	if err := cs.repo.ReorderCategories(ctx, userID, kind, ids); err != nil {
		if errors.Is(err, database.ErrOrderMismatch) {
			return ErrCategoryOrderMismatch
		}
		return err
	}
	cs.publisher.Publish(live.CategoriesTopic(userID))
	return nil
}

// Delete removes a category that no transaction references
func (cs *CategoryService) Delete(ctx context.Context, userID, categoryID string) error {
	if _, err := cs.Get(ctx, userID, categoryID); err != nil {
		return err
	}

	count, err := cs.repo.CountTransactionsForCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w (%d transactions)", ErrCategoryInUse, count)
	}

	// The foreign key still guards against a transaction added in between
	if err := cs.repo.DeleteCategory(ctx, userID, categoryID); err != nil {
		switch {
		case errors.Is(err, database.ErrForeignKey):
			return ErrCategoryInUse
		case errors.Is(err, database.ErrNotFound):
			return ErrCategoryNotFound
		}
		return err
	}

	cs.publisher.Publish(live.CategoriesTopic(userID))
	return nil
}

// EnsureDefaults seeds the default categories unless the user already had
// them seeded. It reports whether seeding happened now.
func (cs *CategoryService) EnsureDefaults(ctx context.Context, userID string) (bool, error) {
	seeded, err := cs.repo.SeedCategories(ctx, userID, DefaultCategories())
	if err != nil {
		return false, fmt.Errorf("seed default categories: %w", err)
	}
	if seeded {
		cs.publisher.Publish(live.CategoriesTopic(userID))
	}
	return seeded, nil
}

// Localize fills each category's Label for lang
func Localize(cats []models.Category, lang string) []models.Category {
	for i := range cats {
		cats[i].Label = cats[i].DisplayName(lang)
	}
	return cats
}

func normalizeNames(name string, names map[string]string) map[string]string {
	out := make(map[string]string, len(names)+1)
	for lang, label := range names {
		if label = strings.TrimSpace(label); label != "" {
			out[lang] = label
		}
	}
	if out[models.DefaultLanguage] == "" {
		out[models.DefaultLanguage] = name
	}
	return out
}

// mergeNames overlays update onto current. A rename replaces the English
// label unless update carries one.
func mergeNames(current map[string]string, name string, renamed bool, update map[string]string) map[string]string {
	merged := make(map[string]string, len(current)+len(update))
	for lang, label := range current {
		merged[lang] = label
	}
	if renamed {
		delete(merged, models.DefaultLanguage)
	}
	for lang, label := range update {
		if label = strings.TrimSpace(label); label != "" {
			merged[lang] = label
		}
	}
	return normalizeNames(name, merged)
}

func iconOrDefault(icon string) string {
	if icon == "" {
		return defaultIcon
	}
	return icon
}
