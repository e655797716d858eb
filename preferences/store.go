// Package preferences keeps the process-wide display settings in a small YAML
// file, independent of the relational database.
package preferences

import (
	"errors"
	"fintrack/models"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	ErrUnknownKey   = errors.New("unknown preference key")
	ErrInvalidValue = errors.New("invalid preference value")
)

// Notifier is told when preferences change
type Notifier interface {
	PreferencesChanged()
}

// Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	path     string
	v        *viper.Viper
	notifier Notifier
}

// Open reads the preference file at path. A missing file is not an error; an
// unreadable one is logged and treated as empty.
func Open(path string, notifier Notifier) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}

	s := &Store{path: path, notifier: notifier}
	s.v = s.newViper()

	if err := s.v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) || !errors.Is(pathErr.Err, fs.ErrNotExist) {
			slog.Warn("preferences file unreadable, using defaults", "path", path, "error", err)
			s.v = s.newViper()
		}
	}

	return s, nil
}

func (s *Store) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")

	defaults := models.DefaultPreferences()
	v.SetDefault(models.PrefTheme, defaults.Theme)
	v.SetDefault(models.PrefLanguage, defaults.Language)
	v.SetDefault(models.PrefFontScale, defaults.FontScale)
	v.SetDefault(models.PrefCurrency, defaults.Currency)
	v.SetDefault(models.PrefSelectedCategories, defaults.SelectedCategories)
	return v
}

func (s *Store) Path() string {
	return s.path
}

// Load returns every preference. Values that are missing or invalid in the
// file come back as their defaults.
func (s *Store) Load() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *Store) load() models.Preferences {
	prefs := models.DefaultPreferences()

	if theme := s.v.GetString(models.PrefTheme); models.IsTheme(theme) {
		prefs.Theme = theme
	}
	if lang := s.v.GetString(models.PrefLanguage); models.IsLanguage(lang) {
		prefs.Language = lang
	}
	if scale := s.v.GetFloat64(models.PrefFontScale); models.IsFontScale(scale) {
		prefs.FontScale = scale
	}
	if currency := s.v.GetString(models.PrefCurrency); models.IsCurrency(currency) {
		prefs.Currency = currency
	}
	if selected := s.v.GetStringSlice(models.PrefSelectedCategories); len(selected) > 0 {
		prefs.SelectedCategories = selected
	}

	return prefs
}

// Get returns one preference rendered as a string
func (s *Store) Get(key string) (string, error) {
	prefs := s.Load()

	switch key {
	case models.PrefTheme:
		return prefs.Theme, nil
	case models.PrefLanguage:
		return prefs.Language, nil
	case models.PrefFontScale:
		return strconv.FormatFloat(prefs.FontScale, 'f', -1, 64), nil
	case models.PrefCurrency:
		return prefs.Currency, nil
	case models.PrefSelectedCategories:
		return strings.Join(prefs.SelectedCategories, ","), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set parses and stores one preference given as a string. Category lists are
// comma separated.
func (s *Store) Set(key, value string) error {
	var patch models.UpdatePreferencesRequest
	value = strings.TrimSpace(value)

	switch key {
	case models.PrefTheme:
		patch.Theme = &value
	case models.PrefLanguage:
		patch.Language = &value
	case models.PrefFontScale:
		scale, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: font_scale %q", ErrInvalidValue, value)
		}
		patch.FontScale = &scale
	case models.PrefCurrency:
		upper := strings.ToUpper(value)
		patch.Currency = &upper
	case models.PrefSelectedCategories:
		ids := make([]string, 0)
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		patch.SelectedCategories = &ids
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	_, err := s.Update(patch)
	return err
}

// Update applies the non-nil fields of patch, persists the file and returns
// the resulting preferences. Changes are staged on a copy so a failed write
// leaves the current values untouched.
func (s *Store) Update(patch models.UpdatePreferencesRequest) (models.Preferences, error) {
	if err := checkPatch(patch); err != nil {
		return models.Preferences{}, err
	}

	s.mu.Lock()
	staged := s.newViper()
	if err := staged.MergeConfigMap(s.v.AllSettings()); err != nil {
		s.mu.Unlock()
		return models.Preferences{}, fmt.Errorf("failed to stage preferences: %w", err)
	}

	if patch.Theme != nil {
		staged.Set(models.PrefTheme, *patch.Theme)
	}
	if patch.Language != nil {
		staged.Set(models.PrefLanguage, *patch.Language)
	}
	if patch.FontScale != nil {
		staged.Set(models.PrefFontScale, *patch.FontScale)
	}
	if patch.Currency != nil {
		staged.Set(models.PrefCurrency, *patch.Currency)
	}
	if patch.SelectedCategories != nil {
		staged.Set(models.PrefSelectedCategories, *patch.SelectedCategories)
	}

	if err := staged.WriteConfigAs(s.path); err != nil {
		s.mu.Unlock()
		return models.Preferences{}, fmt.Errorf("failed to write preferences: %w", err)
	}
	s.v = staged
	prefs := s.load()
	s.mu.Unlock()

	s.notify()
	return prefs, nil
}

// Reset deletes the preference file, restoring every default.
func (s *Store) Reset() error {
	s.mu.Lock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.mu.Unlock()
		return fmt.Errorf("failed to remove preferences: %w", err)
	}
	s.v = s.newViper()
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) notify() {
	if s.notifier != nil {
		s.notifier.PreferencesChanged()
	}
}

// checkPatch guards callers that bypass request validation, like the CLI
func checkPatch(patch models.UpdatePreferencesRequest) error {
	if patch.Theme != nil && !models.IsTheme(*patch.Theme) {
		return fmt.Errorf("%w: theme must be one of %s", ErrInvalidValue, strings.Join(models.Themes, ", "))
	}
	if patch.Language != nil && !models.IsLanguage(*patch.Language) {
		return fmt.Errorf("%w: language must be one of %s", ErrInvalidValue, strings.Join(models.Languages, ", "))
	}
	if patch.FontScale != nil && !models.IsFontScale(*patch.FontScale) {
		return fmt.Errorf("%w: font_scale must be between %.1f and %.1f", ErrInvalidValue, models.MinFontScale, models.MaxFontScale)
	}
	if patch.Currency != nil && !models.IsCurrency(*patch.Currency) {
		return fmt.Errorf("%w: currency must be a 3-letter ISO code", ErrInvalidValue)
	}
	return nil
}
