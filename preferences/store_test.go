package preferences

import (
	"fintrack/models"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) PreferencesChanged() { n.calls++ }

func setupTestStore(t *testing.T) (*Store, *countingNotifier, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs", "preferences.yaml")
	notifier := &countingNotifier{}
	store, err := Open(path, notifier)
	require.NoError(t, err)
	return store, notifier, path
}

func TestDefaultsWhenFileMissing(t *testing.T) {
	store, _, _ := setupTestStore(t)

	assert.Equal(t, models.DefaultPreferences(), store.Load())
}

func TestUpdatePersists(t *testing.T) {
	store, notifier, path := setupTestStore(t)

	dark := "dark"
	scale := 1.2
	selected := []string{"a1", "b2"}
	prefs, err := store.Update(models.UpdatePreferencesRequest{
		Theme:              &dark,
		FontScale:          &scale,
		SelectedCategories: &selected,
	})
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs.Theme)
	assert.Equal(t, "en", prefs.Language)
	assert.Equal(t, 1.2, prefs.FontScale)
	assert.Equal(t, 1, notifier.calls)

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	got := reopened.Load()
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, 1.2, got.FontScale)
	assert.Equal(t, []string{"a1", "b2"}, got.SelectedCategories)
}

func TestSetAndGet(t *testing.T) {
	store, _, _ := setupTestStore(t)

	tests := []struct {
		name     string
		key      string
		value    string
		expected string
		wantErr  error
	}{
		{"Theme", models.PrefTheme, "light", "light", nil},
		{"Language", models.PrefLanguage, "es", "es", nil},
		{"Font scale", models.PrefFontScale, "1.4", "1.4", nil},
		{"Currency is upper-cased", models.PrefCurrency, "eur", "EUR", nil},
		{"Selected categories", models.PrefSelectedCategories, "x, y,,z", "x,y,z", nil},
		{"Bad theme", models.PrefTheme, "neon", "", ErrInvalidValue},
		{"Font scale out of range", models.PrefFontScale, "3", "", ErrInvalidValue},
		{"Font scale not a number", models.PrefFontScale, "big", "", ErrInvalidValue},
		{"Unknown key", "volume", "11", "", ErrUnknownKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Set(tt.key, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := store.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInvalidStoredValuesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	content := "theme: neon\nlanguage: es\nfont_scale: 9\ncurrency: euros\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store, err := Open(path, nil)
	require.NoError(t, err)

	prefs := store.Load()
	assert.Equal(t, models.DefaultTheme, prefs.Theme)
	assert.Equal(t, "es", prefs.Language)
	assert.Equal(t, models.DefaultFontScale, prefs.FontScale)
	assert.Equal(t, models.DefaultCurrency, prefs.Currency)
}

func TestCorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [unterminated\n"), 0644))

	store, err := Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences(), store.Load())
}

func TestReset(t *testing.T) {
	store, notifier, path := setupTestStore(t)

	require.NoError(t, store.Set(models.PrefTheme, "dark"))
	require.NoError(t, store.Reset())
	assert.Equal(t, 2, notifier.calls)

	assert.Equal(t, models.DefaultPreferences(), store.Load())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.Reset(), "resetting twice is fine")
}

func TestFailedWriteKeepsCurrentValues(t *testing.T) {
	store, notifier, path := setupTestStore(t)

	light := "light"
	_, err := store.Update(models.UpdatePreferencesRequest{Theme: &light})
	require.NoError(t, err)

	// A directory in place of the file makes the next write fail
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0755))

	dark := "dark"
	_, err = store.Update(models.UpdatePreferencesRequest{Theme: &dark})
	require.Error(t, err)

	assert.Equal(t, "light", store.Load().Theme)
	assert.Equal(t, 1, notifier.calls)

	require.NoError(t, os.Remove(path))
	prefs, err := store.Update(models.UpdatePreferencesRequest{Theme: &dark})
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs.Theme)
	assert.Equal(t, 2, notifier.calls)
}
