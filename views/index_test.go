package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, p IndexProps) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Index(p).Render(context.Background(), &buf))
	return buf.String()
}

func TestIndex(t *testing.T) {
	tests := []struct {
		name       string
		props      IndexProps
		contains   []string
		notContain []string
	}{
		{
			name:       "Guest only in English",
			props:      IndexProps{GuestEnabled: true, Theme: "dark", Language: "en", FontScale: 1.2},
			contains:   []string{`lang="en"`, `data-theme="dark"`, `data-font-scale="1.20"`, "Continue as guest"},
			notContain: []string{"/auth/google"},
		},
		{
			name:       "Google only in Spanish",
			props:      IndexProps{GoogleEnabled: true, Language: "es", FontScale: 1},
			contains:   []string{`href="/auth/google"`, "Entrar con Google", "ingresos y gastos"},
			notContain: []string{`id="guest"`},
		},
		{
			name:     "Unknown language falls back to English",
			props:    IndexProps{GuestEnabled: true, Language: "fr", FontScale: 1},
			contains: []string{"Continue as guest", "Fintrack: income and expenses"},
		},
		{
			name:       "Attribute values are escaped",
			props:      IndexProps{Theme: `"><script>`, Language: "en", FontScale: 1},
			contains:   []string{`data-theme="&#34;&gt;&lt;script&gt;"`},
			notContain: []string{`data-theme=""><script>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := render(t, tt.props)
			for _, s := range tt.contains {
				assert.Contains(t, html, s)
			}
			for _, s := range tt.notContain {
				assert.NotContains(t, html, s)
			}
		})
	}
}
