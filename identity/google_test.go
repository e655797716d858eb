package identity

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthCodeURL(t *testing.T) {
	g := NewGoogle("client-id", "secret", "http://localhost:3000/auth/google/callback")

	raw := g.AuthCodeURL("state-123")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "http://localhost:3000/auth/google/callback", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "userinfo.email")
}

func TestVerifyIDTokenRejectsGarbage(t *testing.T) {
	g := NewGoogle("client-id", "secret", "postmessage")

	_, err := g.VerifyIDToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidIDToken)
}
