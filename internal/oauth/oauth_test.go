package oauth

import (
	"context"
	"testing"

	"github.com/dimitrije/fitlog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateState(t *testing.T) {
	state1, err := GenerateState()
	require.NoError(t, err)
	state2, err := GenerateState()
	require.NoError(t, err)

	assert.NotEqual(t, state1, state2)
	assert.Len(t, state1, 44)
}

type stubProvider struct{ name string }

func (p stubProvider) GetConsentURL(state string) string { return "https://example.com?state=" + state }
func (p stubProvider) Name() string                      { return p.name }
func (p stubProvider) ExchangeCode(ctx context.Context, code string) (*UserInfo, error) {
	return &UserInfo{ID: code, Provider: p.name}, nil
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry(stubProvider{name: "github"})

	p, ok := r.Get("GitHub")
	require.True(t, ok)
	assert.Equal(t, "github", p.Name())

	_, ok = r.Get("gitlab")
	assert.False(t, ok)
}

func TestFromConfig_OnlyConfiguredProviders(t *testing.T) {
	cfg := &config.Config{
		Google: config.OAuthConfig{ClientID: "google-id"},
	}

	r := FromConfig(cfg)

	assert.Equal(t, []string{"google"}, r.Names())
	_, ok := r.Get("github")
	assert.False(t, ok)
}
