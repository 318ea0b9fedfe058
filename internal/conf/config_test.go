package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSettings() *Settings {
	return &Settings{
		Listen:   DefaultListen,
		Upstream: "https://example.github.io/smoking-area",
		Catalog: CatalogSettings{
			Candidates: []string{"stores.csv"},
		},
		Gateway: GatewaySettings{
			Generation: DefaultGeneration,
			Dir:        DefaultCacheDir,
		},
	}
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid settings pass", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validSettings().Validate())
	})

	t.Run("missing upstream", func(t *testing.T) {
		t.Parallel()
		s := validSettings()
		s.Upstream = ""
		assert.Error(t, s.Validate())
	})

	t.Run("upstream without scheme", func(t *testing.T) {
		t.Parallel()
		s := validSettings()
		s.Upstream = "example.github.io/smoking-area"
		assert.Error(t, s.Validate())
	})

	t.Run("no candidate paths", func(t *testing.T) {
		t.Parallel()
		s := validSettings()
		s.Catalog.Candidates = nil
		assert.Error(t, s.Validate())
	})

	t.Run("empty generation", func(t *testing.T) {
		t.Parallel()
		s := validSettings()
		s.Gateway.Generation = ""
		assert.Error(t, s.Validate())
	})
}
