package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Describe(t *testing.T) {
	c := DefaultCatalog()

	t.Run("KnownScenarioVerbatim", func(t *testing.T) {
		assert.Equal(t,
			"Injector → Pas d'IPS → WAF (proxy + ModSecurity) actif → Backend. Mesure l'impact du WAF seul.",
			c.Describe("INJ_WAF_WEB"))
	})

	t.Run("NoInjection", func(t *testing.T) {
		assert.Equal(t, "Tests sans trafic d'injection (contrôles ou mesures à vide).", c.Describe(NoInjection))
	})

	t.Run("UnknownScenarioIsSynthesized", func(t *testing.T) {
		desc := c.Describe("INJ_FOO_BAR")
		assert.Contains(t, desc, "Injection depuis Injector")
		assert.NotContains(t, desc, "IPS")
		assert.NotContains(t, desc, "WAF")
	})

	t.Run("ZeroValueSynthesizesEverything", func(t *testing.T) {
		var empty Catalog
		assert.Equal(t, Synthesize("INJ_WAF_WEB"), empty.Describe("INJ_WAF_WEB"))
	})
}

func TestSynthesize(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"INJ_IPS_NFQ_WAF_BACKEND", "Injection depuis Injector — IPS (Suricata) actif — NFQUEUE présent — WAF (proxy / ModSecurity) actif — Backend web présent"},
		{"INJ_WEB_NO_PROXY", "Injection depuis Injector — Backend web présent — accès direct au backend (pas de proxy)"},
		{"INJ_WEB_PROXY", "Injection depuis Injector — Backend web présent — reverse-proxy en place"},
		{"INJECTED", "Injection depuis Injector"},
		{"baseline", "Scénario non documenté — nom brut: baseline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Synthesize(tt.name))
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Run("MergesOverDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scenarios.yaml")
		content := "INJ_WAF_WEB: WAF only\nINJ_CUSTOM: custom bench\nINJ_EMPTY: \"\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		c, err := LoadCatalog(path)
		require.NoError(t, err)

		assert.Equal(t, "WAF only", c.Describe("INJ_WAF_WEB"))
		assert.Equal(t, "custom bench", c.Describe("INJ_CUSTOM"))
		assert.Equal(t, Synthesize("INJ_EMPTY"), c.Describe("INJ_EMPTY"))
		assert.Contains(t, c.Names(), "INJ_IPS_WAF_WEB")
	})

	t.Run("DefaultsAreNotMutated", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scenarios.yaml")
		require.NoError(t, os.WriteFile(path, []byte("INJ_WEB: replaced\n"), 0o644))

		_, err := LoadCatalog(path)
		require.NoError(t, err)
		assert.NotEqual(t, "replaced", DefaultCatalog().Describe("INJ_WEB"))
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scenarios.yaml")
		require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o644))

		_, err := LoadCatalog(path)
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
