package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndrandal/hedge-simulator/internal/engine"
)

func TestCatalogConfigsValidate(t *testing.T) {
	for _, s := range AllScenarios() {
		assert.NoError(t, s.Config.Validate(), "scenario %q", s.Name)
	}
}

func TestCatalogNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range AllScenarios() {
		require.False(t, seen[s.Name], "duplicate scenario name %q", s.Name)
		seen[s.Name] = true
	}
}

func TestByName(t *testing.T) {
	m := ByName()
	require.Len(t, m, len(AllScenarios()))

	crisis, ok := m["crisis"]
	require.True(t, ok)
	assert.Equal(t, ProfileCrisis, crisis.Profile)
	assert.Equal(t, 40.0, crisis.Config.MarketVolatility)

	_, ok = m["no-such-scenario"]
	assert.False(t, ok)
}

func TestBaselineMatchesDefaults(t *testing.T) {
	m := ByName()
	baseline, ok := m["baseline"]
	require.True(t, ok)
	assert.Equal(t, engine.DefaultConfig(), baseline.Config)
}

func TestByProfileCoversCatalog(t *testing.T) {
	grouped := ByProfile()
	require.Len(t, grouped, len(Profiles()))

	total := 0
	for _, profile := range Profiles() {
		scenarios := grouped[profile]
		assert.NotEmpty(t, scenarios, "profile %q has no scenarios", profile)
		for _, s := range scenarios {
			assert.Equal(t, profile, s.Profile)
		}
		total += len(scenarios)
	}
	assert.Equal(t, len(AllScenarios()), total)
}
