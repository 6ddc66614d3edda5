package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSimConfigFromTestFile(t *testing.T) {
	cfg, err := InitSimConfig("sim_config.test", GetAbsPath("config"))
	require.NoError(t, err)

	assert.Equal(t, ":18080", cfg.Server.Host)
	assert.Equal(t, 2*time.Second, cfg.Simulation.TickInterval)
	assert.Equal(t, 3*time.Second, cfg.Simulation.MigrationDelay)
	assert.EqualValues(t, 42, cfg.Simulation.Seed)
	assert.Equal(t, 8, cfg.Simulation.InitialPods)
	assert.Equal(t, 5, cfg.Simulation.OnPremPods)
	assert.Equal(t, 20, cfg.Simulation.HistorySize)
	assert.Equal(t, 3, cfg.Advisor.RecentErrorLogs)
	assert.False(t, cfg.Auth.Enabled)
	require.NotNil(t, GetSimConfig())
}

func TestInitSimConfigEnvOverride(t *testing.T) {
	t.Setenv("SIM_SIMULATION_INITIAL_PODS", "3")
	t.Setenv("SIM_ADVISOR_API_KEY", "top-secret")

	cfg, err := InitSimConfig("sim_config.test", GetAbsPath("config"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Simulation.InitialPods)
	assert.Equal(t, "top-secret", cfg.Advisor.APIKey.Value())
	assert.Equal(t, "*******", cfg.Advisor.APIKey.String())
}

func TestInitSimConfigMissingFile(t *testing.T) {
	_, err := InitSimConfig("does_not_exist", t.TempDir())
	require.Error(t, err)
}
