package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depsync/internal/types"
)

func TestMacOSProbeAdapter_BrewManagedRuntime(t *testing.T) {
	runner := newFakeRunner()
	runner.paths["brew"] = "/opt/homebrew/bin/brew"
	runner.paths["python3"] = "/opt/homebrew/bin/python3"
	runner.respond("brew --prefix", "/opt/homebrew\n", "", nil)
	probe := NewMacOSProbeAdapter(runner)

	env, err := probe.Probe(context.Background(), "python3")
	require.NoError(t, err)
	assert.Equal(t, types.OSDarwin, env.OS)
	assert.Equal(t, types.BackendBrew, env.Backend)
	assert.True(t, env.FormulaManagerAvailable)
	assert.Equal(t, types.InstallMethodSystemPackageManager, env.InstallMethod)
	assert.True(t, env.ExternallyManaged)
}

func TestMacOSProbeAdapter_StandaloneRuntime(t *testing.T) {
	runner := newFakeRunner()
	runner.paths["brew"] = "/opt/homebrew/bin/brew"
	runner.paths["python3"] = "/usr/local/python/bin/python3"
	runner.respond("brew --prefix", "/opt/homebrew\n", "", nil)
	probe := NewMacOSProbeAdapter(runner)

	env, err := probe.Probe(context.Background(), "python3")
	require.NoError(t, err)
	assert.Equal(t, types.InstallMethodStandalone, env.InstallMethod)
	assert.False(t, env.ExternallyManaged)
	assert.True(t, env.FormulaManagerAvailable)
}

func TestMacOSProbeAdapter_NoFormulaManager(t *testing.T) {
	runner := newFakeRunner()
	runner.paths["python3"] = "/usr/bin/python3"
	probe := NewMacOSProbeAdapter(runner)

	env, err := probe.Probe(context.Background(), "python3")
	require.NoError(t, err)
	assert.False(t, env.FormulaManagerAvailable)
	assert.Equal(t, types.InstallMethodStandalone, env.InstallMethod)

	// The prefix query must not run when the manager is absent.
	assert.Empty(t, runner.calls)
}

func TestMacOSProbeAdapter_MissingRuntime(t *testing.T) {
	runner := newFakeRunner()
	probe := NewMacOSProbeAdapter(runner)

	env, err := probe.Probe(context.Background(), "python3")
	require.NoError(t, err)
	assert.Empty(t, env.RuntimePath)
	assert.Equal(t, types.InstallMethodStandalone, env.InstallMethod)
}

func TestMacOSProbeAdapter_FormulaManagerLookupCached(t *testing.T) {
	runner := newFakeRunner()
	runner.paths["python3"] = "/usr/bin/python3"
	probe := NewMacOSProbeAdapter(runner)

	_, err := probe.Probe(context.Background(), "python3")
	require.NoError(t, err)
	_, err = probe.Probe(context.Background(), "python3")
	require.NoError(t, err)

	brewLookups := 0
	for _, name := range runner.lookups {
		if name == "brew" {
			brewLookups++
		}
	}
	assert.Equal(t, 1, brewLookups)
}
