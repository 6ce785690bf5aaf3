package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depsync/internal/types"
)

func TestWindowsProbeAdapter_ManagedStoreDefault(t *testing.T) {
	runner := newFakeRunner()
	runner.paths["python3"] = `C:\Users\u\AppData\Local\Microsoft\WindowsApps\python3.exe`
	probe := NewWindowsProbeAdapter(runner)

	env, err := probe.Probe(context.Background(), "python3")
	require.NoError(t, err)
	assert.Equal(t, types.OSWindows, env.OS)
	assert.Equal(t, types.BackendWinget, env.Backend)
	assert.Equal(t, types.InstallMethodManagedStore, env.InstallMethod)
	assert.False(t, env.ExternallyManaged)
}

func TestWindowsProbeAdapter_StandaloneInstall(t *testing.T) {
	runner := newFakeRunner()
	runner.paths["python3"] = `C:\Python312\python3.exe`
	probe := NewWindowsProbeAdapter(runner)

	env, err := probe.Probe(context.Background(), "python3")
	require.NoError(t, err)
	assert.Equal(t, types.InstallMethodStandalone, env.InstallMethod)
}

func TestWindowsProbeAdapter_MissingRuntimeIsStandalone(t *testing.T) {
	runner := newFakeRunner()
	probe := NewWindowsProbeAdapter(runner)

	env, err := probe.Probe(context.Background(), "python3")
	require.NoError(t, err)
	assert.Empty(t, env.RuntimePath)
	assert.Equal(t, types.InstallMethodStandalone, env.InstallMethod)
}
