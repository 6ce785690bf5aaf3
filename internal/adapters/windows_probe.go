package adapters

import (
	"context"
	"strings"

	"depsync/internal/ports"
	"depsync/internal/types"
)

// WindowsProbeAdapter inspects a windows host.  The runtime counts as
// store-managed only when its resolved path lives under WindowsApps;
// anything else, including a missing runtime, is standalone.
type WindowsProbeAdapter struct {
	Runner ports.CommandRunnerPort
}

func NewWindowsProbeAdapter(runner ports.CommandRunnerPort) WindowsProbeAdapter {
	return WindowsProbeAdapter{Runner: runner}
}

func (a WindowsProbeAdapter) OS() types.OS {
	return types.OSWindows
}

func (a WindowsProbeAdapter) Probe(ctx context.Context, runtime string) (types.Environment, error) {
	env := types.Environment{
		OS:            types.OSWindows,
		InstallMethod: types.InstallMethodStandalone,
		Backend:       types.BackendWinget,
		Runtime:       runtime,
	}
	runtimePath, err := a.Runner.LookPath(runtime)
	if err != nil {
		return env, nil
	}
	env.RuntimePath = runtimePath
	if strings.Contains(runtimePath, "WindowsApps") {
		env.InstallMethod = types.InstallMethodManagedStore
	}
	return env, nil
}

var _ ports.EnvironmentProbePort = WindowsProbeAdapter{}
