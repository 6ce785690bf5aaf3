package adapters

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"depsync/internal/ports"
	"depsync/internal/types"
)

// LinuxProbeAdapter inspects a linux host.  The runtime's owning
// package database decides the backend: a dpkg owner match selects the
// Debian family, an rpm owner match the Fedora family, first hit wins.
// Externally managed restriction is read from the marker file the
// runtime ships in its stdlib directory.
type LinuxProbeAdapter struct {
	Runner ports.CommandRunnerPort
}

func NewLinuxProbeAdapter(runner ports.CommandRunnerPort) LinuxProbeAdapter {
	return LinuxProbeAdapter{Runner: runner}
}

func (a LinuxProbeAdapter) OS() types.OS {
	return types.OSLinux
}

func (a LinuxProbeAdapter) Probe(ctx context.Context, runtime string) (types.Environment, error) {
	env := types.Environment{
		OS:            types.OSLinux,
		InstallMethod: types.InstallMethodStandalone,
		Backend:       a.defaultBackend(),
		Runtime:       runtime,
	}

	runtimePath, err := a.Runner.LookPath(runtime)
	if err != nil {
		return env, nil
	}
	if resolved, err := filepath.EvalSymlinks(runtimePath); err == nil {
		runtimePath = resolved
	}
	env.RuntimePath = runtimePath

	if _, _, err := a.Runner.Run(ctx, "dpkg", "-S", runtimePath); err == nil {
		env.InstallMethod = types.InstallMethodSystemPackageManager
		env.Backend = types.BackendApt
	} else if _, _, err := a.Runner.Run(ctx, "rpm", "-qf", runtimePath); err == nil {
		env.InstallMethod = types.InstallMethodSystemPackageManager
		env.Backend = types.BackendDnf
	}

	env.ExternallyManaged = a.externallyManaged(ctx, runtime)
	return env, nil
}

// externallyManaged checks for the marker file defined by PEP 668 in
// the runtime's stdlib directory.
func (a LinuxProbeAdapter) externallyManaged(ctx context.Context, runtime string) bool {
	stdout, _, err := a.Runner.Run(ctx, runtime, "-c", "import sysconfig; print(sysconfig.get_path('stdlib'))")
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("stdlib path query failed")
		return false
	}
	stdlib := strings.TrimSpace(string(stdout))
	if stdlib == "" {
		return false
	}
	_, err = os.Stat(filepath.Join(stdlib, "EXTERNALLY-MANAGED"))
	return err == nil
}

func (a LinuxProbeAdapter) defaultBackend() types.Backend {
	if _, err := a.Runner.LookPath("dpkg"); err == nil {
		return types.BackendApt
	}
	if _, err := a.Runner.LookPath("rpm"); err == nil {
		return types.BackendDnf
	}
	return types.BackendApt
}

var _ ports.EnvironmentProbePort = LinuxProbeAdapter{}
