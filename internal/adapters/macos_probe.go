package adapters

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"depsync/internal/ports"
	"depsync/internal/types"
)

// MacOSProbeAdapter inspects a darwin host.  The formula manager
// lookup is cached for the process lifetime so repeated passes do not
// spawn redundant subprocesses.
type MacOSProbeAdapter struct {
	Runner ports.CommandRunnerPort

	brewOnce  sync.Once
	brewPath  string
	brewFound bool
}

func NewMacOSProbeAdapter(runner ports.CommandRunnerPort) *MacOSProbeAdapter {
	return &MacOSProbeAdapter{Runner: runner}
}

func (a *MacOSProbeAdapter) OS() types.OS {
	return types.OSDarwin
}

func (a *MacOSProbeAdapter) Probe(ctx context.Context, runtime string) (types.Environment, error) {
	env := types.Environment{
		OS:            types.OSDarwin,
		InstallMethod: types.InstallMethodStandalone,
		Backend:       types.BackendBrew,
		Runtime:       runtime,
	}

	a.brewOnce.Do(func() {
		path, err := a.Runner.LookPath("brew")
		a.brewPath = path
		a.brewFound = err == nil
	})
	env.FormulaManagerAvailable = a.brewFound

	runtimePath, err := a.Runner.LookPath(runtime)
	if err != nil {
		return env, nil
	}
	if resolved, err := filepath.EvalSymlinks(runtimePath); err == nil {
		runtimePath = resolved
	}
	env.RuntimePath = runtimePath

	if !a.brewFound {
		return env, nil
	}

	prefixOut, _, err := a.Runner.Run(ctx, "brew", "--prefix")
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("formula manager prefix query failed")
		return env, nil
	}
	prefix := strings.TrimSpace(string(prefixOut))
	if prefix != "" && strings.HasPrefix(runtimePath, prefix+string(filepath.Separator)) {
		env.InstallMethod = types.InstallMethodSystemPackageManager
		env.ExternallyManaged = true
	}
	return env, nil
}

var _ ports.EnvironmentProbePort = (*MacOSProbeAdapter)(nil)
