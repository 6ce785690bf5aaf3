package core

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depsync/internal/ports"
	"depsync/internal/types"
)

// InstallExecutor applies a single reconciliation decision through the
// backend that mirrors the resolver's priority: the runtime index when
// the runtime binary resolved, otherwise the OS-level backend for the
// detected environment.
type InstallExecutor struct {
	Runtime ports.PackageBackendPort
	System  map[types.Backend]ports.PackageBackendPort
}

func NewInstallExecutor(runtime ports.PackageBackendPort, system map[types.Backend]ports.PackageBackendPort) InstallExecutor {
	return InstallExecutor{
		Runtime: runtime,
		System:  system,
	}
}

// Apply executes the action for one package. Action none never spawns a
// subprocess. When the environment is externally managed and force is
// off, the executor refuses to mutate it and returns a blocked outcome
// whose detail holds the manual command an operator can run instead.
func (e InstallExecutor) Apply(ctx context.Context, name string, action types.Action, env types.Environment, force bool) (types.Outcome, string, error) {
	if action.Kind == types.ActionNone {
		return types.OutcomeUnchanged, "", nil
	}

	backend := e.backendFor(env)
	if backend == nil {
		return types.OutcomeFailed, "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("no install backend available for %s on %s", name, env.OS))
	}

	if env.ExternallyManaged && !force {
		manual := manualInstallCommand(backend.Backend(), env.Runtime, name, action)
		log.Ctx(ctx).Warn().
			Str("package", name).
			Str("manual_command", manual).
			Msg("environment is externally managed, refusing to modify it")
		return types.OutcomeBlocked, fmt.Sprintf("externally managed environment, run manually: %s", manual), nil
	}

	if err := backend.Install(ctx, name, action.Version, action.Kind, force); err != nil {
		return types.OutcomeFailed, "", err
	}

	log.Ctx(ctx).Debug().
		Str("package", name).
		Str("action", string(action.Kind)).
		Str("version", action.Version).
		Str("backend", string(backend.Backend())).
		Msg("action applied")
	return types.OutcomeApplied, "", nil
}

func (e InstallExecutor) backendFor(env types.Environment) ports.PackageBackendPort {
	if e.Runtime != nil && env.RuntimePath != "" {
		return e.Runtime
	}
	return e.System[env.Backend]
}

// manualInstallCommand renders the command an operator can run by hand
// when the executor refuses to touch an externally managed environment.
func manualInstallCommand(backend types.Backend, runtime, name string, action types.Action) string {
	switch backend {
	case types.BackendPip:
		if runtime == "" {
			runtime = "python3"
		}
		return fmt.Sprintf("%s -m pip install --break-system-packages %s==%s", runtime, name, action.Version)
	case types.BackendBrew:
		if action.Kind == types.ActionUpgrade {
			return fmt.Sprintf("brew upgrade %s", name)
		}
		return fmt.Sprintf("brew install %s", name)
	case types.BackendApt:
		if action.Kind == types.ActionDowngrade {
			return fmt.Sprintf("apt-get install -y --allow-downgrades %s=%s", name, action.Version)
		}
		return fmt.Sprintf("apt-get install -y %s=%s", name, action.Version)
	case types.BackendDnf:
		if action.Kind == types.ActionDowngrade {
			return fmt.Sprintf("dnf downgrade -y %s-%s", name, action.Version)
		}
		return fmt.Sprintf("dnf install -y %s-%s", name, action.Version)
	case types.BackendWinget:
		return fmt.Sprintf("winget install --exact --id %s --version %s", name, action.Version)
	default:
		return fmt.Sprintf("install %s %s manually", name, action.Version)
	}
}
