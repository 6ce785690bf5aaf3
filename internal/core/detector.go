package core

import (
	"context"
	"runtime"

	"github.com/rs/zerolog/log"

	"depsync/internal/ports"
	"depsync/internal/types"
)

// Detector resolves the host environment once per pass.  Probes are
// registered per operating system and dispatch is a table lookup; a
// probe failure degrades to a conservative standalone default instead
// of failing the pass.
type Detector struct {
	probes map[types.OS]ports.EnvironmentProbePort

	// GOOS is swappable for tests.
	GOOS func() string
}

func NewDetector(probes ...ports.EnvironmentProbePort) Detector {
	table := make(map[types.OS]ports.EnvironmentProbePort, len(probes))
	for _, probe := range probes {
		table[probe.OS()] = probe
	}
	return Detector{
		probes: table,
		GOOS:   func() string { return runtime.GOOS },
	}
}

func (d Detector) Detect(ctx context.Context, runtimeBinary string) types.Environment {
	hostOS := currentOS(d.GOOS())
	probe, ok := d.probes[hostOS]
	if !ok {
		log.Ctx(ctx).Debug().Str("os", string(hostOS)).Msg("no probe registered, using standalone default")
		return fallbackEnvironment(hostOS, runtimeBinary)
	}
	env, err := probe.Probe(ctx, runtimeBinary)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("os", string(hostOS)).Msg("environment probe failed, using standalone default")
		return fallbackEnvironment(hostOS, runtimeBinary)
	}
	log.Ctx(ctx).Debug().
		Str("os", string(env.OS)).
		Str("install_method", string(env.InstallMethod)).
		Str("backend", string(env.Backend)).
		Bool("externally_managed", env.ExternallyManaged).
		Msg("environment detected")
	return env
}

func currentOS(goos string) types.OS {
	switch goos {
	case "darwin":
		return types.OSDarwin
	case "windows":
		return types.OSWindows
	default:
		return types.OSLinux
	}
}

func fallbackEnvironment(hostOS types.OS, runtimeBinary string) types.Environment {
	env := types.Environment{
		OS:            hostOS,
		InstallMethod: types.InstallMethodStandalone,
		Runtime:       runtimeBinary,
	}
	switch hostOS {
	case types.OSDarwin:
		env.Backend = types.BackendBrew
	case types.OSWindows:
		env.Backend = types.BackendWinget
	default:
		env.Backend = types.BackendApt
	}
	return env
}
