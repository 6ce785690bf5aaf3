package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depsync/internal/ports"
	"depsync/internal/shared"
	"depsync/internal/types"
)

// BrewBackendAdapter drives the macOS formula manager.  The manager
// tracks a single stable version per formula, so downgrades cannot be
// expressed and are rejected with guidance.
type BrewBackendAdapter struct {
	Runner ports.CommandRunnerPort
}

func NewBrewBackendAdapter(runner ports.CommandRunnerPort) BrewBackendAdapter {
	return BrewBackendAdapter{Runner: runner}
}

func (a BrewBackendAdapter) Backend() types.Backend {
	return types.BackendBrew
}

func (a BrewBackendAdapter) ListInstalled(ctx context.Context) (map[string]string, error) {
	stdout, stderr, err := a.Runner.Run(ctx, "brew", "list", "--versions")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("brew list failed").
			WithCause(shared.CommandError(stderr, err))
	}
	installed := map[string]string{}
	for _, line := range strings.Split(string(stdout), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		// Multiple installed versions are listed oldest first.
		installed[fields[0]] = fields[len(fields)-1]
	}
	return installed, nil
}

func (a BrewBackendAdapter) InstalledVersion(ctx context.Context, name string) (string, error) {
	stdout, _, err := a.Runner.Run(ctx, "brew", "list", "--versions", name)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("formula manager binary not found").
				WithCause(err)
		}
		// Non-zero exit means the formula is not installed.
		return "", nil
	}
	fields := strings.Fields(strings.TrimSpace(string(stdout)))
	if len(fields) < 2 {
		return "", nil
	}
	return fields[len(fields)-1], nil
}

func (a BrewBackendAdapter) LatestVersion(ctx context.Context, name string) (string, error) {
	stdout, stderr, err := a.Runner.Run(ctx, "brew", "info", "--json=v2", name)
	if err != nil {
		if strings.Contains(string(stderr), "No available formula") {
			return "", nil
		}
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("brew info failed").
			WithCause(shared.CommandError(stderr, err))
	}
	var info struct {
		Formulae []struct {
			Versions struct {
				Stable string `json:"stable"`
			} `json:"versions"`
		} `json:"formulae"`
	}
	if err := json.Unmarshal(stdout, &info); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse brew info output").
			WithCause(err)
	}
	if len(info.Formulae) == 0 {
		return "", nil
	}
	return info.Formulae[0].Versions.Stable, nil
}

func (a BrewBackendAdapter) Install(ctx context.Context, name string, version string, kind types.ActionKind, force bool) error {
	if kind == types.ActionDowngrade {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("formula manager cannot install a specific older version of " + name + "; extract the formula at the wanted version and install it manually")
	}
	verb := "install"
	if kind == types.ActionUpgrade {
		verb = "upgrade"
	}
	_, stderr, err := a.Runner.Run(ctx, "brew", verb, name)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("brew " + verb + " failed for " + name).
			WithCause(shared.CommandError(stderr, err))
	}
	return nil
}

var _ ports.PackageBackendPort = BrewBackendAdapter{}
