package adapters

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depsync/internal/ports"
	"depsync/internal/shared"
	"depsync/internal/types"
)

// AptBackendAdapter drives the Debian-family system package manager.
// Queries go through dpkg-query and apt-cache; mutations through
// apt-get with pinned versions.
type AptBackendAdapter struct {
	Runner ports.CommandRunnerPort
}

func NewAptBackendAdapter(runner ports.CommandRunnerPort) AptBackendAdapter {
	return AptBackendAdapter{Runner: runner}
}

func (a AptBackendAdapter) Backend() types.Backend {
	return types.BackendApt
}

func (a AptBackendAdapter) ListInstalled(ctx context.Context) (map[string]string, error) {
	stdout, stderr, err := a.Runner.Run(ctx, "dpkg-query", "-W", "-f", "${Package}\t${Version}\n")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("dpkg-query listing failed").
			WithCause(shared.CommandError(stderr, err))
	}
	installed := map[string]string{}
	for _, line := range strings.Split(string(stdout), "\n") {
		name, version, ok := strings.Cut(strings.TrimSpace(line), "\t")
		if !ok || name == "" || version == "" {
			continue
		}
		installed[name] = version
	}
	return installed, nil
}

func (a AptBackendAdapter) InstalledVersion(ctx context.Context, name string) (string, error) {
	stdout, _, err := a.Runner.Run(ctx, "dpkg-query", "-W", "-f", "${db:Status-Status}\t${Version}", name)
	if err != nil {
		// dpkg-query exits non-zero for unknown packages.
		return "", nil
	}
	status, version, ok := strings.Cut(strings.TrimSpace(string(stdout)), "\t")
	if !ok || status != "installed" {
		return "", nil
	}
	return version, nil
}

func (a AptBackendAdapter) LatestVersion(ctx context.Context, name string) (string, error) {
	stdout, stderr, err := a.Runner.Run(ctx, "apt-cache", "policy", name)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("apt-cache policy failed").
			WithCause(shared.CommandError(stderr, err))
	}
	for _, line := range strings.Split(string(stdout), "\n") {
		trimmed := strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(trimmed, "Candidate:"); ok {
			candidate := strings.TrimSpace(value)
			if candidate == "(none)" {
				return "", nil
			}
			return candidate, nil
		}
	}
	return "", nil
}

func (a AptBackendAdapter) Install(ctx context.Context, name string, version string, kind types.ActionKind, force bool) error {
	args := []string{"install", "-y"}
	if kind == types.ActionDowngrade {
		args = append(args, "--allow-downgrades")
	}
	requirement := name
	if version != "" {
		requirement = name + "=" + version
	}
	args = append(args, requirement)

	_, stderr, err := a.Runner.Run(ctx, "apt-get", args...)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("apt-get install failed for " + requirement).
			WithCause(shared.CommandError(stderr, err))
	}
	return nil
}

var _ ports.PackageBackendPort = AptBackendAdapter{}
