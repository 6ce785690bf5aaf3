package adapters

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depsync/internal/ports"
	"depsync/internal/shared"
	"depsync/internal/types"
)

// DnfBackendAdapter drives the Fedora-family system package manager.
// Queries go through rpm and dnf repoquery; mutations through dnf with
// name-version pins.
type DnfBackendAdapter struct {
	Runner ports.CommandRunnerPort
}

func NewDnfBackendAdapter(runner ports.CommandRunnerPort) DnfBackendAdapter {
	return DnfBackendAdapter{Runner: runner}
}

func (a DnfBackendAdapter) Backend() types.Backend {
	return types.BackendDnf
}

func (a DnfBackendAdapter) ListInstalled(ctx context.Context) (map[string]string, error) {
	stdout, stderr, err := a.Runner.Run(ctx, "rpm", "-qa", "--queryformat", "%{NAME}\t%{VERSION}\n")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("rpm listing failed").
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

func (a DnfBackendAdapter) InstalledVersion(ctx context.Context, name string) (string, error) {
	stdout, _, err := a.Runner.Run(ctx, "rpm", "-q", "--queryformat", "%{VERSION}", name)
	if err != nil {
		// rpm -q exits non-zero when the package is not installed.
		return "", nil
	}
	return strings.TrimSpace(string(stdout)), nil
}

func (a DnfBackendAdapter) LatestVersion(ctx context.Context, name string) (string, error) {
	stdout, stderr, err := a.Runner.Run(ctx, "dnf", "repoquery", "--latest-limit", "1", "--queryformat", "%{version}", name)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("dnf repoquery failed").
			WithCause(shared.CommandError(stderr, err))
	}
	return strings.TrimSpace(string(stdout)), nil
}

func (a DnfBackendAdapter) Install(ctx context.Context, name string, version string, kind types.ActionKind, force bool) error {
	verb := "install"
	if kind == types.ActionDowngrade {
		verb = "downgrade"
	}
	requirement := name
	if version != "" {
		requirement = name + "-" + version
	}
	_, stderr, err := a.Runner.Run(ctx, "dnf", verb, "-y", requirement)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("dnf " + verb + " failed for " + requirement).
			WithCause(shared.CommandError(stderr, err))
	}
	return nil
}

var _ ports.PackageBackendPort = DnfBackendAdapter{}
