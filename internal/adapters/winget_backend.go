package adapters

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depsync/internal/ports"
	"depsync/internal/shared"
	"depsync/internal/types"
)

// WingetBackendAdapter drives the Windows package service.  Packages
// are addressed by exact identifier; list output is matched on the id
// column because the service has no machine-readable query format.
type WingetBackendAdapter struct {
	Runner ports.CommandRunnerPort
}

func NewWingetBackendAdapter(runner ports.CommandRunnerPort) WingetBackendAdapter {
	return WingetBackendAdapter{Runner: runner}
}

func (a WingetBackendAdapter) Backend() types.Backend {
	return types.BackendWinget
}

func (a WingetBackendAdapter) ListInstalled(ctx context.Context) (map[string]string, error) {
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("winget has no stable bulk listing format")
}

func (a WingetBackendAdapter) InstalledVersion(ctx context.Context, name string) (string, error) {
	stdout, _, err := a.Runner.Run(ctx, "winget", "list", "--exact", "--id", name, "--disable-interactivity")
	if err != nil {
		// winget exits non-zero when no installed package matches.
		return "", nil
	}
	return parseWingetColumn(string(stdout), name), nil
}

func (a WingetBackendAdapter) LatestVersion(ctx context.Context, name string) (string, error) {
	stdout, stderr, err := a.Runner.Run(ctx, "winget", "show", "--exact", "--id", name, "--disable-interactivity")
	if err != nil {
		if strings.Contains(string(stdout)+string(stderr), "No package found") {
			return "", nil
		}
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("winget show failed").
			WithCause(shared.CommandError(stderr, err))
	}
	for _, line := range strings.Split(string(stdout), "\n") {
		trimmed := strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(trimmed, "Version:"); ok {
			return strings.TrimSpace(value), nil
		}
	}
	return "", nil
}

func (a WingetBackendAdapter) Install(ctx context.Context, name string, version string, kind types.ActionKind, force bool) error {
	verb := "install"
	if kind == types.ActionUpgrade {
		verb = "upgrade"
	}
	args := []string{verb, "--exact", "--id", name, "--silent", "--accept-package-agreements", "--accept-source-agreements"}
	if version != "" {
		args = append(args, "--version", version)
	}
	if kind == types.ActionDowngrade || force {
		args = append(args, "--force")
	}
	_, stderr, err := a.Runner.Run(ctx, "winget", args...)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("winget " + verb + " failed for " + name).
			WithCause(shared.CommandError(stderr, err))
	}
	return nil
}

// parseWingetColumn pulls the version column out of winget's table
// output for the row whose id column matches exactly.
func parseWingetColumn(output string, id string) string {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		for i, field := range fields {
			if strings.EqualFold(field, id) && i+1 < len(fields) {
				return fields[i+1]
			}
		}
	}
	return ""
}

var _ ports.PackageBackendPort = WingetBackendAdapter{}
