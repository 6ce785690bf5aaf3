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

// PipBackendAdapter drives the runtime package index through the
// runtime binary (`<runtime> -m pip ...`).  Package names are matched
// after PEP 503 normalization on both sides.
type PipBackendAdapter struct {
	Runner  ports.CommandRunnerPort
	Runtime string
}

func NewPipBackendAdapter(runner ports.CommandRunnerPort, runtime string) PipBackendAdapter {
	if runtime == "" {
		runtime = "python3"
	}
	return PipBackendAdapter{Runner: runner, Runtime: runtime}
}

func (a PipBackendAdapter) Backend() types.Backend {
	return types.BackendPip
}

func (a PipBackendAdapter) ListInstalled(ctx context.Context) (map[string]string, error) {
	stdout, stderr, err := a.Runner.Run(ctx, a.Runtime, "-m", "pip", "list", "--format=json", "--disable-pip-version-check")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("pip list failed").
			WithCause(shared.CommandError(stderr, err))
	}
	var rows []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(stdout, &rows); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse pip list output").
			WithCause(err)
	}
	installed := make(map[string]string, len(rows))
	for _, row := range rows {
		installed[shared.NormalizePipName(row.Name)] = row.Version
	}
	return installed, nil
}

func (a PipBackendAdapter) InstalledVersion(ctx context.Context, name string) (string, error) {
	normalized := shared.NormalizePipName(name)
	stdout, stderr, err := a.Runner.Run(ctx, a.Runtime, "-m", "pip", "show", normalized)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("runtime binary not found: " + a.Runtime).
				WithCause(err)
		}
		// pip show exits non-zero when the package is absent.
		if strings.Contains(strings.ToLower(string(stderr)), "not found") {
			return "", nil
		}
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("pip show failed").
			WithCause(shared.CommandError(stderr, err))
	}
	for _, line := range strings.Split(string(stdout), "\n") {
		if value, ok := strings.CutPrefix(line, "Version:"); ok {
			return strings.TrimSpace(value), nil
		}
	}
	return "", nil
}

func (a PipBackendAdapter) LatestVersion(ctx context.Context, name string) (string, error) {
	normalized := shared.NormalizePipName(name)
	stdout, stderr, err := a.Runner.Run(ctx, a.Runtime, "-m", "pip", "index", "versions", normalized, "--disable-pip-version-check")
	if err != nil {
		if strings.Contains(strings.ToLower(string(stderr)), "no matching distribution") {
			return "", nil
		}
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("pip index versions failed").
			WithCause(shared.CommandError(stderr, err))
	}
	return parsePipIndexVersions(string(stdout)), nil
}

func (a PipBackendAdapter) Install(ctx context.Context, name string, version string, kind types.ActionKind, force bool) error {
	normalized := shared.NormalizePipName(name)
	args := []string{"-m", "pip", "install", "--disable-pip-version-check"}
	if kind == types.ActionUpgrade && version == "" {
		args = append(args, "--upgrade")
	}
	if force {
		args = append(args, "--break-system-packages")
	}
	requirement := normalized
	if version != "" {
		requirement = normalized + "==" + version
	}
	args = append(args, requirement)

	_, stderr, err := a.Runner.Run(ctx, a.Runtime, args...)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("pip install failed for " + requirement).
			WithCause(shared.CommandError(stderr, err))
	}
	return nil
}

// parsePipIndexVersions extracts the newest version from `pip index
// versions` output, preferring the explicit LATEST line over the
// available-versions list.
func parsePipIndexVersions(output string) string {
	available := ""
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(trimmed, "LATEST:"); ok {
			return strings.TrimSpace(value)
		}
		if value, ok := strings.CutPrefix(trimmed, "Available versions:"); ok {
			parts := strings.Split(value, ",")
			if len(parts) > 0 {
				available = strings.TrimSpace(parts[0])
			}
		}
	}
	return available
}

var _ ports.PackageBackendPort = PipBackendAdapter{}
