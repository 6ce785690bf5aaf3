package ports

import (
	"context"

	"depsync/internal/types"
)

// PackageBackendPort abstracts one package manager.  Query methods
// return empty strings for absent or unknown versions; only transport
// failures (binary missing, subprocess error) surface as errors.
type PackageBackendPort interface {
	Backend() types.Backend

	// ListInstalled returns every installed package and its version in
	// one subprocess, keyed by normalized name.  Backends that cannot
	// enumerate cheaply may return an error; callers fall back to
	// per-package InstalledVersion calls.
	ListInstalled(ctx context.Context) (map[string]string, error)

	InstalledVersion(ctx context.Context, name string) (string, error)
	LatestVersion(ctx context.Context, name string) (string, error)

	// Install brings the package to the given version.  kind selects
	// the manager verb (install, upgrade, downgrade); force appends the
	// backend's documented override for externally managed installs.
	Install(ctx context.Context, name string, version string, kind types.ActionKind, force bool) error
}
