package core

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"depsync/internal/ports"
	"depsync/internal/shared"
	"depsync/internal/types"
)

const DefaultResolveWorkers = 4

// VersionResolver answers "what is installed" and "what is newest" for
// declared packages. The runtime index is consulted first, then the
// OS-level backend matching the detected environment. Lookups are best
// effort: a miss or failure yields an empty version, never an error.
type VersionResolver struct {
	Runtime ports.PackageBackendPort
	System  map[types.Backend]ports.PackageBackendPort
	Workers int
}

func NewVersionResolver(runtime ports.PackageBackendPort, system map[types.Backend]ports.PackageBackendPort) VersionResolver {
	return VersionResolver{
		Runtime: runtime,
		System:  system,
	}
}

// Resolve looks up installed and latest versions for every declaration.
// The runtime index bulk listing is fetched once and shared across the
// pass; per-declaration lookups fan out on a bounded worker pool.
// Results keep declaration order.
func (r VersionResolver) Resolve(ctx context.Context, declarations []types.Declaration, env types.Environment) []types.ResolvedVersions {
	results := make([]types.ResolvedVersions, len(declarations))
	for i, declaration := range declarations {
		results[i] = types.ResolvedVersions{Package: declaration.Package}
	}
	if len(declarations) == 0 {
		return results
	}

	bulk := r.bulkInstalled(ctx)

	workerCount := r.Workers
	if workerCount <= 0 {
		workerCount = DefaultResolveWorkers
	}
	if len(declarations) < workerCount {
		workerCount = len(declarations)
	}

	sem := make(chan struct{}, workerCount)
	var wg sync.WaitGroup
	for i, declaration := range declarations {
		i, declaration := i, declaration
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			installed, installedSource := r.installedFrom(ctx, declaration.Package, env, bulk)
			latest, latestSource := r.latestFrom(ctx, declaration.Package, env)
			source := installedSource
			if source == "" {
				source = latestSource
			}
			results[i] = types.ResolvedVersions{
				Package:   declaration.Package,
				Installed: installed,
				Latest:    latest,
				Source:    source,
			}
		}()
	}
	wg.Wait()

	log.Ctx(ctx).Debug().Int("packages", len(declarations)).Msg("version resolution completed")
	return results
}

// Installed reports the installed version of a package, or empty when it
// is not installed anywhere.
func (r VersionResolver) Installed(ctx context.Context, name string, env types.Environment) string {
	version, _ := r.installedFrom(ctx, name, env, nil)
	return version
}

// Latest reports the newest version any backend offers for a package, or
// empty when none can answer.
func (r VersionResolver) Latest(ctx context.Context, name string, env types.Environment) string {
	version, _ := r.latestFrom(ctx, name, env)
	return version
}

// installedFrom walks the installed-version chain and reports which
// backend answered. A non-nil bulk map is authoritative for the runtime
// index; when it is nil the per-package runtime lookup runs instead.
func (r VersionResolver) installedFrom(ctx context.Context, name string, env types.Environment, bulk map[string]string) (string, types.Backend) {
	if bulk != nil {
		if version, ok := bulk[shared.NormalizePipName(name)]; ok && version != "" {
			return version, types.BackendPip
		}
	} else if r.Runtime != nil {
		version, err := r.Runtime.InstalledVersion(ctx, name)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("package", name).Msg("runtime index installed lookup failed")
		} else if version != "" {
			return version, types.BackendPip
		}
	}
	if system := r.System[env.Backend]; system != nil {
		version, err := system.InstalledVersion(ctx, name)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("package", name).Msg("system backend installed lookup failed")
		} else if version != "" {
			return version, env.Backend
		}
	}
	return "", ""
}

func (r VersionResolver) latestFrom(ctx context.Context, name string, env types.Environment) (string, types.Backend) {
	if r.Runtime != nil {
		version, err := r.Runtime.LatestVersion(ctx, name)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("package", name).Msg("runtime index latest lookup failed")
		} else if version != "" {
			return version, types.BackendPip
		}
	}
	if system := r.System[env.Backend]; system != nil {
		version, err := system.LatestVersion(ctx, name)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("package", name).Msg("system backend latest lookup failed")
		} else if version != "" {
			return version, env.Backend
		}
	}
	log.Ctx(ctx).Warn().Str("package", name).Msg("latest version unknown")
	return "", ""
}

func (r VersionResolver) bulkInstalled(ctx context.Context) map[string]string {
	if r.Runtime == nil {
		return nil
	}
	installed, err := r.Runtime.ListInstalled(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("runtime index bulk listing failed, using per-package lookups")
		return nil
	}
	return installed
}
