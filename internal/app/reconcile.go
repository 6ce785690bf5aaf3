package app

import (
	"context"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depsync/internal/adapters"
	"depsync/internal/core"
	"depsync/internal/policies"
	"depsync/internal/shared"
	"depsync/internal/types"
)

// Reconcile runs one full pass: detect the environment, resolve
// installed and latest versions, decide per-package actions, apply them
// serially and persist the ledger. Per-package failures are recorded
// and the pass continues; only configuration and ledger errors abort.
func (s Service) Reconcile(ctx context.Context, req ReconcileRequest) (ReconcileResult, error) {
	manifestPath := strings.TrimSpace(req.ManifestPath)
	if manifestPath == "" {
		return ReconcileResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}
	manifest, err := s.Manifests.Load(manifestPath)
	if err != nil {
		return ReconcileResult{}, err
	}
	checker := core.NewManifestChecker()
	if err := checker.Validate(ctx, manifest); err != nil {
		return ReconcileResult{}, err
	}

	runtimeBinary := runtimeBinaryFor(manifest)
	ledgerPath := resolveLedgerPath(req.LedgerPath, manifest)

	env := s.detector().Detect(ctx, runtimeBinary)
	runtime := s.runtimeBackend(runtimeBinary)
	resolver := core.NewVersionResolver(runtime, s.System)
	resolver.Workers = resolveWorkers(req.Workers, manifest)
	executor := core.NewInstallExecutor(runtime, s.System)
	comparators := comparatorSet{}

	resolved := resolver.Resolve(ctx, manifest.Dependencies, env)

	result := ReconcileResult{
		ManifestName: manifest.Metadata.Name,
		Environment:  env,
		LedgerPath:   ledgerPath,
		Records:      make([]types.ReconcileRecord, 0, len(manifest.Dependencies)),
	}
	for i, declaration := range manifest.Dependencies {
		source := compareSource(resolved[i].Source, env, runtime != nil)
		policy := policies.NewCompliancePolicy(comparators.compareFor(source))
		decision := policy.Decide(declaration, resolved[i])
		if decision.Status == types.StatusOutdated && declaration.Version.Policy == types.VersionPolicyRestricted {
			log.Ctx(ctx).Warn().
				Str("package", declaration.Package).
				Str("installed", resolved[i].Installed).
				Str("target", declaration.Version.Target).
				Msg("package is behind target, restricted policy declines the upgrade")
		}

		record := types.ReconcileRecord{
			Package: declaration.Package,
			Status:  decision.Status,
			Action:  decision.Action,
			Detail:  decision.Reason,
		}
		outcome, detail, applyErr := executor.Apply(ctx, declaration.Package, decision.Action, env, req.Force)
		record.Outcome = outcome
		if detail != "" {
			record.Detail = detail
		}
		switch {
		case applyErr != nil:
			record.Status = types.StatusFailed
			record.Detail = applyErr.Error()
			result.Failed++
			log.Ctx(ctx).Error().Err(applyErr).Str("package", declaration.Package).Msg("install action failed")
		case outcome == types.OutcomeApplied:
			result.Applied++
		case outcome == types.OutcomeBlocked:
			result.Blocked++
		}
		result.Records = append(result.Records, record)
	}

	previous, err := s.Ledger.Load(ledgerPath)
	if err != nil {
		return ReconcileResult{}, err
	}
	ledger := buildLedger(s.now(), manifest.Dependencies, resolved, result.Records, previous)
	if err := s.Ledger.Save(ledgerPath, ledger); err != nil {
		return ReconcileResult{}, err
	}

	log.Ctx(ctx).Debug().
		Str("manifest", result.ManifestName).
		Int("packages", len(result.Records)).
		Int("applied", result.Applied).
		Int("blocked", result.Blocked).
		Int("failed", result.Failed).
		Msg("reconciliation pass completed")
	return result, nil
}

// buildLedger mirrors the pass into ledger entries, carrying over
// entries for packages no longer declared.
func buildLedger(now time.Time, declarations []types.Declaration, resolved []types.ResolvedVersions, records []types.ReconcileRecord, previous types.LedgerFile) types.LedgerFile {
	entries := make([]types.LedgerEntry, 0, len(declarations))
	declared := map[string]struct{}{}
	for i, declaration := range declarations {
		declared[shared.NormalizePipName(declaration.Package)] = struct{}{}
		installed := resolved[i].Installed
		if records[i].Outcome == types.OutcomeApplied && records[i].Action.Version != "" {
			installed = records[i].Action.Version
		}
		entries = append(entries, types.LedgerEntry{
			Package:   declaration.Package,
			Policy:    declaration.Version.Policy,
			Target:    declaration.Version.Target,
			Installed: installed,
			Latest:    resolved[i].Latest,
			Status:    records[i].Status,
		})
	}
	for _, entry := range previous.Entries {
		if _, ok := declared[shared.NormalizePipName(entry.Package)]; ok {
			continue
		}
		entries = append(entries, entry)
	}
	return types.LedgerFile{
		APIVersion: adapters.LedgerAPIVersion,
		UpdatedAt:  now.Format(time.RFC3339),
		Entries:    entries,
	}
}

type comparatorSet map[types.Backend]*core.VersionComparator

func (c comparatorSet) compareFor(backend types.Backend) policies.CompareFunc {
	comparator, ok := c[backend]
	if !ok {
		comparator = core.NewVersionComparator(backend)
		c[backend] = comparator
	}
	return comparator.Compare
}

// compareSource picks the ordering family for a package: the backend
// that answered resolution, else the backend the executor would use.
func compareSource(source types.Backend, env types.Environment, runtimeAvailable bool) types.Backend {
	if source != "" {
		return source
	}
	if runtimeAvailable && env.RuntimePath != "" {
		return types.BackendPip
	}
	return env.Backend
}

func resolveWorkers(requested int, manifest types.Manifest) int {
	if requested > 0 {
		return requested
	}
	if manifest.Defaults.Workers > 0 {
		return manifest.Defaults.Workers
	}
	return 0
}
