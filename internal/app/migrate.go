package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depsync/internal/core"
	"depsync/internal/shared"
	"depsync/internal/types"
)

// Migrate replays a backup onto the current runtime, skipping entries
// that are already installed at the captured version. Meant for moving
// an installed set onto a rebuilt or upgraded runtime.
func (s Service) Migrate(ctx context.Context, req MigrateRequest) (MigrateResult, error) {
	backupPath := strings.TrimSpace(req.BackupPath)
	if backupPath == "" {
		return MigrateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("backup path is required")
	}
	backup, err := s.Backups.Load(backupPath)
	if err != nil {
		return MigrateResult{}, err
	}
	runtimeBinary := strings.TrimSpace(backup.Runtime)
	if runtimeBinary == "" {
		runtimeBinary = defaultRuntime
	}
	env := s.detector().Detect(ctx, runtimeBinary)
	runtime := s.runtimeBackend(runtimeBinary)
	executor := core.NewInstallExecutor(runtime, s.System)

	present := map[string]string{}
	if runtime != nil {
		listed, listErr := runtime.ListInstalled(ctx)
		if listErr != nil {
			log.Ctx(ctx).Warn().Err(listErr).Msg("runtime listing failed, migrating every entry")
		} else {
			present = listed
		}
	}

	result := MigrateResult{
		Runtime: runtimeBinary,
		Records: make([]types.ReconcileRecord, 0, len(backup.Packages)),
	}
	for _, entry := range backup.Packages {
		if version, ok := present[shared.NormalizePipName(entry.Package)]; ok && version == entry.Version {
			result.Skipped++
			result.Records = append(result.Records, types.ReconcileRecord{
				Package: entry.Package,
				Status:  types.StatusMatched,
				Action:  types.Action{Kind: types.ActionNone},
				Outcome: types.OutcomeUnchanged,
				Detail:  "already at backed-up version",
			})
			continue
		}
		action := types.Action{Kind: types.ActionInstall, Version: entry.Version}
		record := types.ReconcileRecord{Package: entry.Package, Action: action}
		outcome, detail, applyErr := executor.Apply(ctx, entry.Package, action, env, req.Force)
		record.Outcome = outcome
		record.Detail = detail
		switch {
		case applyErr != nil:
			record.Status = types.StatusFailed
			record.Detail = applyErr.Error()
			result.Failed++
			log.Ctx(ctx).Error().Err(applyErr).Str("package", entry.Package).Msg("migrate install failed")
		case outcome == types.OutcomeApplied:
			record.Status = types.StatusMatched
			result.Installed++
		case outcome == types.OutcomeBlocked:
			result.Blocked++
		}
		result.Records = append(result.Records, record)
	}
	log.Ctx(ctx).Debug().
		Int("packages", len(result.Records)).
		Int("installed", result.Installed).
		Int("skipped", result.Skipped).
		Int("blocked", result.Blocked).
		Int("failed", result.Failed).
		Msg("migrate completed")
	return result, nil
}
