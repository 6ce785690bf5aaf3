package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depsync/internal/core"
	"depsync/internal/types"
)

// Restore reinstalls every package in a backup at its exact captured
// version. Externally managed environments still refuse without force;
// per-package failures are recorded and the restore continues.
func (s Service) Restore(ctx context.Context, req RestoreRequest) (RestoreResult, error) {
	backupPath := strings.TrimSpace(req.BackupPath)
	if backupPath == "" {
		return RestoreResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("backup path is required")
	}
	backup, err := s.Backups.Load(backupPath)
	if err != nil {
		return RestoreResult{}, err
	}
	runtimeBinary := strings.TrimSpace(backup.Runtime)
	if runtimeBinary == "" {
		runtimeBinary = defaultRuntime
	}
	env := s.detector().Detect(ctx, runtimeBinary)
	executor := core.NewInstallExecutor(s.runtimeBackend(runtimeBinary), s.System)

	result := RestoreResult{
		Runtime: runtimeBinary,
		Records: make([]types.ReconcileRecord, 0, len(backup.Packages)),
	}
	for _, entry := range backup.Packages {
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
			log.Ctx(ctx).Error().Err(applyErr).Str("package", entry.Package).Msg("restore install failed")
		case outcome == types.OutcomeApplied:
			record.Status = types.StatusMatched
			result.Restored++
		case outcome == types.OutcomeBlocked:
			result.Blocked++
		}
		result.Records = append(result.Records, record)
	}
	log.Ctx(ctx).Debug().
		Int("packages", len(result.Records)).
		Int("restored", result.Restored).
		Int("blocked", result.Blocked).
		Int("failed", result.Failed).
		Msg("restore completed")
	return result, nil
}
