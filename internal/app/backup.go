package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depsync/internal/adapters"
	"depsync/internal/types"
)

// Backup captures the runtime's installed set into a YAML file and
// optionally prunes older backups under the retention policy.
func (s Service) Backup(ctx context.Context, req BackupRequest) (BackupResult, error) {
	var manifest types.Manifest
	if manifestPath := strings.TrimSpace(req.ManifestPath); manifestPath != "" {
		loaded, err := s.Manifests.Load(manifestPath)
		if err != nil {
			return BackupResult{}, err
		}
		manifest = loaded
	}
	runtimeBinary := runtimeBinaryFor(manifest)
	runtime := s.runtimeBackend(runtimeBinary)
	if runtime == nil {
		return BackupResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no runtime backend available")
	}
	installed, err := runtime.ListInstalled(ctx)
	if err != nil {
		return BackupResult{}, err
	}

	names := make([]string, 0, len(installed))
	for name := range installed {
		names = append(names, name)
	}
	sort.Strings(names)
	backup := types.BackupFile{
		CapturedAt: s.now().Format(time.RFC3339),
		Runtime:    runtimeBinary,
		Packages:   make([]types.BackupEntry, 0, len(names)),
	}
	for _, name := range names {
		backup.Packages = append(backup.Packages, types.BackupEntry{
			Package: name,
			Version: installed[name],
		})
	}

	backupDir := resolveBackupDir(req.BackupDir, manifest)
	path := strings.TrimSpace(req.OutputPath)
	if path == "" {
		path = filepath.Join(backupDir, fmt.Sprintf("depsync-%s%s", s.now().Format("20060102-150405"), adapters.BackupSuffix))
	}
	if err := s.Backups.Save(path, backup); err != nil {
		return BackupResult{}, err
	}
	log.Ctx(ctx).Debug().
		Str("path", path).
		Int("packages", len(backup.Packages)).
		Msg("backup captured")

	result := BackupResult{Path: path, Packages: len(backup.Packages)}
	if req.KeepLast > 0 || req.KeepDays > 0 {
		pruned, err := s.pruneBackups(ctx, backupDir, types.BackupRetentionPolicy{
			KeepLast: req.KeepLast,
			KeepDays: req.KeepDays,
			DryRun:   req.DryRun,
		})
		if err != nil {
			return result, err
		}
		result.Pruned = pruned
	}
	return result, nil
}

func (s Service) pruneBackups(ctx context.Context, dir string, policy types.BackupRetentionPolicy) ([]string, error) {
	backups, err := s.Backups.List(dir)
	if err != nil {
		return nil, err
	}
	plan := BuildBackupPrunePlan(backups, policy, s.now())
	var pruned []string
	for _, backup := range plan.Delete {
		if !policy.DryRun {
			if err := s.Backups.Delete(backup.Path); err != nil {
				return pruned, err
			}
		}
		pruned = append(pruned, backup.Path)
	}
	if len(pruned) > 0 {
		log.Ctx(ctx).Debug().
			Int("backups", len(pruned)).
			Bool("dry_run", policy.DryRun).
			Msg("backup retention applied")
	}
	return pruned, nil
}
