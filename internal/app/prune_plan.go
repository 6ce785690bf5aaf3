package app

import (
	"sort"
	"time"

	"depsync/internal/types"
)

// BuildBackupPrunePlan decides which backup files survive the
// retention policy. A backup is kept when either rule wants it; a
// policy with no limits keeps everything.
func BuildBackupPrunePlan(backups []types.BackupInfo, policy types.BackupRetentionPolicy, now time.Time) types.BackupPrunePlan {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	normalized := policy
	if normalized.KeepLast < 0 {
		normalized.KeepLast = 0
	}
	if normalized.KeepDays < 0 {
		normalized.KeepDays = 0
	}
	if normalized.KeepLast == 0 && normalized.KeepDays == 0 {
		return types.BackupPrunePlan{Keep: append([]types.BackupInfo(nil), backups...)}
	}

	keepPaths := map[string]struct{}{}
	if normalized.KeepDays > 0 {
		cutoff := now.AddDate(0, 0, -normalized.KeepDays)
		for _, backup := range backups {
			if !backup.CapturedAt.IsZero() && !backup.CapturedAt.Before(cutoff) {
				keepPaths[backup.Path] = struct{}{}
			}
		}
	}
	if normalized.KeepLast > 0 {
		sorted := append([]types.BackupInfo(nil), backups...)
		sort.Slice(sorted, func(i, j int) bool {
			if !sorted[i].CapturedAt.Equal(sorted[j].CapturedAt) {
				return sorted[i].CapturedAt.After(sorted[j].CapturedAt)
			}
			return sorted[i].Path < sorted[j].Path
		})
		limit := normalized.KeepLast
		if limit > len(sorted) {
			limit = len(sorted)
		}
		for i := 0; i < limit; i++ {
			keepPaths[sorted[i].Path] = struct{}{}
		}
	}

	plan := types.BackupPrunePlan{}
	for _, backup := range backups {
		if _, ok := keepPaths[backup.Path]; ok {
			plan.Keep = append(plan.Keep, backup)
		} else {
			plan.Delete = append(plan.Delete, backup)
		}
	}
	return plan
}
