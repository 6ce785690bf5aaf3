package app

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"depsync/internal/types"
)

const defaultRuntime = "python3"

// Path precedence is flag value, then manifest default, then the XDG
// data directory.
func resolveLedgerPath(explicit string, manifest types.Manifest) string {
	if path := strings.TrimSpace(explicit); path != "" {
		return path
	}
	if path := strings.TrimSpace(manifest.Defaults.Ledger); path != "" {
		return path
	}
	return filepath.Join(xdg.DataHome, "depsync", "installed.yaml")
}

func resolveBackupDir(explicit string, manifest types.Manifest) string {
	if dir := strings.TrimSpace(explicit); dir != "" {
		return dir
	}
	if dir := strings.TrimSpace(manifest.Defaults.BackupDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.DataHome, "depsync", "backups")
}

func runtimeBinaryFor(manifest types.Manifest) string {
	if runtime := strings.TrimSpace(manifest.Runtime); runtime != "" {
		return runtime
	}
	return defaultRuntime
}
