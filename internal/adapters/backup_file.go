package adapters

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"depsync/internal/ports"
	"depsync/internal/types"
)

const BackupSuffix = ".backup.yaml"

// BackupFileAdapter stores installed-set snapshots as YAML files in a
// backup directory, one file per capture.
type BackupFileAdapter struct{}

func NewBackupFileAdapter() BackupFileAdapter {
	return BackupFileAdapter{}
}

func (a BackupFileAdapter) Load(path string) (types.BackupFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.BackupFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("backup file not found").
			WithCause(err)
	}
	var backup types.BackupFile
	if err := yaml.Unmarshal(data, &backup); err != nil {
		return types.BackupFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse backup yaml").
			WithCause(err)
	}
	return backup, nil
}

func (a BackupFileAdapter) Save(path string, backup types.BackupFile) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("backup path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create backup directory").
			WithCause(err)
	}
	data, err := yaml.Marshal(backup)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to render backup yaml").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write backup file").
			WithCause(err)
	}
	return nil
}

func (a BackupFileAdapter) List(dir string) ([]types.BackupInfo, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("backup directory is empty")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.BackupInfo{}, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read backup directory").
			WithCause(err)
	}
	var backups []types.BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, BackupSuffix) {
			continue
		}
		path := filepath.Join(dir, name)
		capturedAt := a.capturedAt(path)
		if capturedAt.IsZero() {
			info, err := entry.Info()
			if err != nil {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("failed to read backup info").
					WithCause(err)
			}
			capturedAt = info.ModTime().UTC()
		}
		backups = append(backups, types.BackupInfo{
			Path:       path,
			CapturedAt: capturedAt,
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		if backups[i].CapturedAt.Equal(backups[j].CapturedAt) {
			return backups[i].Path < backups[j].Path
		}
		return backups[i].CapturedAt.Before(backups[j].CapturedAt)
	})
	return backups, nil
}

func (a BackupFileAdapter) Delete(path string) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("backup path is empty")
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("backup not found")
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to delete backup").
			WithCause(err)
	}
	return nil
}

// capturedAt reads the captured_at stamp out of a backup file; a zero
// time tells the caller to fall back to the file mtime.
func (a BackupFileAdapter) capturedAt(path string) time.Time {
	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}
	}
	var backup types.BackupFile
	if err := yaml.Unmarshal(data, &backup); err != nil {
		return time.Time{}
	}
	return parseTimeFlexible(backup.CapturedAt)
}

var _ ports.BackupPort = BackupFileAdapter{}
