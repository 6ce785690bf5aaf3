package ports

import "depsync/internal/types"

type BackupPort interface {
	Load(path string) (types.BackupFile, error)
	Save(path string, backup types.BackupFile) error
	List(dir string) ([]types.BackupInfo, error)
	Delete(path string) error
}
