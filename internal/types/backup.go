package types

import "time"

type BackupEntry struct {
	Package string `yaml:"package"`
	Version string `yaml:"version"`
}

type BackupFile struct {
	CapturedAt string        `yaml:"captured_at"`
	Runtime    string        `yaml:"runtime"`
	Packages   []BackupEntry `yaml:"packages"`
}

type BackupInfo struct {
	Path       string
	CapturedAt time.Time
}

type BackupRetentionPolicy struct {
	KeepLast int
	KeepDays int
	DryRun   bool
}

type BackupPrunePlan struct {
	Keep   []BackupInfo
	Delete []BackupInfo
}
