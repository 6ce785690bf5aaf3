package app

import "depsync/internal/types"

type ValidateRequest struct {
	ManifestPath string
}

type ValidateResult struct {
	ManifestName string
	Dependencies int
}

type ReconcileRequest struct {
	ManifestPath string
	LedgerPath   string
	Force        bool
	Workers      int
}

type ReconcileResult struct {
	ManifestName string
	Environment  types.Environment
	Records      []types.ReconcileRecord
	LedgerPath   string
	Applied      int
	Blocked      int
	Failed       int
}

type StatusRequest struct {
	ManifestPath string
	LedgerPath   string
}

type StatusResult struct {
	ManifestName string
	UpdatedAt    string
	Entries      []types.LedgerEntry
	Orphans      []types.LedgerEntry
}

type EnvRequest struct {
	ManifestPath string
	Runtime      string
}

type EnvResult struct {
	Environment types.Environment
}

type BackupRequest struct {
	ManifestPath string
	OutputPath   string
	BackupDir    string
	KeepLast     int
	KeepDays     int
	DryRun       bool
}

type BackupResult struct {
	Path     string
	Packages int
	Pruned   []string
}

type RestoreRequest struct {
	BackupPath string
	Force      bool
}

type RestoreResult struct {
	Runtime  string
	Records  []types.ReconcileRecord
	Restored int
	Blocked  int
	Failed   int
}

type MigrateRequest struct {
	BackupPath string
	Force      bool
}

type MigrateResult struct {
	Runtime   string
	Records   []types.ReconcileRecord
	Installed int
	Skipped   int
	Blocked   int
	Failed    int
}
