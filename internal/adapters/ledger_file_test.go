package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depsync/internal/types"
)

func TestLedgerFileAdapter_SaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state", "installed.yaml")
	ledger := types.LedgerFile{
		APIVersion: LedgerAPIVersion,
		UpdatedAt:  "2026-08-20T12:00:00Z",
		Entries: []types.LedgerEntry{
			{
				Package:   "requests",
				Policy:    types.VersionPolicyLatest,
				Target:    "2.31.0",
				Installed: "2.31.0",
				Latest:    "2.31.0",
				Status:    types.StatusLatest,
			},
			{
				Package:   "numpy",
				Policy:    types.VersionPolicyRestricted,
				Target:    "1.26.4",
				Installed: "1.24.0",
				Status:    types.StatusOutdated,
			},
		},
	}

	adapter := NewLedgerFileAdapter()
	require.NoError(t, adapter.Save(path, ledger))

	loaded, err := adapter.Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(ledger, loaded); diff != "" {
		t.Fatalf("ledger mismatch (-want +got):\n%s", diff)
	}
}

func TestLedgerFileAdapter_SaveCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deep", "nested", "installed.yaml")

	require.NoError(t, NewLedgerFileAdapter().Save(path, types.LedgerFile{APIVersion: LedgerAPIVersion}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestLedgerFileAdapter_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "installed.yaml")

	require.NoError(t, NewLedgerFileAdapter().Save(path, types.LedgerFile{APIVersion: LedgerAPIVersion}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "installed.yaml", entries[0].Name())
}

func TestLedgerFileAdapter_LoadMissingFile(t *testing.T) {
	ledger, err := NewLedgerFileAdapter().Load("/nonexistent/installed.yaml")
	require.NoError(t, err)
	assert.Equal(t, LedgerAPIVersion, ledger.APIVersion)
	assert.Empty(t, ledger.Entries)
}

func TestLedgerFileAdapter_LoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "installed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{{not yaml"), 0o644))

	ledger, err := NewLedgerFileAdapter().Load(path)
	require.NoError(t, err)
	assert.Empty(t, ledger.Entries)
}

func TestLedgerFileAdapter_SaveEmptyPath(t *testing.T) {
	err := NewLedgerFileAdapter().Save("", types.LedgerFile{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger path is empty")
}
