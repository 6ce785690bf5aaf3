package app

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depsync/internal/types"
)

func TestStatusMergesManifestAndLedger(t *testing.T) {
	manifest := manifestOf(
		declare("requests", types.VersionPolicyLatest, "2.31.0"),
		declare("Num_Py", types.VersionPolicyRestricted, "1.26.4"),
		declare("fresh", types.VersionPolicyLatest, "1.0.0"),
	)
	service, ledger := newTestService(manifest, pipEnv(), nil, nil)
	ledger.files = map[string]types.LedgerFile{
		"ledger.yaml": {
			APIVersion: "depsync/v1",
			UpdatedAt:  "2026-03-14T09:30:00Z",
			Entries: []types.LedgerEntry{
				{Package: "requests", Policy: types.VersionPolicyLatest, Target: "2.31.0", Installed: "2.32.0", Latest: "2.32.0", Status: types.StatusLatest},
				{Package: "num-py", Policy: types.VersionPolicyRestricted, Target: "1.26.0", Installed: "1.26.0", Status: types.StatusMatched},
				{Package: "legacy-tool", Policy: types.VersionPolicyRestricted, Target: "4.2.0", Installed: "4.2.0", Status: types.StatusMatched},
			},
		},
	}

	result, err := service.Status(StatusRequest{ManifestPath: testManifestPath})
	require.NoError(t, err)
	assert.Equal(t, "workstation", result.ManifestName)
	assert.Equal(t, "2026-03-14T09:30:00Z", result.UpdatedAt)

	want := []types.LedgerEntry{
		{Package: "requests", Policy: types.VersionPolicyLatest, Target: "2.31.0", Installed: "2.32.0", Latest: "2.32.0", Status: types.StatusLatest},
		{Package: "Num_Py", Policy: types.VersionPolicyRestricted, Target: "1.26.4", Installed: "1.26.0", Status: types.StatusMatched},
		{Package: "fresh", Policy: types.VersionPolicyLatest, Target: "1.0.0"},
	}
	if diff := cmp.Diff(want, result.Entries); diff != "" {
		t.Fatalf("unexpected status entries (-want +got):\n%s", diff)
	}

	require.Len(t, result.Orphans, 1)
	assert.Equal(t, "legacy-tool", result.Orphans[0].Package)
}

func TestStatusWithoutLedgerShowsDeclarationsOnly(t *testing.T) {
	manifest := manifestOf(declare("requests", types.VersionPolicyLatest, "2.31.0"))
	service, _ := newTestService(manifest, pipEnv(), nil, nil)

	result, err := service.Status(StatusRequest{ManifestPath: testManifestPath})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Empty(t, result.Entries[0].Installed)
	assert.Empty(t, result.Entries[0].Status)
	assert.Empty(t, result.Orphans)
}

func TestStatusRequiresManifestPath(t *testing.T) {
	service, _ := newTestService(manifestOf(), pipEnv(), nil, nil)

	_, err := service.Status(StatusRequest{ManifestPath: ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest path is required")
}
