package adapters

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depsync/internal/types"
)

func TestDnfBackendAdapter_ListInstalled(t *testing.T) {
	runner := newFakeRunner()
	runner.respond(
		"rpm -qa --queryformat %{NAME}\t%{VERSION}\n",
		"curl\t8.6.0\njq\t1.7.1\n",
		"", nil,
	)
	backend := NewDnfBackendAdapter(runner)

	installed, err := backend.ListInstalled(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"curl": "8.6.0",
		"jq":   "1.7.1",
	}, installed)
}

func TestDnfBackendAdapter_InstalledVersion(t *testing.T) {
	t.Run("installed", func(t *testing.T) {
		runner := newFakeRunner()
		runner.respond("rpm -q --queryformat %{VERSION} curl", "8.6.0", "", nil)
		backend := NewDnfBackendAdapter(runner)

		version, err := backend.InstalledVersion(context.Background(), "curl")
		require.NoError(t, err)
		assert.Equal(t, "8.6.0", version)
	})

	t.Run("not installed exits non-zero", func(t *testing.T) {
		runner := newFakeRunner()
		runner.respond(
			"rpm -q --queryformat %{VERSION} ghost",
			"package ghost is not installed", "", fmt.Errorf("exit status 1"),
		)
		backend := NewDnfBackendAdapter(runner)

		version, err := backend.InstalledVersion(context.Background(), "ghost")
		require.NoError(t, err)
		assert.Empty(t, version)
	})
}

func TestDnfBackendAdapter_LatestVersion(t *testing.T) {
	runner := newFakeRunner()
	runner.respond(
		"dnf repoquery --latest-limit 1 --queryformat %{version} curl",
		"8.7.1\n", "", nil,
	)
	backend := NewDnfBackendAdapter(runner)

	version, err := backend.LatestVersion(context.Background(), "curl")
	require.NoError(t, err)
	assert.Equal(t, "8.7.1", version)
}

func TestDnfBackendAdapter_Install(t *testing.T) {
	t.Run("install with pin", func(t *testing.T) {
		runner := newFakeRunner()
		runner.respond("dnf install -y curl-8.7.1", "", "", nil)
		backend := NewDnfBackendAdapter(runner)

		err := backend.Install(context.Background(), "curl", "8.7.1", types.ActionInstall, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"dnf install -y curl-8.7.1"}, runner.calls)
	})

	t.Run("downgrade verb", func(t *testing.T) {
		runner := newFakeRunner()
		runner.respond("dnf downgrade -y curl-8.5.0", "", "", nil)
		backend := NewDnfBackendAdapter(runner)

		err := backend.Install(context.Background(), "curl", "8.5.0", types.ActionDowngrade, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"dnf downgrade -y curl-8.5.0"}, runner.calls)
	})
}
