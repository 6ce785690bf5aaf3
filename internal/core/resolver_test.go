package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"depsync/internal/ports"
	"depsync/internal/types"
)

type fakeBackend struct {
	backend          types.Backend
	installed        map[string]string
	latest           map[string]string
	listErr          error
	installErrs      map[string]error
	listCalls        int
	installedLookups []string
	latestLookups    []string
	installs         []string
}

func (f *fakeBackend) Backend() types.Backend {
	return f.backend
}

func (f *fakeBackend) ListInstalled(ctx context.Context) (map[string]string, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.installed, nil
}

func (f *fakeBackend) InstalledVersion(ctx context.Context, name string) (string, error) {
	f.installedLookups = append(f.installedLookups, name)
	return f.installed[name], nil
}

func (f *fakeBackend) LatestVersion(ctx context.Context, name string) (string, error) {
	f.latestLookups = append(f.latestLookups, name)
	return f.latest[name], nil
}

func (f *fakeBackend) Install(ctx context.Context, name, version string, kind types.ActionKind, force bool) error {
	f.installs = append(f.installs, fmt.Sprintf("%s %s %s force=%t", name, version, kind, force))
	return f.installErrs[name]
}

func declarationOf(name string) types.Declaration {
	return types.Declaration{
		Package: name,
		Version: types.VersionSpec{Policy: types.VersionPolicyLatest, Target: "1.0.0"},
	}
}

func linuxEnv() types.Environment {
	return types.Environment{
		OS:            types.OSLinux,
		InstallMethod: types.InstallMethodSystemPackageManager,
		Backend:       types.BackendApt,
		Runtime:       "python3",
		RuntimePath:   "/usr/bin/python3",
	}
}

func TestVersionResolverBulkListingAmortizesSpawns(t *testing.T) {
	runtime := &fakeBackend{
		backend:   types.BackendPip,
		installed: map[string]string{"alpha": "1.0.0", "beta": "2.0.0"},
		latest:    map[string]string{"alpha": "1.2.0", "beta": "2.0.0"},
	}
	resolver := NewVersionResolver(runtime, nil)

	results := resolver.Resolve(t.Context(), []types.Declaration{
		declarationOf("alpha"),
		declarationOf("beta"),
	}, linuxEnv())

	require.Len(t, results, 2)
	if diff := cmp.Diff(1, runtime.listCalls); diff != "" {
		t.Fatalf("unexpected bulk listing count (-want +got):\n%s", diff)
	}
	require.Empty(t, runtime.installedLookups)
	if diff := cmp.Diff("1.0.0", results[0].Installed); diff != "" {
		t.Fatalf("unexpected installed version (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("1.2.0", results[0].Latest); diff != "" {
		t.Fatalf("unexpected latest version (-want +got):\n%s", diff)
	}
	require.Equal(t, types.BackendPip, results[0].Source)
}

func TestVersionResolverFallsBackToPerPackageLookups(t *testing.T) {
	runtime := &fakeBackend{
		backend:   types.BackendPip,
		installed: map[string]string{"alpha": "1.0.0"},
		listErr:   errors.New("pip list unavailable"),
	}
	resolver := NewVersionResolver(runtime, nil)

	results := resolver.Resolve(t.Context(), []types.Declaration{declarationOf("alpha")}, linuxEnv())

	require.Len(t, results, 1)
	require.Contains(t, runtime.installedLookups, "alpha")
	if diff := cmp.Diff("1.0.0", results[0].Installed); diff != "" {
		t.Fatalf("unexpected installed version (-want +got):\n%s", diff)
	}
}

func TestVersionResolverConsultsSystemBackendAfterRuntimeMiss(t *testing.T) {
	runtime := &fakeBackend{backend: types.BackendPip}
	system := &fakeBackend{
		backend:   types.BackendApt,
		installed: map[string]string{"libzip": "1.7.3-1"},
		latest:    map[string]string{"libzip": "1.10.1-1"},
	}
	resolver := NewVersionResolver(runtime, map[types.Backend]ports.PackageBackendPort{
		types.BackendApt: system,
	})

	installed := resolver.Installed(t.Context(), "libzip", linuxEnv())
	latest := resolver.Latest(t.Context(), "libzip", linuxEnv())

	if diff := cmp.Diff("1.7.3-1", installed); diff != "" {
		t.Fatalf("unexpected installed version (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("1.10.1-1", latest); diff != "" {
		t.Fatalf("unexpected latest version (-want +got):\n%s", diff)
	}
	require.Contains(t, runtime.installedLookups, "libzip")
	require.Contains(t, runtime.latestLookups, "libzip")

	results := resolver.Resolve(t.Context(), []types.Declaration{declarationOf("libzip")}, linuxEnv())
	require.Len(t, results, 1)
	require.Equal(t, types.BackendApt, results[0].Source)
}

func TestVersionResolverMissingEverywhereIsNotAnError(t *testing.T) {
	runtime := &fakeBackend{backend: types.BackendPip}
	system := &fakeBackend{backend: types.BackendApt}
	resolver := NewVersionResolver(runtime, map[types.Backend]ports.PackageBackendPort{
		types.BackendApt: system,
	})

	results := resolver.Resolve(t.Context(), []types.Declaration{declarationOf("ghost")}, linuxEnv())

	require.Len(t, results, 1)
	require.Empty(t, results[0].Installed)
	require.Empty(t, results[0].Latest)
}

func TestVersionResolverKeepsDeclarationOrder(t *testing.T) {
	installed := map[string]string{}
	var declarations []types.Declaration
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("pkg-%d", i)
		installed[name] = fmt.Sprintf("%d.0.0", i)
		declarations = append(declarations, declarationOf(name))
	}
	runtime := &fakeBackend{backend: types.BackendPip, installed: installed}
	resolver := NewVersionResolver(runtime, nil)
	resolver.Workers = 2

	results := resolver.Resolve(t.Context(), declarations, linuxEnv())

	require.Len(t, results, len(declarations))
	for i, result := range results {
		if diff := cmp.Diff(declarations[i].Package, result.Package); diff != "" {
			t.Fatalf("unexpected package at %d (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(fmt.Sprintf("%d.0.0", i), result.Installed); diff != "" {
			t.Fatalf("unexpected installed version at %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestVersionResolverNormalizesRuntimeNames(t *testing.T) {
	runtime := &fakeBackend{
		backend:   types.BackendPip,
		installed: map[string]string{"my-tool": "0.4.0"},
	}
	resolver := NewVersionResolver(runtime, nil)

	results := resolver.Resolve(t.Context(), []types.Declaration{declarationOf("My_Tool")}, linuxEnv())

	require.Len(t, results, 1)
	if diff := cmp.Diff("0.4.0", results[0].Installed); diff != "" {
		t.Fatalf("unexpected installed version (-want +got):\n%s", diff)
	}
}
