package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depsync/internal/adapters"
	"depsync/internal/ports"
	"depsync/internal/shared"
	"depsync/internal/types"
)

// Fakes shared by the service tests. fakeBackend mutates its installed
// map on a successful Install so multi-pass tests observe the same
// convergence a real package manager would show.

const testManifestPath = "manifest.yaml"

type fakeManifests struct {
	manifests map[string]types.Manifest
}

func (f fakeManifests) Load(path string) (types.Manifest, error) {
	manifest, ok := f.manifests[path]
	if !ok {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("manifest not found: " + path)
	}
	return manifest, nil
}

type fakeLedger struct {
	files   map[string]types.LedgerFile
	saveErr error
	saves   int
}

func (f *fakeLedger) Load(path string) (types.LedgerFile, error) {
	ledger, ok := f.files[path]
	if !ok {
		return types.LedgerFile{APIVersion: adapters.LedgerAPIVersion}, nil
	}
	return ledger, nil
}

func (f *fakeLedger) Save(path string, ledger types.LedgerFile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.files == nil {
		f.files = map[string]types.LedgerFile{}
	}
	f.files[path] = ledger
	f.saves++
	return nil
}

type fakeBackups struct {
	files   map[string]types.BackupFile
	infos   []types.BackupInfo
	deleted []string
}

func (f *fakeBackups) Load(path string) (types.BackupFile, error) {
	backup, ok := f.files[path]
	if !ok {
		return types.BackupFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("backup file not found: " + path)
	}
	return backup, nil
}

func (f *fakeBackups) Save(path string, backup types.BackupFile) error {
	if f.files == nil {
		f.files = map[string]types.BackupFile{}
	}
	f.files[path] = backup
	return nil
}

func (f *fakeBackups) List(string) ([]types.BackupInfo, error) {
	return f.infos, nil
}

func (f *fakeBackups) Delete(path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

type fakeProbe struct {
	os  types.OS
	env types.Environment
}

func (f fakeProbe) OS() types.OS { return f.os }

func (f fakeProbe) Probe(context.Context, string) (types.Environment, error) {
	return f.env, nil
}

type fakeBackend struct {
	backend     types.Backend
	installed   map[string]string
	latest      map[string]string
	listErr     error
	installErrs map[string]error
	installs    []string
}

func (f *fakeBackend) Backend() types.Backend { return f.backend }

func (f *fakeBackend) ListInstalled(context.Context) (map[string]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	listed := make(map[string]string, len(f.installed))
	for name, version := range f.installed {
		listed[name] = version
	}
	return listed, nil
}

func (f *fakeBackend) InstalledVersion(_ context.Context, name string) (string, error) {
	return f.installed[shared.NormalizePipName(name)], nil
}

func (f *fakeBackend) LatestVersion(_ context.Context, name string) (string, error) {
	return f.latest[shared.NormalizePipName(name)], nil
}

func (f *fakeBackend) Install(_ context.Context, name string, version string, kind types.ActionKind, force bool) error {
	f.installs = append(f.installs, fmt.Sprintf("%s %s %s force=%t", name, version, kind, force))
	key := shared.NormalizePipName(name)
	if err := f.installErrs[key]; err != nil {
		return err
	}
	if f.installed == nil {
		f.installed = map[string]string{}
	}
	f.installed[key] = version
	return nil
}

// newTestService wires fakes behind every port. The same probe result
// is registered for every host system so the tests behave identically
// on any development machine.
func newTestService(manifest types.Manifest, env types.Environment, runtime *fakeBackend, system *fakeBackend) (Service, *fakeLedger) {
	ledger := &fakeLedger{}
	service := Service{
		Manifests: fakeManifests{manifests: map[string]types.Manifest{testManifestPath: manifest}},
		Ledger:    ledger,
		Backups:   &fakeBackups{},
		Probes: []ports.EnvironmentProbePort{
			fakeProbe{os: types.OSLinux, env: env},
			fakeProbe{os: types.OSDarwin, env: env},
			fakeProbe{os: types.OSWindows, env: env},
		},
		Clock: func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) },
	}
	if runtime != nil {
		service.Runtime = func(string) ports.PackageBackendPort { return runtime }
	}
	if system != nil {
		service.System = map[types.Backend]ports.PackageBackendPort{system.backend: system}
	}
	return service, ledger
}

func manifestOf(declarations ...types.Declaration) types.Manifest {
	return types.Manifest{
		APIVersion:   "depsync/v1",
		Metadata:     types.Metadata{Name: "workstation"},
		Runtime:      "python3",
		Defaults:     types.ManifestDefaults{Ledger: "ledger.yaml"},
		Dependencies: declarations,
	}
}

func declare(name string, policy types.VersionPolicy, target string) types.Declaration {
	return types.Declaration{
		Package: name,
		Version: types.VersionSpec{Policy: policy, Target: target},
	}
}

func managedPipEnv() types.Environment {
	env := pipEnv()
	env.ExternallyManaged = true
	return env
}

func pipEnv() types.Environment {
	return types.Environment{
		OS:            types.OSLinux,
		InstallMethod: types.InstallMethodSystemPackageManager,
		Backend:       types.BackendApt,
		Runtime:       "python3",
		RuntimePath:   "/usr/bin/python3",
	}
}
