package app

import (
	"time"

	"depsync/internal/adapters"
	"depsync/internal/core"
	"depsync/internal/ports"
	"depsync/internal/types"
)

// Service wires the file adapters, environment probes and package
// backends behind the application operations. Runtime is a factory
// because the managed runtime binary is named by the manifest.
type Service struct {
	Manifests ports.ManifestPort
	Ledger    ports.LedgerPort
	Backups   ports.BackupPort
	Probes    []ports.EnvironmentProbePort
	Runtime   func(runtimeBinary string) ports.PackageBackendPort
	System    map[types.Backend]ports.PackageBackendPort
	Clock     func() time.Time
}

func NewService(timeout time.Duration) Service {
	runner := adapters.NewExecRunnerAdapter(timeout)
	return Service{
		Manifests: adapters.NewManifestFileAdapter(),
		Ledger:    adapters.NewLedgerFileAdapter(),
		Backups:   adapters.NewBackupFileAdapter(),
		Probes: []ports.EnvironmentProbePort{
			adapters.NewMacOSProbeAdapter(runner),
			adapters.NewLinuxProbeAdapter(runner),
			adapters.NewWindowsProbeAdapter(runner),
		},
		Runtime: func(runtimeBinary string) ports.PackageBackendPort {
			return adapters.NewPipBackendAdapter(runner, runtimeBinary)
		},
		System: map[types.Backend]ports.PackageBackendPort{
			types.BackendBrew:   adapters.NewBrewBackendAdapter(runner),
			types.BackendApt:    adapters.NewAptBackendAdapter(runner),
			types.BackendDnf:    adapters.NewDnfBackendAdapter(runner),
			types.BackendWinget: adapters.NewWingetBackendAdapter(runner),
		},
		Clock: time.Now,
	}
}

func (s Service) detector() core.Detector {
	return core.NewDetector(s.Probes...)
}

func (s Service) runtimeBackend(runtimeBinary string) ports.PackageBackendPort {
	if s.Runtime == nil {
		return nil
	}
	return s.Runtime(runtimeBinary)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}
