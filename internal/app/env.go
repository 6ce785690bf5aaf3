package app

import (
	"context"
	"strings"
)

// Env reports the environment descriptor the reconciler would act on.
// The runtime binary comes from the flag, then the manifest, then the
// built-in default; the manifest is only consulted when a path is set.
func (s Service) Env(ctx context.Context, req EnvRequest) (EnvResult, error) {
	runtimeBinary := strings.TrimSpace(req.Runtime)
	if runtimeBinary == "" {
		if manifestPath := strings.TrimSpace(req.ManifestPath); manifestPath != "" {
			manifest, err := s.Manifests.Load(manifestPath)
			if err != nil {
				return EnvResult{}, err
			}
			runtimeBinary = runtimeBinaryFor(manifest)
		} else {
			runtimeBinary = defaultRuntime
		}
	}
	env := s.detector().Detect(ctx, runtimeBinary)
	return EnvResult{Environment: env}, nil
}
