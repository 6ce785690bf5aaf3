package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depsync/internal/core"
)

func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	manifestPath := strings.TrimSpace(req.ManifestPath)
	if manifestPath == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}
	manifest, err := s.Manifests.Load(manifestPath)
	if err != nil {
		return ValidateResult{}, err
	}
	checker := core.NewManifestChecker()
	if err := checker.Validate(ctx, manifest); err != nil {
		return ValidateResult{}, err
	}
	return ValidateResult{
		ManifestName: manifest.Metadata.Name,
		Dependencies: len(manifest.Dependencies),
	}, nil
}
