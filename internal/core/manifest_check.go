package core

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depsync/internal/shared"
	"depsync/internal/types"
)

type ManifestChecker struct{}

var validPolicies = map[types.VersionPolicy]struct{}{
	types.VersionPolicyLatest:     {},
	types.VersionPolicyRestricted: {},
}

func NewManifestChecker() ManifestChecker {
	return ManifestChecker{}
}

func (c ManifestChecker) Validate(ctx context.Context, manifest types.Manifest) error {
	assert.NotEmpty(ctx, manifest.APIVersion, "api_version must be set")
	assert.NotEmpty(ctx, manifest.Metadata.Name, "metadata.name must be set")
	if err := validateDefaults(manifest.Defaults); err != nil {
		return err
	}
	seen := map[string]string{}
	for _, declaration := range manifest.Dependencies {
		if err := validateDeclaration(declaration); err != nil {
			return err
		}
		key := shared.NormalizePipName(declaration.Package)
		if previous, ok := seen[key]; ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("duplicate package declaration: %s and %s name the same package", previous, declaration.Package))
		}
		seen[key] = declaration.Package
	}
	log.Ctx(ctx).Debug().
		Str("manifest", manifest.Metadata.Name).
		Int("dependencies", len(manifest.Dependencies)).
		Msg("manifest validated")
	return nil
}

func validateDeclaration(declaration types.Declaration) error {
	if strings.TrimSpace(declaration.Package) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dependency package name must not be empty")
	}
	if _, ok := validPolicies[declaration.Version.Policy]; !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("dependency %s has invalid policy %q", declaration.Package, declaration.Version.Policy))
	}
	target := strings.TrimSpace(declaration.Version.Target)
	if target == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("dependency %s missing version target", declaration.Package))
	}
	if declaration.Version.Policy == types.VersionPolicyRestricted && !VersionParseable(target) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("dependency %s has restricted policy with unparseable target %q", declaration.Package, target))
	}
	return nil
}

func validateDefaults(defaults types.ManifestDefaults) error {
	if defaults.Workers < 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("defaults.workers must not be negative")
	}
	return nil
}
