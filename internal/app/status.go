package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depsync/internal/shared"
	"depsync/internal/types"
)

// Status merges the manifest with the persisted ledger without
// touching any package manager. Declared packages that have never been
// reconciled carry empty observed columns; ledger entries whose
// declaration was removed are reported separately as orphans.
func (s Service) Status(req StatusRequest) (StatusResult, error) {
	manifestPath := strings.TrimSpace(req.ManifestPath)
	if manifestPath == "" {
		return StatusResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}
	manifest, err := s.Manifests.Load(manifestPath)
	if err != nil {
		return StatusResult{}, err
	}
	ledgerPath := resolveLedgerPath(req.LedgerPath, manifest)
	ledger, err := s.Ledger.Load(ledgerPath)
	if err != nil {
		return StatusResult{}, err
	}

	recorded := make(map[string]types.LedgerEntry, len(ledger.Entries))
	for _, entry := range ledger.Entries {
		recorded[shared.NormalizePipName(entry.Package)] = entry
	}

	result := StatusResult{
		ManifestName: manifest.Metadata.Name,
		UpdatedAt:    ledger.UpdatedAt,
		Entries:      make([]types.LedgerEntry, 0, len(manifest.Dependencies)),
	}
	declared := make(map[string]struct{}, len(manifest.Dependencies))
	for _, declaration := range manifest.Dependencies {
		key := shared.NormalizePipName(declaration.Package)
		declared[key] = struct{}{}
		entry := types.LedgerEntry{
			Package: declaration.Package,
			Policy:  declaration.Version.Policy,
			Target:  declaration.Version.Target,
		}
		if previous, ok := recorded[key]; ok {
			entry.Installed = previous.Installed
			entry.Latest = previous.Latest
			entry.Status = previous.Status
		}
		result.Entries = append(result.Entries, entry)
	}
	for _, entry := range ledger.Entries {
		if _, ok := declared[shared.NormalizePipName(entry.Package)]; ok {
			continue
		}
		result.Orphans = append(result.Orphans, entry)
	}
	return result, nil
}
