package adapters

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"depsync/internal/ports"
	"depsync/internal/types"
)

const LedgerAPIVersion = "depsync/v1"

// LedgerFileAdapter persists reconciliation state as YAML.  A missing
// or corrupt ledger is never fatal: reconciliation rebuilds the state
// from scratch, so Load degrades to an empty ledger with a warning.
type LedgerFileAdapter struct{}

func NewLedgerFileAdapter() LedgerFileAdapter {
	return LedgerFileAdapter{}
}

func (a LedgerFileAdapter) Load(path string) (types.LedgerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", path).Msg("ledger file missing, starting empty")
			return emptyLedger(), nil
		}
		log.Warn().Str("path", path).Err(err).Msg("ledger file unreadable, starting empty")
		return emptyLedger(), nil
	}
	var ledger types.LedgerFile
	if err := yaml.Unmarshal(data, &ledger); err != nil {
		log.Warn().Str("path", path).Err(err).Msg("ledger file corrupt, starting empty")
		return emptyLedger(), nil
	}
	if ledger.APIVersion == "" {
		ledger.APIVersion = LedgerAPIVersion
	}
	return ledger, nil
}

// Save writes the ledger atomically: the file is rendered to a temp
// sibling and renamed over the target so a crashed pass never leaves a
// torn ledger behind.
func (a LedgerFileAdapter) Save(path string, ledger types.LedgerFile) error {
	if path == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("ledger path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create ledger directory").
			WithCause(err)
	}
	data, err := yaml.Marshal(ledger)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to render ledger yaml").
			WithCause(err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ledger-*.yaml")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create ledger temp file").
			WithCause(err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write ledger temp file").
			WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to close ledger temp file").
			WithCause(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to replace ledger file").
			WithCause(err)
	}
	return nil
}

func emptyLedger() types.LedgerFile {
	return types.LedgerFile{APIVersion: LedgerAPIVersion}
}

var _ ports.LedgerPort = LedgerFileAdapter{}
