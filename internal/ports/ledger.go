package ports

import "depsync/internal/types"

// LedgerPort persists the reconciliation state between passes.  Load
// tolerates a missing or corrupt file (empty ledger, warning); Save
// must be atomic so a crashed pass never leaves a torn file.
type LedgerPort interface {
	Load(path string) (types.LedgerFile, error)
	Save(path string, ledger types.LedgerFile) error
}
