package types

type LedgerEntry struct {
	Package   string        `yaml:"package"`
	Policy    VersionPolicy `yaml:"policy"`
	Target    string        `yaml:"target,omitempty"`
	Installed string        `yaml:"installed,omitempty"`
	Latest    string        `yaml:"latest,omitempty"`
	Status    Status        `yaml:"status"`
}

// LedgerFile is the on-disk record of the last reconciliation pass.
// It is rewritten wholesale on every pass; entries for packages that
// are no longer declared are carried over untouched.
type LedgerFile struct {
	APIVersion string        `yaml:"api_version"`
	UpdatedAt  string        `yaml:"updated_at"`
	Entries    []LedgerEntry `yaml:"entries"`
}
