package types

type Metadata struct {
	Name        string   `yaml:"name"`
	Owners      []string `yaml:"owners,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// ManifestDefaults holds manifest-level fallbacks consulted when a
// value is not supplied through flags or environment variables.
type ManifestDefaults struct {
	Ledger    string `yaml:"ledger,omitempty"`
	BackupDir string `yaml:"backup_dir,omitempty"`
	Workers   int    `yaml:"workers,omitempty"`
}

type VersionSpec struct {
	Policy VersionPolicy `yaml:"policy"`
	Target string        `yaml:"target"`
}

type Declaration struct {
	Package string      `yaml:"package"`
	Version VersionSpec `yaml:"version"`
}

type Manifest struct {
	APIVersion   string           `yaml:"api_version"`
	Metadata     Metadata         `yaml:"metadata,omitempty"`
	Runtime      string           `yaml:"runtime,omitempty"`
	Defaults     ManifestDefaults `yaml:"defaults,omitempty"`
	Dependencies []Declaration    `yaml:"dependencies"`
}
