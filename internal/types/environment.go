package types

// Environment describes the host a reconciliation pass operates on.
// It is resolved once per pass by the detector and treated as
// read-only afterwards.
type Environment struct {
	OS            OS
	InstallMethod InstallMethod
	Backend       Backend

	// ExternallyManaged is true when the runtime installation refuses
	// direct mutation (PEP 668 marker on Linux, brew-owned runtime on
	// macOS, managed store on Windows).
	ExternallyManaged bool

	// FormulaManagerAvailable reports whether a formula manager binary
	// was found on PATH.  Only meaningful on darwin.
	FormulaManagerAvailable bool

	// Runtime is the configured runtime binary (default python3);
	// RuntimePath is its resolved absolute path, empty when the binary
	// is not on PATH.
	Runtime     string
	RuntimePath string
}
