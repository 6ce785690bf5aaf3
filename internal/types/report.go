package types

// ResolvedVersions carries the observed state of one declared package.
// Empty strings mean absent (Installed) or unknown (Latest); neither
// is an error. Source names the backend that answered, which selects
// the version-ordering family for the package.
type ResolvedVersions struct {
	Package   string
	Installed string
	Latest    string
	Source    Backend
}

type Action struct {
	Kind    ActionKind
	Version string
}

type Decision struct {
	Status Status
	Action Action
	Reason string
}

type ReconcileRecord struct {
	Package string
	Status  Status
	Action  Action
	Outcome Outcome
	Detail  string
}
