package ports

import (
	"context"

	"depsync/internal/types"
)

// EnvironmentProbePort inspects one operating system family.  The
// detector dispatches to the probe registered for the running OS; a
// probe error is never fatal and degrades to a standalone environment.
type EnvironmentProbePort interface {
	OS() types.OS
	Probe(ctx context.Context, runtime string) (types.Environment, error)
}
