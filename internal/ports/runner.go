package ports

import "context"

// CommandRunnerPort is the single seam through which package-manager
// subprocesses are spawned.  Implementations must honor context
// cancellation and deadlines; callers receive captured stdout and
// stderr separately so error paths can surface the manager's own
// message.
type CommandRunnerPort interface {
	Run(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)
	LookPath(name string) (string, error)
}
