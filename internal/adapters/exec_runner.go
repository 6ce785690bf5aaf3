package adapters

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depsync/internal/ports"
)

const DefaultCommandTimeout = 60 * time.Second

// ExecRunnerAdapter spawns package-manager subprocesses.  Every run is
// bounded by the configured timeout so a hung manager cannot stall the
// whole pass.
type ExecRunnerAdapter struct {
	Timeout time.Duration
}

func NewExecRunnerAdapter(timeout time.Duration) ExecRunnerAdapter {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return ExecRunnerAdapter{Timeout: timeout}
}

func (a ExecRunnerAdapter) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("command name is empty")
	}
	runCtx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	log.Ctx(ctx).Debug().
		Str("command", name).
		Strs("args", args).
		Dur("elapsed", time.Since(start)).
		Msg("subprocess finished")

	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return stdout.Bytes(), stderr.Bytes(), errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("command timed out after " + a.Timeout.String()).
				WithCause(err)
		}
		return stdout.Bytes(), stderr.Bytes(), err
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

func (a ExecRunnerAdapter) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

var _ ports.CommandRunnerPort = ExecRunnerAdapter{}
