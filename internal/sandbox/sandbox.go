package sandbox

import (
	"context"
	"time"
)

// ExecOpts describes a code execution request.
type ExecOpts struct {
	Code    string        // Source code to execute
	Timeout time.Duration // Wall-clock limit; zero means the policy default
}

// ExecResult is the outcome of an execution. Failures to run at all (spawn
// errors, timeouts) are reported here with Success=false and ExitCode=-1,
// not as Go errors; callers inspect the result.
type ExecResult struct {
	Success  bool
	Output   string // captured stdout
	ErrorMsg string // captured stderr, or the engine failure description
	ExitCode int
}

// Sandbox runs submitted code to completion.
type Sandbox interface {
	Exec(ctx context.Context, opts ExecOpts) (*ExecResult, error)
}
