package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalSandbox runs submitted code as a child process of the interpreter
// named in the policy. Isolation is the OS process boundary only; callers
// must not assume confinement against hostile code.
type LocalSandbox struct {
	Policy Policy

	// TempDir is where per-run script artifacts are staged.
	// Defaults to os.TempDir().
	TempDir string
}

// NewLocalSandbox creates a sandbox with the given policy.
func NewLocalSandbox(policy Policy) *LocalSandbox {
	if policy.PythonBin == "" {
		policy.PythonBin = DefaultPolicy().PythonBin
	}
	if policy.DefaultTimeout <= 0 {
		policy.DefaultTimeout = DefaultPolicy().DefaultTimeout
	}
	return &LocalSandbox{Policy: policy}
}

func (l *LocalSandbox) Exec(ctx context.Context, opts ExecOpts) (*ExecResult, error) {
	timeout := l.Policy.ClampTimeout(opts.Timeout)

	tempDir := l.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	// Each run gets its own artifact; concurrent executions never share a
	// script path.
	scriptPath := filepath.Join(tempDir, "dayrunner-"+uuid.NewString()+".py")
	if err := os.WriteFile(scriptPath, []byte(opts.Code), 0o644); err != nil {
		return engineFailure(fmt.Sprintf("writing script file: %v", err)), nil
	}
	defer func() {
		// Cleanup must never mask the run's result.
		if err := os.Remove(scriptPath); err != nil && !os.IsNotExist(err) {
			log.Printf("sandbox: removing %s: %v", scriptPath, err)
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, l.Policy.PythonBin, scriptPath)
	// Give the process a moment to die after the kill before Wait gives up
	// on its pipes.
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		return &ExecResult{
			Success:  false,
			Output:   "",
			ErrorMsg: fmt.Sprintf("Execution timed out after %d seconds", int(timeout.Seconds())),
			ExitCode: -1,
		}, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// Could not spawn or wait on the process at all.
			return engineFailure(err.Error()), nil
		}
		return &ExecResult{
			Success:  false,
			Output:   stdout.String(),
			ErrorMsg: stderr.String(),
			ExitCode: exitErr.ExitCode(),
		}, nil
	}

	return &ExecResult{
		Success:  true,
		Output:   stdout.String(),
		ErrorMsg: stderr.String(),
		ExitCode: 0,
	}, nil
}

func engineFailure(msg string) *ExecResult {
	return &ExecResult{Success: false, ErrorMsg: msg, ExitCode: -1}
}
