package main

import (
	"bytes"
	"context"
	"os/exec"
	"syscall"
	"time"

	"github.com/edgecover/fuzzer/fuzzer"
)

// ProcessRunner drives one instrumented target process per run by exec'ing
// Binary with Args and feeding the lifted script on stdin.
type ProcessRunner struct {
	Binary string
	Args   []string
}

func (r *ProcessRunner) Run(ctx context.Context, script []byte, timeout time.Duration) (fuzzer.Execution, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, r.Binary, r.Args...)
	cmd.Stdin = bytes.NewReader(script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	execTime := time.Since(start)

	execution := fuzzer.Execution{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExecTime: execTime,
	}

	if ctx.Err() == context.DeadlineExceeded {
		execution.Outcome = fuzzer.TimedOut
		return execution, nil
	}

	if err == nil {
		execution.Outcome = fuzzer.Succeeded
		return execution, nil
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return execution, err
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		execution.Outcome = fuzzer.Crashed
		execution.Signal = int(ws.Signal())
		return execution, nil
	}
	execution.Outcome = fuzzer.Failed
	execution.ExitCode = exitErr.ProcessState.ExitCode()
	return execution, nil
}
