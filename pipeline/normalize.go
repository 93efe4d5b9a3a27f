package pipeline

import (
	"errors"
	"io"
	"os/exec"

	"go.uber.org/zap"
)

// Outcome discriminates the results of RunProcess.
type Outcome uint8

const (
	Exited      Outcome = iota // the process ran; see ExitCode
	StartFailed                // the process could not be started
	ReapFailed                 // the process started, but waiting for it failed
)

// ProcessResult is the result of a child process.
type ProcessResult struct {
	Outcome  Outcome
	ExitCode int // valid for Exited, -1 if killed by a signal
	Err      error
}

// RunProcess runs `tool` with `args` and the inherited environment,
// and blocks until it exits. There is no timeout.
func RunProcess(tool string, args []string, stdout, stderr io.Writer) ProcessResult {
	cmd := exec.Command(tool, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return ProcessResult{Outcome: StartFailed, Err: err}
	}
	err := cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return ProcessResult{Outcome: Exited}
	case errors.As(err, &exitErr):
		return ProcessResult{Outcome: Exited, ExitCode: exitErr.ExitCode(), Err: err}
	default:
		return ProcessResult{Outcome: ReapFailed, Err: err}
	}
}

// Normalizer rewrites the SVG document at `src` into
// a normalized document at `dst`.
type Normalizer interface {
	Normalize(src, dst string) error
}

// ExternalNormalizer runs `Tool src dst`, usvg by default.
// The output of the tool goes to Stderr.
type ExternalNormalizer struct {
	Tool   string
	Stderr io.Writer
	Logger *zap.Logger
}

func (n ExternalNormalizer) Normalize(src, dst string) error {
	tool := n.Tool
	if tool == "" {
		tool = "usvg"
	}
	if n.Logger != nil {
		n.Logger.Debug("calling normalizer", zap.String("tool", tool), zap.String("src", src), zap.String("dst", dst))
	}
	res := RunProcess(tool, []string{src, dst}, n.Stderr, n.Stderr)
	switch res.Outcome {
	case StartFailed:
		return &ExternalToolError{Tool: tool, Phase: PhaseStart, Err: res.Err}
	case ReapFailed:
		return &ExternalToolError{Tool: tool, Phase: PhaseReap, Err: res.Err}
	}
	if res.ExitCode != 0 {
		return &ExternalToolError{Tool: tool, Phase: PhaseExit, ExitCode: res.ExitCode, Err: res.Err}
	}
	return nil
}
