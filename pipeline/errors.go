package pipeline

import (
	"fmt"
)

// ConfigurationError is returned for an invalid option value.
// It is always reported before any file is touched.
type ConfigurationError struct {
	Option string // long flag name, without dashes
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("invalid arguments: %s", e.Err)
	}
	return fmt.Sprintf("invalid option --%s: %s", e.Option, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func configError(option string, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Option: option, Err: fmt.Errorf(format, args...)}
}

// IOError is returned when a file can't be read, created or renamed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ToolPhase is the step at which an external tool failed.
type ToolPhase uint8

const (
	PhaseStart ToolPhase = iota // the process could not be started
	PhaseExit                   // the process exited with a non zero status
	PhaseReap                   // waiting for the process failed
)

func (p ToolPhase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseExit:
		return "exit"
	case PhaseReap:
		return "reap"
	default:
		return "<unknown phase>"
	}
}

// ExternalToolError is returned when the normalizer fails.
type ExternalToolError struct {
	Tool     string
	Phase    ToolPhase
	ExitCode int // for PhaseExit
	Err      error
}

func (e *ExternalToolError) Error() string {
	switch e.Phase {
	case PhaseStart:
		return fmt.Sprintf("cannot start %s: %s", e.Tool, e.Err)
	case PhaseExit:
		return fmt.Sprintf("%s returned an error code: %d", e.Tool, e.ExitCode)
	default:
		return fmt.Sprintf("waiting for %s: %s", e.Tool, e.Err)
	}
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

// DocumentLoadError is returned when the normalized document can't be parsed.
type DocumentLoadError struct {
	Path string
	Err  error
}

func (e *DocumentLoadError) Error() string {
	return fmt.Sprintf("loading document %s: %s", e.Path, e.Err)
}

func (e *DocumentLoadError) Unwrap() error { return e.Err }

// RenderError wraps failures of the renderer or of the sink.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return fmt.Sprintf("rendering: %s", e.Err) }

func (e *RenderError) Unwrap() error { return e.Err }

// Stage names a step of a run.
type Stage string

const (
	StageParsingArgs Stage = "parsing-args"
	StageStaging     Stage = "staging"
	StageNormalizing Stage = "normalizing"
	StageLoading     Stage = "loading"
	StageRendering   Stage = "rendering"
	StageCleanup     Stage = "cleanup"
)

// StageError records the stage at which a run failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %s", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }
