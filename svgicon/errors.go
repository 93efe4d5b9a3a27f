package svgicon

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrorMode is the for setting how the parser reacts to unparsed elements
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unparsed SVG elements
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode logs a warning for each unparsed SVG element
	WarnErrorMode
	// StrictErrorMode returns an error when an unparsed SVG element is found
	StrictErrorMode
)

var (
	// ErrNoRoot is returned when the input has no <svg> root element.
	ErrNoRoot = errors.New("invalid svg document: missing <svg> root element")

	errParamMismatch = errors.New("param mismatch")
	errZeroLengthID  = errors.New("zero length id")
)

// handleError reports an unsupported construct, according to the error mode.
func (c *docCursor) handleError(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	switch c.errorMode {
	case StrictErrorMode:
		return errors.New(msg)
	case WarnErrorMode:
		c.logger.Warn("svg element skipped", zap.String("reason", msg))
	}
	return nil
}
