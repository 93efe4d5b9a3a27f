package sink

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// output buffers the writes and keeps the first error,
// so that serializers can be written without error checks
// on every line.
type output struct {
	w   *bufio.Writer
	err error
}

func newOutput(w io.Writer) output { return output{w: bufio.NewWriter(w)} }

func (o *output) printf(format string, args ...interface{}) {
	if o.err != nil {
		return
	}
	_, o.err = fmt.Fprintf(o.w, format, args...)
}

func (o *output) flush() error {
	if o.err != nil {
		return o.err
	}
	return o.w.Flush()
}

// formatFloat formats v with `prec` decimals, without trailing zeros.
func formatFloat(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if prec > 0 {
		i := len(s)
		for i > 0 && s[i-1] == '0' {
			i--
		}
		if i > 0 && s[i-1] == '.' {
			i--
		}
		s = s[:i]
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
