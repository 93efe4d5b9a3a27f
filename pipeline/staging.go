package pipeline

import (
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// Slot is a temporary file owned by a run.
type Slot struct {
	Path    string
	removed bool
}

// Area creates the temporary files of a run, and removes
// all of them on Cleanup.
type Area struct {
	dir    string
	prefix string
	slots  []*Slot
	logger *zap.Logger
}

// NewArea returns an area creating files in `dir` (the default
// temporary directory if empty), with names starting by `prefix`.
func NewArea(dir, prefix string, logger *zap.Logger) *Area {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Area{dir: dir, prefix: prefix, logger: logger}
}

// Create creates a new empty file, with a unique name ending by `suffix`,
// and returns it opened for writing.
func (a *Area) Create(suffix string) (*Slot, *os.File, error) {
	f, err := os.CreateTemp(a.dir, a.prefix+"-*"+suffix)
	if err != nil {
		return nil, nil, &IOError{Op: "creating temporary file", Err: err}
	}
	s := &Slot{Path: f.Name()}
	a.slots = append(a.slots, s)
	a.logger.Debug("staged file created", zap.String("path", s.Path))
	return s, f, nil
}

// Reserve creates a unique empty file, to be written by another process.
func (a *Area) Reserve(suffix string) (*Slot, error) {
	s, f, err := a.Create(suffix)
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, &IOError{Op: "closing", Path: s.Path, Err: err}
	}
	return s, nil
}

// Slots returns the files created so far.
func (a *Area) Slots() []*Slot { return append([]*Slot(nil), a.slots...) }

// Cleanup removes every file of the area, once. Files already gone
// are not an error. It may be called several times.
func (a *Area) Cleanup() error {
	var errs []error
	for _, s := range a.slots {
		if s.removed {
			continue
		}
		err := os.Remove(s.Path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, &IOError{Op: "removing temporary file", Path: s.Path, Err: err})
			continue
		}
		s.removed = true
		a.logger.Debug("staged file removed", zap.String("path", s.Path))
	}
	return errors.Join(errs...)
}
