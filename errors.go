package mywellness

import (
	"errors"
	"fmt"
)

// DataError reports malformed or physically implausible export data: a
// missing descriptor channel, a value vector that disagrees with the
// descriptor, a distance correction factor outside the accepted band, or a
// sample whose heart rate could never be resolved. Any DataError aborts the
// whole conversion; there is no row-level recovery.
type DataError struct {
	Msg string
}

func (e *DataError) Error() string { return e.Msg }

func dataErrorf(format string, args ...any) error {
	return &DataError{Msg: fmt.Sprintf(format, args...)}
}

// IsDataError reports whether any error in err's chain is a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// IOError reports a failed read of the input export or a failed write of an
// output artifact. A failed write may leave a truncated file behind.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsIOError reports whether any error in err's chain is an IOError.
func IsIOError(err error) bool {
	var ioe *IOError
	return errors.As(err, &ioe)
}
