package store

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is matched by every load failure: the backing file is
// missing, unreadable or not a valid matrix.
var ErrDataUnavailable = errors.New("compatibility data unavailable")

// DataError describes a load failure.
type DataError struct {
	Path string // backing file
	Op   string // open, read, decode, query, load
	Err  error  // cause
}

func (e *DataError) Error() string {
	return fmt.Sprintf("compatibility data unavailable: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both ErrDataUnavailable and the cause to errors.Is/As.
func (e *DataError) Unwrap() []error {
	return []error{ErrDataUnavailable, e.Err}
}
