package transform

import "fmt"

// Error is a per-(item, operation) failure: corrupt image, unsupported
// format, encode error. The runner logs it and moves on; it never aborts
// the batch.
type Error struct {
	Op   string // Operation tag, e.g. "convert", "canvas", "blur".
	Path string // Source path the operation was applied to.
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// opError wraps err as an *Error unless it is nil.
func opError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}
