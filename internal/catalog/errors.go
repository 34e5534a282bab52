package catalog

import "errors"

// Error categories, matched with errors.Is at the API boundary.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
)

// catErr carries a response message and unwraps to its category.
type catErr struct {
	msg  string
	kind error
}

func (e *catErr) Error() string { return e.msg }
func (e *catErr) Unwrap() error { return e.kind }

func notFound(msg string) error { return &catErr{msg: msg, kind: ErrNotFound} }
func conflict(msg string) error { return &catErr{msg: msg, kind: ErrConflict} }
func invalid(msg string) error  { return &catErr{msg: msg, kind: ErrInvalid} }
