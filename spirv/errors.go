package spirv

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidType is returned when a type handle does not exist in the
	// library being translated.
	ErrInvalidType = errors.New("spirv: invalid type handle")

	// ErrTruncated is returned when a word stream ends inside an
	// instruction or is not a whole number of words.
	ErrTruncated = errors.New("spirv: truncated word stream")

	// ErrBadMagic is returned when a stream does not start with the SPIR-V
	// magic number.
	ErrBadMagic = errors.New("spirv: invalid magic number")
)

// InvariantError reports an internal inconsistency of the IR handed to the
// emitter, such as a reference to a node that was never assigned an id.
// Well-formed input never produces one, so it is raised with panic rather
// than returned.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("spirv: invariant violated in %s: %s", e.Op, e.Detail)
}

func invariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)})
}
