package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a pass would receive zero bytes.
	ErrEmptyInput = errors.New("pipeline: no shader bytecode input")

	// ErrEmptyOutput is returned when a pass produces zero bytes.
	ErrEmptyOutput = errors.New("pipeline: no shader bytecode output")

	// ErrUnknownShaderType is returned when the shader to compile is not a
	// type of the library.
	ErrUnknownShaderType = errors.New("pipeline: unknown shader type")

	// ErrNoBackend is returned when a description has no backend pass.
	ErrNoBackend = errors.New("pipeline: no backend pass")

	// ErrUnknownPass is returned by Builtin for an unregistered name.
	ErrUnknownPass = errors.New("pipeline: unknown pass")
)

// PassError is the failure of one pass of a stage. Index is the position of
// the pass in the stage's result list.
type PassError struct {
	Pass  string
	Index int
	Err   error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("pipeline: pass %d (%s): %v", e.Index, e.Pass, e.Err)
}

func (e *PassError) Unwrap() error { return e.Err }
