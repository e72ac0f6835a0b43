// Package dgemm structured error types for kernel contract violations
package dgemm

import (
	"errors"
	"strings"
)

// ErrorType classifies an Error.
type ErrorType int

const (
	// ErrTypeMemory: a matrix could not be allocated
	ErrTypeMemory ErrorType = iota
	// ErrTypeInvalidArg: a call broke the kernel contract
	ErrTypeInvalidArg
	// ErrTypeExecution: harness I/O and sinks
	ErrTypeExecution
	// ErrTypeNumerical: a result outside tolerance
	ErrTypeNumerical
)

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeMemory:
		return "Memory"
	case ErrTypeInvalidArg:
		return "InvalidArgument"
	case ErrTypeExecution:
		return "Execution"
	case ErrTypeNumerical:
		return "Numerical"
	default:
		return "Unknown"
	}
}

// Sentinel causes. Errors returned by this package wrap one of these when
// the failure has a fixed cause, so callers can test with errors.Is.
var (
	ErrOutOfMemory   = errors.New("out of memory")
	ErrInvalidSize   = errors.New("order must be positive")
	ErrNilMatrix     = errors.New("nil matrix")
	ErrAliasedOutput = errors.New("output aliases an input")
	ErrBadShape      = errors.New("matrix does not match the order")
	ErrBadTile       = errors.New("tile size outside [1, n]")
)

// Shape is the order and element count of one operand. A nil operand has
// Order -1.
type Shape struct {
	Order int
	Len   int
}

func shapeOf(m *Matrix) Shape {
	if m == nil {
		return Shape{Order: -1}
	}
	return Shape{Order: m.N, Len: len(m.Data)}
}

// Operands is the Context of a contract violation: what the kernel was
// asked to compute and what it was handed.
type Operands struct {
	N       int
	Tile    int
	A, B, C Shape
}

// Error is the error type returned by this module. Op names the kernel or
// function that failed; Message, when set, adds detail to the cause Err.
type Error struct {
	Type    ErrorType
	Op      string
	Message string
	Err     error
	Context any // Operands for contract violations, VerificationResult for numerical errors
}

// Error formats as "dgemm: Op: Message: Err", omitting empty parts.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("dgemm: ")
	sb.WriteString(e.Op)
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewMemoryError reports an allocation failure. A nil err defaults to
// ErrOutOfMemory.
func NewMemoryError(op string, message string, err error) error {
	if err == nil {
		err = ErrOutOfMemory
	}
	return &Error{Type: ErrTypeMemory, Op: op, Message: message, Err: err}
}

// NewInvalidArgError reports a bad argument outside the kernel contract,
// such as a harness configuration value.
func NewInvalidArgError(op string, message string) error {
	return &Error{Type: ErrTypeInvalidArg, Op: op, Message: message}
}

// contractError reports a kernel contract violation. C is left untouched
// whenever one is returned.
func contractError(op string, cause error, ops Operands, message string) error {
	return &Error{Type: ErrTypeInvalidArg, Op: op, Message: message, Err: cause, Context: ops}
}

// NewExecutionError wraps a failure outside the kernels.
func NewExecutionError(op string, message string, err error) error {
	return &Error{Type: ErrTypeExecution, Op: op, Message: message, Err: err}
}

// NewNumericalError reports a result outside tolerance.
func NewNumericalError(op string, message string, context any) error {
	return &Error{Type: ErrTypeNumerical, Op: op, Message: message, Context: context}
}

func errorType(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return 0, false
}

// IsMemoryError checks if an error is a memory error
func IsMemoryError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeMemory
}

// IsInvalidArgError checks if an error is an invalid argument error
func IsInvalidArgError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeInvalidArg
}

// IsExecutionError checks if an error is an execution error
func IsExecutionError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeExecution
}

// IsNumericalError checks if an error is a numerical error
func IsNumericalError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeNumerical
}

// OperandsOf returns the operand shapes recorded by a contract violation.
func OperandsOf(err error) (Operands, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return Operands{}, false
	}
	ops, ok := e.Context.(Operands)
	return ops, ok
}
