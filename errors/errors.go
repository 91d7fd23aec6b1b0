package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseMem      Phase = "mem"      // block allocation and copies
	PhaseDecode   Phase = "decode"   // call input to Go values
	PhaseEncode   Phase = "encode"   // Go values to call output
	PhaseInvoke   Phase = "invoke"   // user function execution
	PhaseDiscover Phase = "discover" // export discovery
	PhaseValidate Phase = "validate" // descriptor validation
	PhaseHost     Phase = "host"     // dev-harness host operations
)

// Kind categorizes the error
type Kind string

const (
	KindAllocation   Kind = "allocation"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindShortInput   Kind = "short_input"
	KindUnsupported  Kind = "unsupported"
	KindInvalidData  Kind = "invalid_data"
	KindInvalidUTF8  Kind = "invalid_utf8"
	KindWireFormat   Kind = "wire_format"
	KindNotFound     Kind = "not_found"
	KindDenied       Kind = "denied"
	KindLimit        Kind = "limit"
	KindHostFailure  Kind = "host_failure"
	KindInvalidInput Kind = "invalid_input"
)

// Error is the structured error type used throughout the PDK
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Export   string
	Param    string
	GoType   string
	Category string
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Export != "" {
		b.WriteString(" in export ")
		b.WriteString(e.Export)
	}
	if e.Param != "" {
		b.WriteString(" at parameter ")
		b.WriteString(e.Param)
	}

	if e.GoType != "" || e.Category != "" {
		b.WriteString(": ")
		switch {
		case e.GoType != "" && e.Category != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", category ")
			b.WriteString(e.Category)
		case e.GoType != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		default:
			b.WriteString("category ")
			b.WriteString(e.Category)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.Category != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Export sets the export name
func (b *Builder) Export(name string) *Builder {
	b.err.Export = name
	return b
}

// Param sets the offending parameter name
func (b *Builder) Param(name string) *Builder {
	b.err.Param = name
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Category sets the ABI type category name
func (b *Builder) Category(c string) *Builder {
	b.err.Category = c
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// AllocationFailed reports a host allocation refusal
func AllocationFailed(phase Phase, size uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("host refused allocation of %d bytes", size),
	}
}

// OutOfBounds reports a copy that does not fit its block or buffer
func OutOfBounds(phase Phase, n, limit uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("%d bytes exceed available %d", n, limit),
	}
}

// ShortInput reports an input block whose length does not match the
// declared parameter widths
func ShortInput(want, got uint64) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindShortInput,
		Detail: fmt.Sprintf("input block is %d bytes, declared parameters need %d", got, want),
	}
}

// Unsupported reports an unsupported shape or operation
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidInput reports malformed caller input
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// HostFailure wraps an error surfaced by the host side
func HostFailure(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindHostFailure,
		Detail: detail,
		Cause:  cause,
	}
}

// NotFound reports a missing export or key
func NotFound(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: what,
	}
}
