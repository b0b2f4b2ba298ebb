package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies generation failures. Every kind is fatal for the
// definition being processed.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindMapping
	KindOverloadAmbiguity
	KindOverloadLength
	KindOverloadAttributeConflict
	KindStructural
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "MappingError"
	case KindOverloadAmbiguity:
		return "OverloadAmbiguityError"
	case KindOverloadLength:
		return "OverloadLengthError"
	case KindOverloadAttributeConflict:
		return "OverloadAttributeConflictError"
	case KindStructural:
		return "StructuralError"
	}
	return "Error"
}

// Sentinels for errors.Is.
var (
	ErrMapping                   = errors.New("mapping error")
	ErrOverloadAmbiguity         = errors.New("overload ambiguity")
	ErrOverloadLength            = errors.New("overload length")
	ErrOverloadAttributeConflict = errors.New("overload attribute conflict")
	ErrStructural                = errors.New("structural error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindMapping:
		return ErrMapping
	case KindOverloadAmbiguity:
		return ErrOverloadAmbiguity
	case KindOverloadLength:
		return ErrOverloadLength
	case KindOverloadAttributeConflict:
		return ErrOverloadAttributeConflict
	case KindStructural:
		return ErrStructural
	}
	return nil
}

// Error is a generation failure with enough context to find the offending
// IDL member. Arity is -1 when it does not apply.
type Error struct {
	Kind     Kind
	Code     Code
	Location Location
	Message  string
	Arity    int
	Types    []string
	Cause    error
}

// Errorf builds an *Error without location; callers add it with At.
func Errorf(kind Kind, code Code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...), Arity: -1}
}

// Wrap builds an *Error around cause, using its text as the message.
func Wrap(kind Kind, code Code, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: cause.Error(), Arity: -1, Cause: cause}
}

// WithArity records the arity and type list involved in an overload failure.
func (e *Error) WithArity(arity int, types []string) *Error {
	e.Arity = arity
	e.Types = append([]string(nil), types...)
	return e
}

// At fills location parts that are still empty. Inner layers set the most
// specific location first, outer layers only complete it.
func (e *Error) At(definition, member string) *Error {
	if e.Location.Definition == "" {
		e.Location.Definition = definition
	}
	if e.Location.Member == "" {
		e.Location.Member = member
	}
	return e
}

// InFile sets the input file when still unknown.
func (e *Error) InFile(file string) *Error {
	if e.Location.File == "" {
		e.Location.File = file
	}
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if !e.Location.IsZero() {
		b.WriteString(" in ")
		b.WriteString(e.Location.String())
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}

// Diagnostic converts the error into an error-severity diagnostic.
func (e *Error) Diagnostic() Diagnostic {
	d := NewError(e.Code, e.Location, e.Message)
	if e.Arity >= 0 {
		d = d.WithNote(e.Location, fmt.Sprintf("arity %d, types [%s]", e.Arity, strings.Join(e.Types, ", ")))
	}
	return d
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// DiagnosticOf converts any error; non-*Error values get UnknownCode at
// fallback.
func DiagnosticOf(err error, fallback Location) Diagnostic {
	if e, ok := AsError(err); ok {
		d := e.Diagnostic()
		if d.Primary.IsZero() {
			d.Primary = fallback
		}
		return d
	}
	return NewError(UnknownCode, fallback, err.Error())
}
