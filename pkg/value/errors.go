package value

import "fmt"

// ConversionErrorKind classifies why a conversion between a [Value] and a Go
// value was refused.
type ConversionErrorKind uint8

const (
	// TypeMismatch: the value's variant does not match what the target type
	// expects.
	TypeMismatch ConversionErrorKind = iota + 1
	// OutOfRange: a numeric value does not fit the target's numeric width.
	OutOfRange
	// MissingField: a required field is absent from a UDT's pairs.
	MissingField
	// ArityMismatch: a fixed-size target and the source sequence disagree on
	// length, or a cell index is outside the row.
	ArityMismatch
	// AlreadyConsumed: the cell was extracted before.
	AlreadyConsumed
)

func (k ConversionErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case OutOfRange:
		return "out of range"
	case MissingField:
		return "missing field"
	case ArityMismatch:
		return "arity mismatch"
	case AlreadyConsumed:
		return "already consumed"
	default:
		return "unknown"
	}
}

// ConversionError reports a failed conversion. Match it with errors.As and
// inspect Kind.
type ConversionError struct {
	Kind ConversionErrorKind

	// Source is a debug rendering of the value that failed to convert.
	Source string
	// Target names the Go type the value failed to convert to.
	Target string
	// Field is the missing field name when Kind is MissingField.
	Field string
	// Actual and Expected hold item counts when Kind is ArityMismatch; for
	// an out-of-range access Actual is the requested index.
	Actual, Expected int
}

func (e *ConversionError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("cannot convert %s to %s: missing field %q", e.Source, e.Target, e.Field)
	case ArityMismatch:
		return fmt.Sprintf("cannot convert %s to %s: expected %d items, got %d", e.Source, e.Target, e.Expected, e.Actual)
	case AlreadyConsumed:
		return fmt.Sprintf("cannot read %s: already consumed", e.Source)
	default:
		return fmt.Sprintf("cannot convert %s to %s: %s", e.Source, e.Target, e.Kind)
	}
}

func typeMismatch(src Value, target string) *ConversionError {
	return &ConversionError{Kind: TypeMismatch, Source: src.String(), Target: target}
}

func outOfRange(src, target string) *ConversionError {
	return &ConversionError{Kind: OutOfRange, Source: src, Target: target}
}

// MissingFieldError reports a UDT decode that could not find a required field.
func MissingFieldError(src Value, target, field string) *ConversionError {
	return &ConversionError{Kind: MissingField, Source: src.String(), Target: target, Field: field}
}

// ArityMismatchError reports a length disagreement between a source sequence
// and a fixed-size target.
func ArityMismatchError(source, target string, actual, expected int) *ConversionError {
	return &ConversionError{Kind: ArityMismatch, Source: source, Target: target, Actual: actual, Expected: expected}
}

// AlreadyConsumedError reports a second extraction of the same cell.
func AlreadyConsumedError(source string) *ConversionError {
	return &ConversionError{Kind: AlreadyConsumed, Source: source}
}
