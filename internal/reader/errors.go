package reader

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// RegularError means a form was recognised but is not valid, or no literal
	// candidate accepted a token.
	RegularError ErrorKind = iota
	// NestingError means delimiters do not balance. It always aborts the read.
	NestingError
)

func (k ErrorKind) String() string {
	switch k {
	case NestingError:
		return "NestingError"
	default:
		return "RegularError"
	}
}

// ParseError reports where and why reading failed. Offset is a byte offset
// into the trimmed input.
type ParseError struct {
	Kind       ErrorKind
	Msg        string
	Offset     int
	Incomplete bool // input ended inside an open form
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Msg)
}

func regularError(offset int, format string, args ...any) *ParseError {
	return &ParseError{Kind: RegularError, Msg: fmt.Sprintf(format, args...), Offset: offset}
}

func nestingError(offset int, format string, args ...any) *ParseError {
	return &ParseError{Kind: NestingError, Msg: fmt.Sprintf(format, args...), Offset: offset}
}

func incompleteError(offset int, format string, args ...any) *ParseError {
	e := nestingError(offset, format, args...)
	e.Incomplete = true
	return e
}

// IsNesting reports whether err is an unbalanced-delimiter error.
func IsNesting(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == NestingError
}

// IsIncomplete reports whether err was caused by input ending inside an open
// collection, string or quote. More input may complete it.
func IsIncomplete(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Incomplete
}
