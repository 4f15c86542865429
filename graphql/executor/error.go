package executor

import (
	"fmt"

	"github.com/graphkit-go/graphkit/graphql/ast"
	"github.com/graphkit-go/graphkit/graphql/validator"
)

// Kind categorizes the sort of problem a diagnostic describes.
type Kind string

const (
	KindParse              Kind = "PARSE"
	KindValidation         Kind = "VALIDATION"
	KindVariableCoercion   Kind = "VARIABLE_COERCION"
	KindLiteralCoercion    Kind = "LITERAL_COERCION"
	KindValueCoercion      Kind = "VALUE_COERCION"
	KindSerialization      Kind = "SERIALIZATION"
	KindResolver           Kind = "RESOLVER"
	KindNonNullViolation   Kind = "NON_NULL_VIOLATION"
	KindListExpected       Kind = "LIST_EXPECTED"
	KindAbstractResolution Kind = "ABSTRACT_RESOLUTION"
	KindAmbiguousOperation Kind = "AMBIGUOUS_OPERATION"
	KindCanceled           Kind = "CANCELED"
	KindInternal           Kind = "INTERNAL"
)

// Location represents the location of a character within a query's source text.
type Location struct {
	Line   int
	Column int
}

// Error represents an execution error.
type Error struct {
	// Executor error messages are formatted as sentences, e.g. "An error occurred."
	Message string

	// Nearly all errors have locations, which point to one or more relevant query tokens.
	Locations []Location

	// If the error occurred during the resolution of a particular field, a path will be present.
	Path []interface{}

	// Kind categorizes what sort of problem occurred, for programmatic handling by clients.
	Kind Kind

	originalError error
}

func (err *Error) Error() string {
	return err.Message
}

// If the error came from a resolver, you can get the original error with Unwrap.
func (err *Error) Unwrap() error {
	return err.originalError
}

func newError(node ast.Node, kind Kind, message string, args ...interface{}) *Error {
	return newErrorWithPath(node, kind, nil, message, args...)
}

func newErrorWithPath(node ast.Node, kind Kind, path *path, message string, args ...interface{}) *Error {
	ret := &Error{
		Message: fmt.Sprintf(message, args...),
		Kind:    kind,
	}
	if node != nil {
		ret.Locations = []Location{{
			Line:   node.Position().Line,
			Column: node.Position().Column,
		}}
	}
	if path != nil {
		ret.Path = path.Slice()
	}
	return ret
}

func newErrorWithValidatorError(kind Kind, err *validator.Error) *Error {
	if err == nil {
		return nil
	}
	ret := &Error{
		Message: err.Message,
		Kind:    kind,
	}
	for _, loc := range err.Locations {
		ret.Locations = append(ret.Locations, Location{
			Line:   loc.Line,
			Column: loc.Column,
		})
	}
	return ret
}
