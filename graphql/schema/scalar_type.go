package schema

import (
	"fmt"

	"github.com/graphkit-go/graphkit/graphql/ast"
)

// ScalarType represents a custom or built-in leaf type. Coercion is split into three directions:
// from a literal appearing in a query document, from a variable value supplied alongside a
// request, and from a resolver's result value on the way out.
type ScalarType struct {
	Name        string
	Description string
	Directives  []*Directive

	// LiteralCoercion coerces an AST literal to the scalar's Go representation. It must return nil
	// if coercion is impossible.
	LiteralCoercion func(ast.Value) interface{}

	// VariableValueCoercion coerces a JSON-decoded variable value to the scalar's Go
	// representation. It must return nil if coercion is impossible.
	VariableValueCoercion func(interface{}) interface{}

	// ResultCoercion coerces a resolver's result to a value appropriate for serialization. It must
	// return nil if coercion is impossible.
	ResultCoercion func(interface{}) interface{}
}

func (t *ScalarType) String() string {
	return t.Name
}

func (t *ScalarType) IsInputType() bool {
	return true
}

func (t *ScalarType) IsOutputType() bool {
	return true
}

func (t *ScalarType) IsSubTypeOf(other Type) bool {
	return t.IsSameType(other)
}

func (t *ScalarType) IsSameType(other Type) bool {
	return t == other
}

func (t *ScalarType) NamedType() string {
	return t.Name
}

// CoerceVariableValue coerces a JSON-decoded variable value using VariableValueCoercion.
func (t *ScalarType) CoerceVariableValue(v interface{}) (interface{}, error) {
	if t.VariableValueCoercion == nil {
		return nil, fmt.Errorf("%v does not support variable coercion", t.Name)
	}
	if coerced := t.VariableValueCoercion(v); coerced != nil {
		return coerced, nil
	}
	return nil, fmt.Errorf("cannot coerce %#v to %v", v, t.Name)
}

// CoerceResult coerces a resolver's return value for serialization using ResultCoercion.
func (t *ScalarType) CoerceResult(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if t.ResultCoercion == nil {
		return nil, fmt.Errorf("%v does not support result coercion", t.Name)
	}
	coerced := t.ResultCoercion(v)
	if coerced == nil {
		return nil, fmt.Errorf("cannot coerce %#v to %v", v, t.Name)
	}
	return coerced, nil
}

func (t *ScalarType) shallowValidate() error {
	if t.LiteralCoercion == nil {
		return fmt.Errorf("%v must define literal coercion", t.Name)
	}
	return nil
}

func IsScalarType(t Type) bool {
	_, ok := t.(*ScalarType)
	return ok
}
