package schema

import (
	"fmt"

	"github.com/graphkit-go/graphkit/graphql/ast"
)

type ListType struct {
	Type Type
}

func NewListType(t Type) *ListType {
	return &ListType{
		Type: t,
	}
}

func (t *ListType) String() string {
	return "[" + t.Type.String() + "]"
}

func (t *ListType) IsInputType() bool {
	return t.Type.IsInputType()
}

func (t *ListType) IsOutputType() bool {
	return t.Type.IsOutputType()
}

func (t *ListType) IsSubTypeOf(other Type) bool {
	return t.IsSameType(other) || t.Type.IsSubTypeOf(other)
}

func (t *ListType) IsSameType(other Type) bool {
	if nn, ok := other.(*ListType); ok {
		return t.Type.IsSameType(nn.Type)
	}
	return false
}

func (t *ListType) Unwrap() Type {
	return t.Type
}

func (t *ListType) shallowValidate() error {
	if t.Type == nil {
		return fmt.Errorf("list types must wrap a type")
	}
	return nil
}

// coerceVariableValue coerces a JSON-decoded variable value to a list. If allowItemToListCoercion
// is true and the value is not itself a slice, it is treated as a single-element list, per the
// GraphQL spec's input coercion rules for list types.
func (t *ListType) coerceVariableValue(value interface{}, allowItemToListCoercion bool) (interface{}, error) {
	slice, ok := value.([]interface{})
	if !ok {
		if !allowItemToListCoercion {
			return nil, fmt.Errorf("expected a list")
		}
		coerced, err := coerceVariableValue(value, t.Type, false)
		if err != nil {
			return nil, err
		}
		return []interface{}{coerced}, nil
	}

	result := make([]interface{}, len(slice))
	for i, item := range slice {
		coerced, err := coerceVariableValue(item, t.Type, false)
		if err != nil {
			return nil, err
		}
		result[i] = coerced
	}
	return result, nil
}

// coerceLiteral coerces an AST literal to a list. If allowItemToListCoercion is true and the
// literal is not itself a list, it is treated as a single-element list.
func (t *ListType) coerceLiteral(from ast.Value, variableValues map[string]interface{}, allowItemToListCoercion bool) (interface{}, error) {
	list, ok := from.(*ast.ListValue)
	if !ok {
		if !allowItemToListCoercion {
			return nil, fmt.Errorf("expected a list")
		}
		coerced, err := coerceLiteral(from, t.Type, variableValues, true)
		if err != nil {
			return nil, err
		}
		return []interface{}{coerced}, nil
	}

	result := make([]interface{}, len(list.Values))
	for i, item := range list.Values {
		coerced, err := coerceLiteral(item, t.Type, variableValues, false)
		if err != nil {
			return nil, err
		}
		result[i] = coerced
	}
	return result, nil
}

func IsListType(t Type) bool {
	_, ok := t.(*ListType)
	return ok
}
