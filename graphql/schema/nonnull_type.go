package schema

import "fmt"

// NonNullType wraps another type, forbidding null as a value. Resolvers that return nil (or error)
// for a non-null field turn the violation into a null-bubbling error at the nearest nullable
// ancestor during execution.
type NonNullType struct {
	Type Type
}

// NewNonNullType wraps t so that null is no longer a valid value.
func NewNonNullType(t Type) *NonNullType {
	return &NonNullType{
		Type: t,
	}
}

func (t *NonNullType) String() string {
	return t.Type.String() + "!"
}

func (t *NonNullType) IsInputType() bool {
	return t.Type.IsInputType()
}

func (t *NonNullType) IsOutputType() bool {
	return t.Type.IsOutputType()
}

func (t *NonNullType) IsSubTypeOf(other Type) bool {
	if nn, ok := other.(*NonNullType); ok {
		return t.Type.IsSubTypeOf(nn.Type)
	}
	return t.Type.IsSubTypeOf(other)
}

func (t *NonNullType) IsSameType(other Type) bool {
	nn, ok := other.(*NonNullType)
	return ok && t.Type.IsSameType(nn.Type)
}

// Unwrap returns the wrapped, nullable type.
func (t *NonNullType) Unwrap() Type {
	return t.Type
}

func (t *NonNullType) shallowValidate() error {
	if IsNonNullType(t.Type) {
		return fmt.Errorf("a non-null type cannot wrap another non-null type")
	}
	return nil
}

// IsNonNullType reports whether t is a *NonNullType.
func IsNonNullType(t Type) bool {
	_, ok := t.(*NonNullType)
	return ok
}

// NullableType strips any number of non-null wrappers from t, returning the outermost nullable
// type. List wrappers are not stripped: NullableType of [Int!]! is [Int!]. UnwrappedType strips
// both kinds of wrapper.
func NullableType(t Type) Type {
	for {
		nnt, ok := t.(*NonNullType)
		if !ok {
			return t
		}
		t = nnt.Unwrap()
	}
}
