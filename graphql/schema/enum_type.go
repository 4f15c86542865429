package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/graphkit-go/graphkit/graphql/ast"
)

// EnumType represents a GraphQL enum: a finite, named set of possible values. Each value may carry
// an internal Value distinct from its name, letting resolvers return host-language values (an
// iota, a database code) that get mapped back to the enum's name on the way out.
type EnumType struct {
	Name        string
	Description string
	Directives  []*Directive
	Values      map[string]*EnumValueDefinition
}

type EnumValueDefinition struct {
	Description       string
	Directives        []*Directive
	DeprecationReason string

	// Value is the internal representation of this enum value. If nil, the value's name is used
	// instead, and resolvers are expected to return that name as a string.
	Value interface{}
}

func (t *EnumType) String() string {
	return t.Name
}

func (t *EnumType) IsInputType() bool {
	return true
}

func (t *EnumType) IsOutputType() bool {
	return true
}

func (t *EnumType) IsSubTypeOf(other Type) bool {
	return t.IsSameType(other)
}

func (t *EnumType) IsSameType(other Type) bool {
	return t == other
}

func (t *EnumType) NamedType() string {
	return t.Name
}

func (t *EnumType) valueOf(def *EnumValueDefinition, name string) interface{} {
	if def.Value != nil {
		return def.Value
	}
	return name
}

// CoerceLiteral coerces an enum literal appearing in a query document. Lookup is case-sensitive,
// matching the GraphQL spec's treatment of enum value names as symbols rather than strings.
func (t *EnumType) CoerceLiteral(node ast.Value) (interface{}, error) {
	v, ok := node.(*ast.EnumValue)
	if !ok {
		return nil, fmt.Errorf("expected an enum value")
	}
	if def, ok := t.Values[v.Value]; ok {
		return t.valueOf(def, v.Value), nil
	}
	return nil, fmt.Errorf("%v is not a valid value for %v", v.Value, t.Name)
}

// CoerceVariableValue coerces a JSON-decoded variable value, which arrives as a bare string.
// Lookup is case-insensitive to tolerate the looser conventions of hand-written JSON payloads.
func (t *EnumType) CoerceVariableValue(v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected a string for %v, got %#v", t.Name, v)
	}
	for name, def := range t.Values {
		if strings.EqualFold(name, s) {
			return t.valueOf(def, name), nil
		}
	}
	return nil, fmt.Errorf("%v is not a valid value for %v", s, t.Name)
}

// CoerceResult reduces a resolver's returned value to the name of the matching enum value, for
// serialization. It compares against each value's underlying Value (or name, if Value is unset),
// so host types backed by distinct underlying representations (named int types, for example) are
// reduced to a comparable form before the comparison.
func (t *EnumType) CoerceResult(v interface{}) (interface{}, error) {
	for name, def := range t.Values {
		if enumValuesEqual(t.valueOf(def, name), v) {
			return name, nil
		}
	}
	return nil, fmt.Errorf("%#v is not a valid value for %v", v, t.Name)
}

func enumValuesEqual(defined, actual interface{}) bool {
	if defined == actual {
		return true
	}
	dv := reflect.ValueOf(defined)
	av := reflect.ValueOf(actual)
	if !dv.IsValid() || !av.IsValid() {
		return false
	}
	if dv.Kind() == av.Kind() {
		switch dv.Kind() {
		case reflect.String:
			return dv.String() == av.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return dv.Int() == av.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return dv.Uint() == av.Uint()
		}
	}
	return false
}

func (d *EnumType) shallowValidate() error {
	if len(d.Values) == 0 {
		return fmt.Errorf("%v must have at least one field", d.Name)
	} else {
		for name := range d.Values {
			if !isName(name) || name == "true" || name == "false" || name == "null" {
				return fmt.Errorf("illegal field name: %v", name)
			}
		}
	}
	return nil
}

func IsEnumType(t Type) bool {
	_, ok := t.(*EnumType)
	return ok
}
