package schema

import (
	"fmt"
)

// InterfaceType is a GraphQL interface type: a set of fields that implementing object types must
// provide, used to let a field return one of several possible concrete types.
type InterfaceType struct {
	Name        string
	Description string
	Directives  []*Directive
	Fields      map[string]*FieldDefinition

	// RequiredFeatures gates visibility of the type behind a set of enabled feature names.
	RequiredFeatures FeatureSet
}

func (t *InterfaceType) String() string {
	return t.Name
}

func (t *InterfaceType) IsInputType() bool {
	return false
}

func (t *InterfaceType) IsOutputType() bool {
	return true
}

func (t *InterfaceType) IsSubTypeOf(other Type) bool {
	return t.IsSameType(other)
}

func (t *InterfaceType) IsSameType(other Type) bool {
	return t == other
}

func (t *InterfaceType) NamedType() string {
	return t.Name
}

// GetField returns the field with the given name, or nil if no such field exists or either the
// field or the type itself requires a feature not present in features.
func (t *InterfaceType) GetField(name string, features FeatureSet) *FieldDefinition {
	if !t.RequiredFeatures.IsSubsetOf(features) {
		return nil
	}
	field, ok := t.Fields[name]
	if !ok || !field.RequiredFeatures.IsSubsetOf(features) {
		return nil
	}
	return field
}

func (t *InterfaceType) shallowValidate() error {
	if len(t.Fields) == 0 {
		return fmt.Errorf("%v must have at least one field", t.Name)
	} else {
		for name := range t.Fields {
			if isReservedName(name) {
				return fmt.Errorf("illegal field name: %v", name)
			}
		}
	}
	return nil
}
