package schema

import "fmt"

// InputValueDefinition defines an input value such as an argument.
type InputValueDefinition struct {
	Description string
	Type        Type

	// For null, set this to Null.
	DefaultValue interface{}

	Directives []*Directive
}

type explicitNull struct{}

// Null is a sentinel DefaultValue distinguishing "defaults to null" from "has no default".
var Null = (*explicitNull)(nil)

// HasDefault reports whether d declares a default value, explicit null included.
func (d *InputValueDefinition) HasDefault() bool {
	return d.DefaultValue != nil
}

// defaultValueOrNil returns d's default value, translating the Null sentinel to an actual nil.
func (d *InputValueDefinition) defaultValueOrNil() interface{} {
	if d.DefaultValue == Null {
		return nil
	}
	return d.DefaultValue
}

func (d *InputValueDefinition) shallowValidate() error {
	if d.Type == nil {
		return fmt.Errorf("input value is missing type")
	} else if !d.Type.IsInputType() {
		return fmt.Errorf("%v cannot be used as an input value type", d.Type)
	}
	if d.HasDefault() && d.DefaultValue != Null {
		if obj, ok := d.Type.(*InputObjectType); ok && obj.ResultCoercion == nil {
			return fmt.Errorf("input values of type %v require a result coercion function to carry a non-null default", d.Type)
		}
	}
	return nil
}
