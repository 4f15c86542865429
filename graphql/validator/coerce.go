package validator

import (
	"github.com/graphkit-go/graphkit/graphql/ast"
	"github.com/graphkit-go/graphkit/graphql/schema"
)

// CoerceVariableValues applies the CoerceVariableValues algorithm: each declared variable is
// type-checked and defaulted or required as appropriate, producing the map an operation's field
// arguments are ultimately coerced against.
func CoerceVariableValues(s *schema.Schema, operation *ast.OperationDefinition, variableValues map[string]interface{}) (map[string]interface{}, *Error) {
	coercedValues := map[string]interface{}{}
	for _, def := range operation.VariableDefinitions {
		variableName := def.Variable.Name.Name
		variableType := schemaType(def.Type, s)
		if variableType == nil || !variableType.IsInputType() {
			return nil, newError(def.Type, "Invalid variable type.")
		}
		value, hasValue := variableValues[variableName]

		if !hasValue && def.DefaultValue != nil {
			coerced, err := schema.CoerceLiteral(def.DefaultValue, variableType, variableValues)
			if err != nil {
				return nil, newError(def.DefaultValue, "Invalid default value for $%v: %v", variableName, err.Error())
			}
			coercedValues[variableName] = coerced
			continue
		} else if schema.IsNonNullType(variableType) && !hasValue {
			return nil, newError(def.Variable, "The %v variable is required.", variableName)
		} else if hasValue {
			coerced, err := schema.CoerceVariableValue(value, variableType)
			if err != nil {
				return nil, newError(def.Variable, "Invalid $%v value: %v", variableName, err.Error())
			}
			coercedValues[variableName] = coerced
		}
	}
	return coercedValues, nil
}

// CoerceArgumentValues applies the CoerceArgumentValues algorithm to a field or directive's
// argument list, resolving variable references against variableValues.
func CoerceArgumentValues(node ast.Node, argumentDefinitions map[string]*schema.InputValueDefinition, arguments []*ast.Argument, variableValues map[string]interface{}) (map[string]interface{}, *Error) {
	var coercedValues map[string]interface{}
	set := func(name string, value interface{}) {
		if coercedValues == nil {
			coercedValues = map[string]interface{}{}
		}
		coercedValues[name] = value
	}

	argumentValues := map[string]ast.Value{}
	for _, arg := range arguments {
		argumentValues[arg.Name.Name] = arg.Value
	}

	for argumentName, argumentDefinition := range argumentDefinitions {
		argumentType := argumentDefinition.Type
		defaultValue := argumentDefinition.DefaultValue

		argumentValue, hasValue := argumentValues[argumentName]

		if argumentValue, ok := argumentValue.(*ast.Variable); ok {
			_, hasValue = variableValues[argumentValue.Name.Name]
		}

		switch {
		case !hasValue && defaultValue != nil:
			if defaultValue == schema.Null {
				defaultValue = nil
			}
			set(argumentName, defaultValue)
		case schema.IsNonNullType(argumentType) && !hasValue:
			return nil, newError(node, "The %v argument is required.", argumentName)
		case hasValue:
			if argVariable, ok := argumentValue.(*ast.Variable); ok {
				set(argumentName, variableValues[argVariable.Name.Name])
			} else if coerced, err := schema.CoerceLiteral(argumentValue, argumentType, variableValues); err != nil {
				return nil, newError(argumentValue, "Invalid argument value: %v", err.Error())
			} else {
				set(argumentName, coerced)
			}
		}
	}

	return coercedValues, nil
}
