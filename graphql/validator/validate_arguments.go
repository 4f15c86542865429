package validator

import (
	"github.com/graphkit-go/graphkit/graphql/ast"
	"github.com/graphkit-go/graphkit/graphql/schema"
)

// validateArguments implements ArgumentNames, ArgumentUniqueness, and RequiredArgumentsArePresent
// for every field and directive argument list in the document.
func validateArguments(doc *ast.Document, s *schema.Schema, features schema.FeatureSet, typeInfo *TypeInfo) []*Error {
	var ret []*Error
	ast.Inspect(doc, func(node ast.Node) bool {
		arguments, argumentDefinitions, ok := argumentsFor(node, s, typeInfo, &ret)
		if !ok {
			return false
		}
		if len(arguments) == 0 && len(argumentDefinitions) == 0 {
			return true
		}
		ret = append(ret, validateArgumentList(node, arguments, argumentDefinitions)...)
		return false
	})
	return ret
}

// argumentsFor resolves the arguments and argument definitions applicable to node, if any. The
// second return value is false when node's own location is itself invalid (unsupported argument
// location, undefined directive, or missing field type info), in which case traversal into its
// children should stop.
func argumentsFor(node ast.Node, s *schema.Schema, typeInfo *TypeInfo, errs *[]*Error) ([]*ast.Argument, map[string]*schema.InputValueDefinition, bool) {
	switch node := node.(type) {
	case *ast.Directive:
		def := s.Directives()[node.Name.Name]
		if def == nil {
			*errs = append(*errs, newSecondaryError(node, "undefined directive"))
			return nil, nil, false
		}
		return node.Arguments, def.Arguments, true
	case *ast.Field:
		def := typeInfo.FieldDefinitions[node]
		if def == nil && node.Name.Name != "__typename" {
			*errs = append(*errs, newSecondaryError(node, "no type info for field"))
			return nil, nil, false
		}
		var argumentDefinitions map[string]*schema.InputValueDefinition
		if def != nil {
			argumentDefinitions = def.Arguments
		}
		return node.Arguments, argumentDefinitions, true
	case *ast.Argument:
		*errs = append(*errs, newError(node, "unsupported argument location"))
		return nil, nil, true
	}
	return nil, nil, true
}

func validateArgumentList(node ast.Node, arguments []*ast.Argument, argumentDefinitions map[string]*schema.InputValueDefinition) []*Error {
	var ret []*Error

	argumentsByName := map[string]*ast.Argument{}
	for _, argument := range arguments {
		name := argument.Name.Name
		if def := argumentDefinitions[name]; def == nil {
			ret = append(ret, newError(argument, "undefined argument"))
		} else if _, ok := argumentsByName[name]; ok {
			ret = append(ret, newError(argument, "duplicate argument"))
		} else {
			argumentsByName[name] = argument
		}
	}

	for name, def := range argumentDefinitions {
		if !schema.IsNonNullType(def.Type) || def.DefaultValue != nil {
			continue
		}
		if arg, ok := argumentsByName[name]; !ok {
			ret = append(ret, newError(node, "the %v argument is required", name))
		} else if ast.IsNullValue(arg.Value) {
			// primarily checked during value validation
			ret = append(ret, newSecondaryError(arg.Value, "the %v argument cannot be null", name))
		}
	}

	return ret
}
