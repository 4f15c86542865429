package validator

import (
	"github.com/graphkit-go/graphkit/graphql/ast"
	"github.com/graphkit-go/graphkit/graphql/schema"
)

// validateDirectives implements DirectivesAreDefined, DirectivesAreInValidLocations, and
// DirectivesAreUniquePerLocation.
func validateDirectives(doc *ast.Document, s *schema.Schema, features schema.FeatureSet, typeInfo *TypeInfo) []*Error {
	var ret []*Error
	ast.Inspect(doc, func(node ast.Node) bool {
		var directives []*ast.Directive
		var location schema.DirectiveLocation

		switch node := node.(type) {
		case *ast.OperationDefinition:
			directives = node.Directives
			location = operationDirectiveLocation(node)
		case *ast.FragmentDefinition:
			directives = node.Directives
			location = schema.DirectiveLocationFragmentDefinition
		case *ast.Field:
			directives = node.Directives
			location = schema.DirectiveLocationField
		case *ast.FragmentSpread:
			directives = node.Directives
			location = schema.DirectiveLocationFragmentSpread
		case *ast.InlineFragment:
			directives = node.Directives
			location = schema.DirectiveLocationInlineFragment
		case *ast.Directive:
			ret = append(ret, newError(node, "unsupported directive location"))
		}

		if len(directives) == 0 {
			return true
		}

		directiveNames := map[string]struct{}{}
		for _, directive := range directives {
			name := directive.Name.Name

			if def := s.DirectiveDefinition(name); def == nil {
				ret = append(ret, newError(directive, "undefined directive"))
			} else {
				allowedLocation := false
				for _, allowed := range def.Locations {
					if allowed == location {
						allowedLocation = true
						break
					}
				}
				if !allowedLocation {
					ret = append(ret, newError(directive, "this directive is not allowed at this location"))
				}
			}

			if _, ok := directiveNames[name]; ok {
				ret = append(ret, newError(directive, "directive already exists at this location"))
			} else {
				directiveNames[name] = struct{}{}
			}
		}
		return false
	})
	return ret
}

func operationDirectiveLocation(node *ast.OperationDefinition) schema.DirectiveLocation {
	op := node.OperationType
	switch {
	case op == nil || op.Value == "query":
		return schema.DirectiveLocationQuery
	case op.Value == "mutation":
		return schema.DirectiveLocationMutation
	case op.Value == "subscription":
		return schema.DirectiveLocationSubscription
	}
	return ""
}
