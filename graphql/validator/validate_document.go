package validator

import (
	"github.com/graphkit-go/graphkit/graphql/ast"
	"github.com/graphkit-go/graphkit/graphql/schema"
)

// validateDocument implements ExecutableDefinitions: every top-level definition in a request
// document must be an operation or a fragment, ruling out the type-system definitions (SDL
// constructs) that are only legal in a schema document.
func validateDocument(doc *ast.Document, schema *schema.Schema, features schema.FeatureSet, typeInfo *TypeInfo) []*Error {
	var ret []*Error
	for _, def := range doc.Definitions {
		if !isExecutableDefinition(def) {
			ret = append(ret, newError(def, "definitions must define an operation or fragment"))
		}
	}
	return ret
}

func isExecutableDefinition(def ast.Definition) bool {
	switch def.(type) {
	case *ast.OperationDefinition, *ast.FragmentDefinition:
		return true
	}
	return false
}
