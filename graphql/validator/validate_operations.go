package validator

import (
	"github.com/graphkit-go/graphkit/graphql/ast"
	"github.com/graphkit-go/graphkit/graphql/schema"
)

// validateOperations checks operation-level structural rules: names must be unique, an anonymous
// operation must be the document's only operation, every operation must resolve to a known root
// type, and a subscription's root selection set may only name a single field (LoneRootField).
func validateOperations(doc *ast.Document, schema *schema.Schema, features schema.FeatureSet, typeInfo *TypeInfo) []*Error {
	var ret []*Error

	merger := &selectionMerger{fragmentDefinitions: documentFragments(doc), typeInfo: typeInfo}

	operations := doc.Operations()
	operationNames := map[string]struct{}{}

	for _, def := range operations {
		if def.Name == nil {
			continue
		}
		if _, ok := operationNames[def.Name.Name]; ok {
			ret = append(ret, newError(def.Name, "an operation with this name already exists"))
		} else {
			operationNames[def.Name.Name] = struct{}{}
		}
	}

	for _, def := range operations {
		if _, ok := typeInfo.SelectionSetTypes[def.SelectionSet]; !ok {
			ret = append(ret, newError(def, "unsupported operation type"))
		}

		if def.IsSubscription() {
			set, err := merger.collect(def.SelectionSet)
			if err != nil {
				ret = append(ret, err)
			} else if len(set) != 1 {
				ret = append(ret, newError(def, "subscriptions may only have one root field"))
			}
		}
	}

	anonymousOperationCount := 0
	for _, def := range operations {
		if def.Name == nil {
			anonymousOperationCount++
		}
	}
	if anonymousOperationCount > 0 && len(operations) > 1 {
		ret = append(ret, newError(operations[1], "only one operation is allowed when an anonymous operation is present"))
	}

	return ret
}
