package validator

import (
	"fmt"

	"github.com/graphkit-go/graphkit/graphql/ast"
	"github.com/graphkit-go/graphkit/graphql/schema"
	"github.com/graphkit-go/graphkit/graphql/schema/introspection"
)

func validateFields(doc *ast.Document, s *schema.Schema, features schema.FeatureSet, typeInfo *TypeInfo) []*Error {
	var ret []*Error

	var selectionSetTypes []schema.NamedType
	ast.Inspect(doc, func(node ast.Node) bool {
		if node == nil {
			selectionSetTypes = selectionSetTypes[:len(selectionSetTypes)-1]
			return true
		}

		var selectionSetType schema.NamedType

		switch node := node.(type) {
		case *ast.SelectionSet:
			selectionSetType = typeInfo.SelectionSetTypes[node]
		case *ast.Field:
			name := node.Name.Name

			shouldHaveSubselection := false

			if def := typeInfo.FieldDefinitions[node]; def != nil {
				switch schema.UnwrappedType(def.Type).(type) {
				case *schema.ObjectType, *schema.InterfaceType, *schema.UnionType:
					shouldHaveSubselection = true
				}
			} else if def == nil && name != "__typename" {
				ret = append(ret, newSecondaryError(node, "no type info for field"))
			}

			fieldExists := true

			if name != "__typename" {
				switch parent := selectionSetTypes[len(selectionSetTypes)-1].(type) {
				case *schema.ObjectType:
					if parent.GetField(name, features) == nil && (parent != s.QueryType() || introspection.MetaFields[name] == nil) {
						ret = append(ret, newError(node.Name, "field %v does not exist on %v%v", name, parent.Name, didYouMean(suggestNames(name, fieldNames(parent.Fields), 2, 5))))
						fieldExists = false
					}
				case *schema.InterfaceType:
					if parent.GetField(name, features) == nil {
						ret = append(ret, newError(node.Name, "field %v does not exist on %v%v", name, parent.Name, didYouMean(suggestNames(name, fieldNames(parent.Fields), 2, 5))))
						fieldExists = false
					}
				case *schema.UnionType:
					ret = append(ret, newError(node.Name, "field %v does not exist on %v", name, parent.Name))
					fieldExists = false
				}
			}

			if fieldExists {
				if shouldHaveSubselection {
					if node.SelectionSet == nil || len(node.SelectionSet.Selections) == 0 {
						ret = append(ret, newError(node, "%v field must have a subselection", name))
					}
				} else {
					if node.SelectionSet != nil {
						ret = append(ret, newError(node, "%v field cannot have a subselection", name))
					}
				}
			}
		}

		selectionSetTypes = append(selectionSetTypes, selectionSetType)
		return true
	})

	merger := &selectionMerger{
		fragmentDefinitions: documentFragments(doc),
		typeInfo:            typeInfo,
	}
	ast.Inspect(doc, func(node ast.Node) bool {
		if node, ok := node.(*ast.SelectionSet); ok {
			set, err := merger.collect(node)
			if err != nil {
				ret = append(ret, err)
				return false
			}
			if err := merger.validateCanMerge(set); err != nil {
				ret = append(ret, err)
				return false
			}
		}
		return true
	})

	return ret
}

// fieldNames collects the keys of a field map for use as suggestNames candidates.
func fieldNames(fields map[string]*schema.FieldDefinition) []string {
	ret := make([]string, 0, len(fields))
	for name := range fields {
		ret = append(ret, name)
	}
	return ret
}

// fieldAndParent pairs a selected field with the selection set it was selected from, which may
// differ from its sibling's parent once fragments are expanded.
type fieldAndParent struct {
	field  *ast.Field
	parent *ast.SelectionSet
}

// mergeSet groups the fields selected under a single response key, across every selection set and
// fragment spread contributing to it.
type mergeSet map[string][]fieldAndParent

// selectionMerger implements the "fields in set can merge" algorithm: overlapping fields selected
// under the same response key, possibly via different fragments, must resolve to compatible types
// and identical arguments.
type selectionMerger struct {
	fragmentDefinitions map[string]*ast.FragmentDefinition
	typeInfo            *TypeInfo
}

// collect flattens selectionSet (following inline fragments and fragment spreads) into a mergeSet
// grouped by response key.
func (m *selectionMerger) collect(selectionSet *ast.SelectionSet) (mergeSet, *Error) {
	set := mergeSet{}
	if err := m.addSelections(set, selectionSet, map[string]struct{}{}); err != nil {
		return nil, err
	}
	return set, nil
}

// addSelections walks selectionSet's selections into set, expanding inline fragments in place and
// fragment spreads by looking up their definition. visitedSpreads guards against a fragment that
// (directly or transitively) spreads itself; genuine fragment cycles are also reported by
// validateFragments, but a cycle here would otherwise recurse forever.
func (m *selectionMerger) addSelections(set mergeSet, selectionSet *ast.SelectionSet, visitedSpreads map[string]struct{}) *Error {
	if selectionSet == nil {
		return nil
	}

	for _, selection := range selectionSet.Selections {
		switch selection := selection.(type) {
		case *ast.Field:
			name := selection.Name.Name
			if selection.Alias != nil {
				name = selection.Alias.Name
			}
			set[name] = append(set[name], fieldAndParent{
				field:  selection,
				parent: selectionSet,
			})
		case *ast.InlineFragment:
			if err := m.addSelections(set, selection.SelectionSet, visitedSpreads); err != nil {
				return err
			}
		case *ast.FragmentSpread:
			spreadName := selection.Name.Name
			if _, ok := visitedSpreads[spreadName]; ok {
				continue
			}
			def, ok := m.fragmentDefinitions[spreadName]
			if !ok {
				continue
			}
			nested := map[string]struct{}{spreadName: {}}
			for name := range visitedSpreads {
				nested[name] = struct{}{}
			}
			if err := m.addSelections(set, def.SelectionSet, nested); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateCanMerge reports the first conflict among the fields in set, recursing into merged
// subselections where the spec allows fields selected via different concrete types to coexist.
func (m *selectionMerger) validateCanMerge(set mergeSet) *Error {
	for _, fields := range set {
		for i := 0; i < len(fields); i++ {
			for j := i + 1; j < len(fields); j++ {
				fieldA := fields[i].field
				fieldB := fields[j].field
				if err := m.validateSameResponseShape(fieldA, fieldB); err != nil {
					return err
				}

				parentTypeA := m.typeInfo.SelectionSetTypes[fields[i].parent]
				parentTypeB := m.typeInfo.SelectionSetTypes[fields[j].parent]
				if parentTypeA == nil {
					return newSecondaryError(fields[i].parent, "no type info for selection set")
				} else if parentTypeB == nil {
					return newSecondaryError(fields[j].parent, "no type info for selection set")
				}

				_, aIsObject := parentTypeA.(*schema.ObjectType)
				_, bIsObject := parentTypeB.(*schema.ObjectType)
				if !parentTypeA.IsSameType(parentTypeB) && aIsObject && bIsObject {
					continue
				}

				if fieldA.Name.Name != fieldB.Name.Name {
					return newErrorWithNodes([]ast.Node{fieldA.Name, fieldB.Name}, "cannot merge fields with different names")
				}

				if err := m.validateIdenticalArguments(fieldA, fieldB); err != nil {
					return err
				}

				merged, err := m.mergeFieldSelections(fieldA, fieldB)
				if err != nil {
					return err
				}
				if err := m.validateCanMerge(merged); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (m *selectionMerger) validateIdenticalArguments(fieldA, fieldB *ast.Field) *Error {
	if len(fieldA.Arguments) != len(fieldB.Arguments) {
		return newErrorWithNodes([]ast.Node{fieldA, fieldB}, "cannot merge fields with differing arguments")
	}
	argsA := map[string]*ast.Argument{}
	for _, arg := range fieldA.Arguments {
		argsA[arg.Name.Name] = arg
	}
	for _, argB := range fieldB.Arguments {
		argA, ok := argsA[argB.Name.Name]
		if !ok {
			return newErrorWithNodes([]ast.Node{argB}, "cannot merge fields with differing arguments")
		}
		if !valuesAreIdentical(argA.Value, argB.Value) {
			return newErrorWithNodes([]ast.Node{argA, argB}, "cannot merge fields with differing arguments")
		}
	}
	return nil
}

func (m *selectionMerger) mergeFieldSelections(fieldA, fieldB *ast.Field) (mergeSet, *Error) {
	merged := mergeSet{}
	if err := m.addSelections(merged, fieldA.SelectionSet, map[string]struct{}{}); err != nil {
		return nil, err
	}
	if err := m.addSelections(merged, fieldB.SelectionSet, map[string]struct{}{}); err != nil {
		return nil, err
	}
	return merged, nil
}

func valuesAreIdentical(a, b ast.Value) bool {
	switch a := a.(type) {
	case *ast.Variable:
		b, ok := b.(*ast.Variable)
		return ok && b.Name.Name == a.Name.Name
	case *ast.BooleanValue:
		b, ok := b.(*ast.BooleanValue)
		return ok && b.Value == a.Value
	case *ast.FloatValue:
		b, ok := b.(*ast.FloatValue)
		return ok && b.Value == a.Value
	case *ast.IntValue:
		b, ok := b.(*ast.IntValue)
		return ok && b.Value == a.Value
	case *ast.StringValue:
		b, ok := b.(*ast.StringValue)
		return ok && b.Value == a.Value
	case *ast.EnumValue:
		b, ok := b.(*ast.EnumValue)
		return ok && b.Value == a.Value
	case *ast.NullValue:
		_, ok := b.(*ast.NullValue)
		return ok
	case *ast.ListValue:
		b, ok := b.(*ast.ListValue)
		if !ok || len(a.Values) != len(b.Values) {
			return false
		}
		for i := 0; i < len(a.Values); i++ {
			if !valuesAreIdentical(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case *ast.ObjectValue:
		b, ok := b.(*ast.ObjectValue)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := 0; i < len(a.Fields); i++ {
			a := a.Fields[i]
			b := b.Fields[i]
			if a.Name.Name != b.Name.Name || !valuesAreIdentical(a.Value, b.Value) {
				return false
			}
		}
		return true
	}
	panic(fmt.Sprintf("unexpected value type: %T", a))
}

// validateSameResponseShape implements the recursive "SameResponseShape" check: two fields
// selected under the same response key must agree on nullability and list nesting all the way
// down to a common scalar/enum type, or recursively agree field-by-field if they bottom out in a
// composite type.
func (m *selectionMerger) validateSameResponseShape(fieldA, fieldB *ast.Field) *Error {
	typeA, err := m.responseType(fieldA)
	if err != nil {
		return err
	}
	typeB, err := m.responseType(fieldB)
	if err != nil {
		return err
	}

	for {
		if schema.IsNonNullType(typeA) || schema.IsNonNullType(typeB) {
			nonNullTypeA, ok := typeA.(*schema.NonNullType)
			if !ok {
				return newErrorWithNodes([]ast.Node{fieldA, fieldB}, "cannot merge non-null and nullable fields")
			}
			typeA = nonNullTypeA.Type
			nonNullTypeB, ok := typeB.(*schema.NonNullType)
			if !ok {
				return newErrorWithNodes([]ast.Node{fieldA, fieldB}, "cannot merge non-null and nullable fields")
			}
			typeB = nonNullTypeB.Type
		}

		if !schema.IsListType(typeA) && !schema.IsListType(typeB) {
			break
		}
		listTypeA, ok := typeA.(*schema.ListType)
		if !ok {
			return newErrorWithNodes([]ast.Node{fieldA, fieldB}, "cannot merge list and non-list fields")
		}
		typeA = listTypeA.Type
		listTypeB, ok := typeB.(*schema.ListType)
		if !ok {
			return newErrorWithNodes([]ast.Node{fieldA, fieldB}, "cannot merge list and non-list fields")
		}
		typeB = listTypeB.Type
	}

	if schema.IsScalarType(typeA) || schema.IsScalarType(typeB) || schema.IsEnumType(typeA) || schema.IsEnumType(typeB) {
		if typeA.IsSameType(typeB) {
			return nil
		}
		return newErrorWithNodes([]ast.Node{fieldA, fieldB}, "non-composite fields of the same name must be the same")
	}

	merged, err := m.mergeFieldSelections(fieldA, fieldB)
	if err != nil {
		return err
	}

	for _, fields := range merged {
		for i := 0; i < len(fields); i++ {
			for j := i + 1; j < len(fields); j++ {
				if err := m.validateSameResponseShape(fields[i].field, fields[j].field); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// responseType returns the type a field's value will be serialized as, treating __typename as an
// implicit non-null String field since it has no FieldDefinition of its own.
func (m *selectionMerger) responseType(f *ast.Field) (schema.Type, *Error) {
	if f.Name.Name == "__typename" {
		return schema.NewNonNullType(schema.StringType), nil
	}
	def := m.typeInfo.FieldDefinitions[f]
	if def == nil {
		return nil, newSecondaryError(f, "no type info for field")
	}
	return def.Type, nil
}
