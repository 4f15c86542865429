package validator

import (
	"fmt"

	"github.com/graphkit-go/graphkit/graphql/ast"
	"github.com/graphkit-go/graphkit/graphql/schema"
)

// validateFragments covers every fragment-related rule: FragmentNameUniqueness,
// FragmentsOnCompositeTypes, FragmentsMustBeUsed, FragmentSpreadTargetDefined,
// FragmentSpreadsMustNotFormCycles, and FragmentSpreadIsPossible.
func validateFragments(doc *ast.Document, s *schema.Schema, features schema.FeatureSet, typeInfo *TypeInfo) []*Error {
	ret := validateFragmentDeclarations(doc, s, features, typeInfo)
	ret = append(ret, validateFragmentSpreads(doc, s, features, typeInfo)...)
	return ret
}

func validateFragmentDeclarations(doc *ast.Document, s *schema.Schema, features schema.FeatureSet, typeInfo *TypeInfo) []*Error {
	var ret []*Error

	validateTypeCondition := func(tc *ast.NamedType) {
		switch namedType(s, features, tc.Name.Name).(type) {
		case *schema.ObjectType, *schema.InterfaceType, *schema.UnionType:
		case nil:
			ret = append(ret, newError(tc.Name, "undefined type"))
		default:
			ret = append(ret, newError(tc.Name, "fragments may only be defined on objects, interfaces, and unions"))
		}
	}

	fragmentsByName := map[string]*ast.FragmentDefinition{}
	for _, def := range doc.Definitions {
		if def, ok := def.(*ast.FragmentDefinition); ok {
			if _, ok := fragmentsByName[def.Name.Name]; ok {
				ret = append(ret, newError(def.Name, "a fragment with this name already exists"))
			} else {
				fragmentsByName[def.Name.Name] = def
			}
			validateTypeCondition(def.TypeCondition)
		}
	}

	usedFragments := map[string]struct{}{}
	ast.Inspect(doc, func(node ast.Node) bool {
		switch node := node.(type) {
		case *ast.FragmentSpread:
			usedFragments[node.FragmentName.Name] = struct{}{}
		case *ast.InlineFragment:
			if node.TypeCondition != nil {
				validateTypeCondition(node.TypeCondition)
			}
		}
		return true
	})

	for name, def := range fragmentsByName {
		if _, ok := usedFragments[name]; !ok {
			ret = append(ret, newError(def, "unused fragment"))
		}
	}

	return ret
}

// validateFragmentSpreads checks FragmentSpreadTargetDefined, FragmentSpreadsMustNotFormCycles, and
// FragmentSpreadIsPossible for every spread (named or inline) in the document.
func validateFragmentSpreads(doc *ast.Document, s *schema.Schema, features schema.FeatureSet, typeInfo *TypeInfo) []*Error {
	var ret []*Error

	fragmentsByName := documentFragments(doc)
	deps := fragmentDependencies(fragmentsByName)
	for name, def := range fragmentsByName {
		if dependsOnItself(name, deps) {
			ret = append(ret, newError(def, "fragment cycle detected"))
		}
	}

	spreadValidator := &fragmentSpreadValidator{
		schema:   s,
		features: features,
	}

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
		case *ast.FragmentSpread:
			name := node.FragmentName.Name
			if def, ok := fragmentsByName[name]; !ok {
				ret = append(ret, newError(node.FragmentName, "undefined fragment"))
			} else if err := spreadValidator.validate(def.TypeCondition, selectionSetTypes[len(selectionSetTypes)-1]); err != nil {
				ret = append(ret, err)
			}
		case *ast.InlineFragment:
			if node.TypeCondition != nil {
				if err := spreadValidator.validate(node.TypeCondition, selectionSetTypes[len(selectionSetTypes)-1]); err != nil {
					ret = append(ret, err)
				}
			}
		}
		selectionSetTypes = append(selectionSetTypes, selectionSetType)
		return true
	})

	return ret
}

// fragmentDependencies maps each fragment name to the set of fragment names it spreads directly.
func fragmentDependencies(fragmentsByName map[string]*ast.FragmentDefinition) map[string]map[string]struct{} {
	ret := map[string]map[string]struct{}{}
	for name, def := range fragmentsByName {
		deps := map[string]struct{}{}
		ast.Inspect(def, func(node ast.Node) bool {
			if node, ok := node.(*ast.FragmentSpread); ok {
				deps[node.FragmentName.Name] = struct{}{}
			}
			return true
		})
		ret[name] = deps
	}
	return ret
}

// dependsOnItself reports whether name is reachable from itself by following deps transitively.
func dependsOnItself(name string, deps map[string]map[string]struct{}) bool {
	toVisit := []string{name}
	encountered := map[string]struct{}{}
	for i := 0; i < len(toVisit); i++ {
		for dep := range deps[toVisit[i]] {
			if _, ok := encountered[dep]; ok {
				continue
			}
			if dep == name {
				return true
			}
			toVisit = append(toVisit, dep)
			encountered[dep] = struct{}{}
		}
	}
	return false
}

// fragmentSpreadValidator implements FragmentSpreadIsPossible: a fragment's type condition must
// share at least one possible concrete type with the selection set it's spread into.
type fragmentSpreadValidator struct {
	schema   *schema.Schema
	features schema.FeatureSet
}

func (v *fragmentSpreadValidator) validate(tc *ast.NamedType, parentType schema.NamedType) *Error {
	if parentType == nil {
		return newSecondaryError(tc, "no type info for fragment spread parent")
	}
	switch fragmentType := namedType(v.schema, v.features, tc.Name.Name).(type) {
	case *schema.ObjectType, *schema.InterfaceType, *schema.UnionType:
		possible := getPossibleTypes(v.schema, fragmentType)
		parentPossible := getPossibleTypes(v.schema, parentType)
		for k := range possible {
			if _, ok := parentPossible[k]; ok {
				return nil
			}
		}
		return newError(tc, "impossible fragment spread")
	}
	return nil
}

func getPossibleTypes(s *schema.Schema, t schema.NamedType) map[string]schema.NamedType {
	ret := map[string]schema.NamedType{}
	switch t := t.(type) {
	case *schema.ObjectType:
		ret[t.Name] = t
	case *schema.InterfaceType:
		for _, obj := range s.InterfaceImplementations(t.Name) {
			ret[obj.Name] = obj
		}
	case *schema.UnionType:
		for _, t := range t.MemberTypes {
			ret[t.NamedType()] = t
		}
	default:
		panic(fmt.Sprintf("unexpected type: %T", t))
	}
	return ret
}
