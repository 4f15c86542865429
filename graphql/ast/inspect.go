package ast

import (
	"fmt"
	"reflect"
)

// Inspect traverses node and its descendants in depth-first order, calling f for each one. f is
// called a second time with nil immediately after a node's children have all been visited, so
// callers can maintain a stack for scoped analysis (see TypeInfo). Traversal of a node's children
// is skipped if f returns false for it.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || reflect.ValueOf(node).IsNil() || !f(node) {
		return
	}

	switch n := node.(type) {
	case *Document:
		for _, def := range n.Definitions {
			Inspect(def, f)
		}
	case *OperationDefinition:
		Inspect(n.Name, f)
		for _, v := range n.VariableDefinitions {
			Inspect(v, f)
		}
		for _, d := range n.Directives {
			Inspect(d, f)
		}
		Inspect(n.SelectionSet, f)
	case *FragmentDefinition:
		Inspect(n.Name, f)
		for _, d := range n.Directives {
			Inspect(d, f)
		}
		Inspect(n.SelectionSet, f)
	case *VariableDefinition:
		Inspect(n.Variable, f)
		Inspect(n.Type, f)
		Inspect(n.DefaultValue, f)
	case *ListType:
		Inspect(n.Type, f)
	case *NonNullType:
		Inspect(n.Type, f)
	case *Directive:
		Inspect(n.Name, f)
		for _, a := range n.Arguments {
			Inspect(a, f)
		}
	case *SelectionSet:
		for _, s := range n.Selections {
			Inspect(s, f)
		}
	case *Field:
		Inspect(n.Alias, f)
		Inspect(n.Name, f)
		for _, a := range n.Arguments {
			Inspect(a, f)
		}
		for _, d := range n.Directives {
			Inspect(d, f)
		}
		Inspect(n.SelectionSet, f)
	case *FragmentSpread:
		Inspect(n.FragmentName, f)
		for _, d := range n.Directives {
			Inspect(d, f)
		}
	case *InlineFragment:
		Inspect(n.TypeCondition, f)
		for _, d := range n.Directives {
			Inspect(d, f)
		}
		Inspect(n.SelectionSet, f)
	case *Argument:
		Inspect(n.Name, f)
		Inspect(n.Value, f)
	case *NamedType:
		Inspect(n.Name, f)
	case *Variable:
		Inspect(n.Name, f)
	case *Name, *BooleanValue, *IntValue, *FloatValue, *StringValue, *EnumValue, *NullValue:
	case *ListValue:
		for _, v := range n.Values {
			Inspect(v, f)
		}
	case *ObjectValue:
		for _, field := range n.Fields {
			Inspect(field, f)
		}
	case *ObjectField:
		Inspect(n.Name, f)
		Inspect(n.Value, f)
	default:
		panic(fmt.Errorf("unknown node type: %T", n))
	}

	f(nil)
}

// CountNodes returns the number of nodes in node's subtree (including node itself) for which
// match returns true. It measures structural size only; resolver cost is accounted separately by
// the validator's ValidateCost rule.
func CountNodes(node Node, match func(Node) bool) int {
	count := 0
	Inspect(node, func(n Node) bool {
		if n != nil && match(n) {
			count++
		}
		return true
	})
	return count
}
