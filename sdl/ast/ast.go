package ast

import "github.com/graphkit-go/graphkit/sdl/token"

type Node interface {
	Position() token.Position
}

type Document struct {
	Definitions []Definition
}

func (*Document) Position() token.Position { return token.Position{1, 1} }

// Interfaces returns every interface definition in d, in document order.
func (d *Document) Interfaces() []*InterfaceDefinition {
	var ret []*InterfaceDefinition
	for _, def := range d.Definitions {
		if iface, ok := def.(*InterfaceDefinition); ok {
			ret = append(ret, iface)
		}
	}
	return ret
}

// Resources returns every resource definition in d, in document order.
func (d *Document) Resources() []*ResourceDefinition {
	var ret []*ResourceDefinition
	for _, def := range d.Definitions {
		if res, ok := def.(*ResourceDefinition); ok {
			ret = append(ret, res)
		}
	}
	return ret
}

// InterfaceDefinition or ResourceDefinition
type Definition interface {
	Node
}

type Name struct {
	Name         string
	NamePosition token.Position
}

func (n *Name) Position() token.Position { return n.NamePosition }

type InterfaceDefinition struct {
	Name    *Name
	Extends []*Name

	Attributes    *Attributes
	Relationships *Relationships
}

func (n *InterfaceDefinition) Position() token.Position { return n.Name.Position() }

type ResourceDefinition struct {
	Name    *Name
	Extends []*Name

	Type          *StringValue
	Attributes    *Attributes
	Relationships *Relationships
}

func (n *ResourceDefinition) Position() token.Position { return n.Name.Position() }

type Attributes struct {
	Opening token.Position
	Closing token.Position
	Fields  []*Field
}

func (n *Attributes) Position() token.Position { return n.Opening }

type Relationships struct {
	Opening token.Position
	Closing token.Position
	Fields  []*Field
}

func (n *Relationships) Position() token.Position { return n.Opening }

type StringValue struct {
	// Value is the actual, unquoted value.
	Value string

	Literal token.Position
}

func (n *StringValue) Position() token.Position { return n.Literal }

type Field struct {
	Name *Name
	Type Type
}

func (n *Field) Position() token.Position { return n.Name.Position() }

// NamedType or RequiredType
type Type interface {
	Node
	String() string
}

type RequiredType struct {
	Type Type
}

func (n *RequiredType) Position() token.Position { return n.Type.Position() }
func (n *RequiredType) String() string           { return n.Type.String() + "!" }

type NamedType struct {
	Name *Name
}

func (n *NamedType) Position() token.Position { return n.Name.Position() }
func (n *NamedType) String() string           { return n.Name.Name }
