package schema

import "fmt"

// UnionType is the type of a value that could be any one of a fixed set of object types, with no
// fields of its own — selecting fields under a union requires a fragment naming one of its
// members.
type UnionType struct {
	Name        string
	Description string
	Directives  []*Directive
	MemberTypes []*ObjectType

	// RequiredFeatures gates visibility of the type behind a set of enabled feature names.
	RequiredFeatures FeatureSet
}

func (d *UnionType) String() string {
	return d.Name
}

func (d *UnionType) IsInputType() bool {
	return false
}

func (d *UnionType) IsOutputType() bool {
	return true
}

func (d *UnionType) IsSubTypeOf(other Type) bool {
	return d.IsSameType(other)
}

func (d *UnionType) IsSameType(other Type) bool {
	return d == other
}

func (d *UnionType) TypeRequiredFeatures() FeatureSet {
	return d.RequiredFeatures
}

func (d *UnionType) NamedType() string {
	return d.Name
}

// HasMember reports whether name is among d's member types.
func (d *UnionType) HasMember(name string) bool {
	for _, member := range d.MemberTypes {
		if member.Name == name {
			return true
		}
	}
	return false
}

func (d *UnionType) shallowValidate() error {
	if len(d.MemberTypes) == 0 {
		return fmt.Errorf("%v must have at least one member type", d.Name)
	}
	objNames := map[string]struct{}{}
	for _, member := range d.MemberTypes {
		if !member.RequiredFeatures.IsSubsetOf(d.RequiredFeatures) {
			// TODO: support conditional union members?
			return fmt.Errorf("union member has additional required features, but conditional members are not currently supported")
		}
		if _, ok := objNames[member.Name]; ok {
			return fmt.Errorf("union member types must be unique")
		}
		if member.IsTypeOf == nil {
			return fmt.Errorf("union member types must define IsTypeOf")
		}
		objNames[member.Name] = struct{}{}
	}
	return nil
}
