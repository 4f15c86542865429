package graphkit

import (
	"reflect"

	"github.com/graphkit-go/graphkit/graphql"
)

func fieldValue(object interface{}, name string) interface{} {
	v := reflect.ValueOf(object)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return v.FieldByName(name).Interface()
}

// NonEmptyString returns a field that resolves to a string if the field's value is non-empty.
// Otherwise, the field resolves to nil.
func NonEmptyString(fieldName string) *graphql.FieldDefinition {
	return &graphql.FieldDefinition{
		Type: graphql.StringType,
		Cost: graphql.FieldResolverCost(0),
		Resolve: func(ctx *graphql.FieldContext) (interface{}, error) {
			if s := fieldValue(ctx.Object, fieldName); s != "" {
				return s, nil
			}
			return nil, nil
		},
	}
}

// NonNullField returns a non-null field that resolves to the given type.
func NonNullField(t graphql.Type, fieldName string) *graphql.FieldDefinition {
	return &graphql.FieldDefinition{
		Type: graphql.NewNonNullType(t),
		Cost: graphql.FieldResolverCost(0),
		Resolve: func(ctx *graphql.FieldContext) (interface{}, error) {
			return fieldValue(ctx.Object, fieldName), nil
		},
	}
}

// OptionalField returns a nullable field that resolves to the given type, or nil if the
// underlying struct field is a nil pointer.
func OptionalField(t graphql.Type, fieldName string) *graphql.FieldDefinition {
	return &graphql.FieldDefinition{
		Type: t,
		Cost: graphql.FieldResolverCost(0),
		Resolve: func(ctx *graphql.FieldContext) (interface{}, error) {
			v := reflect.ValueOf(ctx.Object)
			for v.Kind() == reflect.Ptr {
				v = v.Elem()
			}
			fv := v.FieldByName(fieldName)
			if fv.Kind() == reflect.Ptr && fv.IsNil() {
				return nil, nil
			}
			return fv.Interface(), nil
		},
	}
}

// NonEmptyList returns a field that resolves to a list if the field's value is a non-empty slice.
// Otherwise, the field resolves to nil, matching NonEmptyString's treatment of empty values as
// absent rather than as an empty list.
func NonEmptyList(t graphql.Type, fieldName string) *graphql.FieldDefinition {
	return &graphql.FieldDefinition{
		Type: graphql.NewListType(t),
		Cost: graphql.FieldResolverCost(0),
		Resolve: func(ctx *graphql.FieldContext) (interface{}, error) {
			fv := reflect.ValueOf(fieldValue(ctx.Object, fieldName))
			if fv.Kind() == reflect.Slice && fv.Len() > 0 {
				return fv.Interface(), nil
			}
			return nil, nil
		},
	}
}
