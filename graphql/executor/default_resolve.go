package executor

import (
	"context"
	"fmt"
	"reflect"
	"unicode"
)

// defaultResolve is used when a field has no Resolve function. It looks up an exported struct
// field, map entry, or zero-argument method on object matching the field's name, tried in that
// order. If nothing matches, it returns an error.
func defaultResolve(ctx context.Context, object interface{}, fieldName string) (interface{}, error) {
	value := reflect.ValueOf(object)
	if !value.IsValid() {
		return nil, fmt.Errorf("no resolver defined for field %q and its object is nil", fieldName)
	}

	if value.Kind() == reflect.Ptr {
		value = value.Elem()
		if !value.IsValid() {
			return nil, fmt.Errorf("no resolver defined for field %q and its object is a nil pointer", fieldName)
		}
	}

	switch value.Kind() {
	case reflect.Struct:
		return defaultResolveFromStruct(ctx, value, fieldName)
	case reflect.Map:
		return defaultResolveFromMap(value, fieldName)
	}

	return nil, fmt.Errorf("no resolver defined for field %q and no default applies to %s", fieldName, value.Kind())
}

func exportedFieldName(fieldName string) string {
	r := []rune(fieldName)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func defaultResolveFromStruct(ctx context.Context, structValue reflect.Value, fieldName string) (interface{}, error) {
	exportedName := exportedFieldName(fieldName)

	if field := structValue.FieldByName(exportedName); field.IsValid() {
		return defaultResolveValueOrFunc(ctx, field)
	}

	addressable := structValue
	if addressable.CanAddr() {
		addressable = addressable.Addr()
	}
	if method := addressable.MethodByName(exportedName); method.IsValid() {
		return defaultResolveValueOrFunc(ctx, method)
	}

	return nil, fmt.Errorf("%s has no field or method named %q", structValue.Type(), exportedName)
}

func defaultResolveFromMap(mapValue reflect.Value, fieldName string) (interface{}, error) {
	if v := mapValue.MapIndex(reflect.ValueOf(fieldName)); v.IsValid() {
		return v.Interface(), nil
	}
	return nil, fmt.Errorf("map has no entry named %q", fieldName)
}

func defaultResolveValueOrFunc(ctx context.Context, value reflect.Value) (interface{}, error) {
	if value.Kind() != reflect.Func {
		return value.Interface(), nil
	}

	switch fn := value.Interface().(type) {
	case func() interface{}:
		return fn(), nil
	case func() (interface{}, error):
		return fn()
	case func(context.Context) interface{}:
		return fn(ctx), nil
	case func(context.Context) (interface{}, error):
		return fn(ctx)
	default:
		return nil, fmt.Errorf("unexpected method signature %s for default resolution", value.Type())
	}
}
