package mock

import (
	"fmt"
	"reflect"
	"strings"
)

// construct copies props onto receiver. Struct fields are matched by name,
// exactly first and then case-insensitively.
func construct(receiver any, props map[string]any) error {
	if m, ok := receiver.(map[string]any); ok {
		if m == nil {
			return fmt.Errorf("%w: nil map", ErrInvalidReceiver)
		}
		for k, v := range props {
			m[k] = v
		}
		return nil
	}

	rv := reflect.ValueOf(receiver)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("%w: %T is not a non-nil pointer", ErrInvalidReceiver, receiver)
	}
	rv = rv.Elem()

	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			rv.Set(reflect.MakeMap(rv.Type()))
		}
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%w: map key must be a string, got %s", ErrInvalidReceiver, rv.Type().Key())
		}
		for k, v := range props {
			val, err := assignable(v, rv.Type().Elem())
			if err != nil {
				return fmt.Errorf("%w: key %q: %v", ErrInvalidReceiver, k, err)
			}
			rv.SetMapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()), val)
		}
		return nil
	case reflect.Struct:
		for k, v := range props {
			field := fieldByName(rv, k)
			if !field.IsValid() || !field.CanSet() {
				return fmt.Errorf("%w: %s has no settable field %q", ErrInvalidReceiver, rv.Type(), k)
			}
			val, err := assignable(v, field.Type())
			if err != nil {
				return fmt.Errorf("%w: field %q: %v", ErrInvalidReceiver, k, err)
			}
			field.Set(val)
		}
		return nil
	default:
		return fmt.Errorf("%w: cannot construct onto %s", ErrInvalidReceiver, rv.Type())
	}
}

func fieldByName(rv reflect.Value, name string) reflect.Value {
	if f := rv.FieldByName(name); f.IsValid() {
		return f
	}
	return rv.FieldByNameFunc(func(candidate string) bool {
		return strings.EqualFold(candidate, name)
	})
}

func assignable(v any, target reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(target), nil
	}
	val := reflect.ValueOf(v)
	if val.Type().AssignableTo(target) {
		return val, nil
	}
	if val.Type().ConvertibleTo(target) {
		return val.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", val.Type(), target)
}
