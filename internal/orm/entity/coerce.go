package entity

import (
	"reflect"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"
)

// ErrCoerce is returned when a stored value cannot be assigned to a member.
var ErrCoerce = errors.New("cannot coerce value")

// Coerce converts a value read from the store to V. Numbers arrive as int64
// or float64 whatever the member type, so numeric and string kinds are
// converted with cast; pointer kinds receive a pointer to the converted
// value, and nil yields the zero value. Named types over a basic kind are
// converted through that kind.
func Coerce[V any](value any) (V, error) {
	var zero V
	if value == nil {
		return zero, nil
	}
	if v, ok := value.(V); ok {
		return v, nil
	}

	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case string:
		out, err = cast.ToStringE(value)
	case bool:
		out, err = cast.ToBoolE(value)
	case int:
		out, err = cast.ToIntE(value)
	case int8:
		out, err = cast.ToInt8E(value)
	case int16:
		out, err = cast.ToInt16E(value)
	case int32:
		out, err = cast.ToInt32E(value)
	case int64:
		out, err = cast.ToInt64E(value)
	case uint:
		out, err = cast.ToUintE(value)
	case uint8:
		out, err = cast.ToUint8E(value)
	case uint16:
		out, err = cast.ToUint16E(value)
	case uint32:
		out, err = cast.ToUint32E(value)
	case uint64:
		out, err = cast.ToUint64E(value)
	case float32:
		out, err = cast.ToFloat32E(value)
	case float64:
		out, err = cast.ToFloat64E(value)
	case time.Time:
		out, err = cast.ToTimeE(value)
	case time.Duration:
		out, err = cast.ToDurationE(value)
	case []string:
		out, err = cast.ToStringSliceE(value)
	case []int:
		out, err = cast.ToIntSliceE(value)
	case []bool:
		out, err = cast.ToBoolSliceE(value)
	case map[string]any:
		out, err = cast.ToStringMapE(value)
	case *string:
		out, err = pointer(cast.ToStringE, value)
	case *bool:
		out, err = pointer(cast.ToBoolE, value)
	case *int:
		out, err = pointer(cast.ToIntE, value)
	case *int32:
		out, err = pointer(cast.ToInt32E, value)
	case *int64:
		out, err = pointer(cast.ToInt64E, value)
	case *float32:
		out, err = pointer(cast.ToFloat32E, value)
	case *float64:
		out, err = pointer(cast.ToFloat64E, value)
	case *time.Time:
		out, err = pointer(cast.ToTimeE, value)
	default:
		rv, err := byKind(value, reflect.TypeFor[V]())
		if err != nil {
			return zero, errors.Wrapf(ErrCoerce, "%T to %T: %v", value, zero, err)
		}
		return rv.Interface().(V), nil
	}
	if err != nil {
		return zero, errors.Wrapf(ErrCoerce, "%T to %T: %v", value, zero, err)
	}
	return out.(V), nil
}

// byKind converts value to a named type through its underlying basic kind,
// so an enum ordinal reaches a `type Colour int` member. Pointers to such
// types are handled too.
func byKind(value any, t reflect.Type) (reflect.Value, error) {
	var (
		out any
		err error
	)
	switch t.Kind() {
	case reflect.String:
		out, err = cast.ToStringE(value)
	case reflect.Bool:
		out, err = cast.ToBoolE(value)
	case reflect.Int:
		out, err = cast.ToIntE(value)
	case reflect.Int8:
		out, err = cast.ToInt8E(value)
	case reflect.Int16:
		out, err = cast.ToInt16E(value)
	case reflect.Int32:
		out, err = cast.ToInt32E(value)
	case reflect.Int64:
		out, err = cast.ToInt64E(value)
	case reflect.Uint:
		out, err = cast.ToUintE(value)
	case reflect.Uint8:
		out, err = cast.ToUint8E(value)
	case reflect.Uint16:
		out, err = cast.ToUint16E(value)
	case reflect.Uint32:
		out, err = cast.ToUint32E(value)
	case reflect.Uint64:
		out, err = cast.ToUint64E(value)
	case reflect.Float32:
		out, err = cast.ToFloat32E(value)
	case reflect.Float64:
		out, err = cast.ToFloat64E(value)
	case reflect.Pointer:
		elem, err := byKind(value, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil
	default:
		return reflect.Value{}, errors.Newf("unsupported kind %s", t.Kind())
	}
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(out).Convert(t), nil
}

func pointer[E any](conv func(any) (E, error), value any) (*E, error) {
	e, err := conv(value)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
