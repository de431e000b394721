package convert

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"
)

// EnumConverter stores enum values by constant name. On the entity side an
// enum value is its ordinal: the position of its name in Values.
type EnumConverter struct {
	Signature string
	Values    []string
}

// NewEnumConverter creates a converter for the enum type signature.
func NewEnumConverter(signature string, values []string) *EnumConverter {
	return &EnumConverter{Signature: signature, Values: slices.Clone(values)}
}

// ToGraphProperty accepts a constant name, a fmt.Stringer or an ordinal.
func (e *EnumConverter) ToGraphProperty(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return e.checkName(v)
	case fmt.Stringer:
		return e.checkName(v.String())
	default:
		i, err := cast.ToIntE(v)
		if err != nil {
			return nil, unsupported("enum "+e.Signature, value)
		}
		if i < 0 || i >= len(e.Values) {
			return nil, errors.Newf("enum %s: ordinal %d out of range", e.Signature, i)
		}
		return e.Values[i], nil
	}
}

// ToEntityAttribute maps a stored constant name to its ordinal.
func (e *EnumConverter) ToEntityAttribute(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		i := slices.Index(e.Values, v)
		if i < 0 {
			return nil, errors.Newf("enum %s: unknown constant %q", e.Signature, v)
		}
		return i, nil
	default:
		return nil, unsupported("enum "+e.Signature, value)
	}
}

func (e *EnumConverter) checkName(name string) (any, error) {
	if len(e.Values) > 0 && !slices.Contains(e.Values, name) {
		return nil, errors.Newf("enum %s: unknown constant %q", e.Signature, name)
	}
	return name, nil
}
