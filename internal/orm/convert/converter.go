// Package convert holds the type-converter catalog: bidirectional converters
// between the scalar form a property takes in the graph and the form it takes
// on a domain object.
package convert

import "github.com/cockroachdb/errors"

// Converter translates one attribute between graph and entity form.
type Converter interface {
	// ToGraphProperty converts an entity attribute to its stored form.
	ToGraphProperty(value any) (any, error)
	// ToEntityAttribute converts a stored property to its in-memory form.
	ToEntityAttribute(value any) (any, error)
}

// ErrUnsupportedValue is returned when a converter is handed a value of a
// type it does not understand.
var ErrUnsupportedValue = errors.New("unsupported value for converter")

func unsupported(conv string, value any) error {
	return errors.Wrapf(ErrUnsupportedValue, "%s: cannot convert %T", conv, value)
}

// Func adapts a pair of functions to Converter.
type Func struct {
	ToGraph  func(any) (any, error)
	ToEntity func(any) (any, error)
}

// ToGraphProperty implements Converter.
func (f Func) ToGraphProperty(value any) (any, error) {
	if f.ToGraph == nil {
		return value, nil
	}
	return f.ToGraph(value)
}

// ToEntityAttribute implements Converter.
func (f Func) ToEntityAttribute(value any) (any, error) {
	if f.ToEntity == nil {
		return value, nil
	}
	return f.ToEntity(value)
}
