// Package entity builds domain object instances from graph records.
//
// Instead of reflecting over domain types, every mapped type registers a
// Binding: a zero-argument constructor plus named accessor closures for its
// properties and relationship setters. The Factory resolves a record to a
// class descriptor and constructs it through the binding.
package entity

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// Kind is the shape of a relationship setter's parameter.
type Kind int

const (
	// Single takes one related instance.
	Single Kind = iota
	// Slice takes an ordered collection.
	Slice
	// Set takes a map[E]struct{} collection.
	Set
	// Map takes a keyed collection. The hydrator cannot populate it.
	Map
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case Slice:
		return "slice"
	case Set:
		return "set"
	case Map:
		return "map"
	default:
		return "unknown"
	}
}

// IsCollection reports whether the setter takes more than one instance.
func (k Kind) IsCollection() bool { return k != Single }

// Property reads and writes one scalar member of an instance.
type Property struct {
	Get func(instance any) any
	Set func(instance, value any) error
}

// Relation writes one relationship member of an instance. Member is the
// field or method name the class descriptor knows it by.
type Relation struct {
	Member string
	Kind   Kind
	Set    func(instance any, values []any) error
}

// Binding is the capability table entry of one type.
type Binding struct {
	Name       string
	New        func() any
	Properties map[string]Property
	Relations  []Relation
}

// Property returns the property accessor registered for member.
func (b *Binding) Property(member string) (Property, bool) {
	p, ok := b.Properties[member]
	return p, ok
}

// Relation returns the relation setter registered for member.
func (b *Binding) Relation(member string) (Relation, bool) {
	for _, r := range b.Relations {
		if r.Member == member {
			return r, true
		}
	}
	return Relation{}, false
}

// Table maps fully-qualified type names to their bindings.
type Table struct {
	mu       sync.RWMutex
	bindings map[string]*Binding
}

// NewTable creates a table holding bindings.
func NewTable(bindings ...*Binding) *Table {
	t := &Table{bindings: make(map[string]*Binding)}
	for _, b := range bindings {
		t.Bind(b)
	}
	return t
}

// Bind adds or replaces a binding.
func (t *Table) Bind(b *Binding) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if b.Properties == nil {
		b.Properties = make(map[string]Property)
	}
	t.bindings[b.Name] = b
}

// Binding returns the binding of a type.
func (t *Table) Binding(name string) (*Binding, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	b, ok := t.bindings[name]
	return b, ok
}

// Names returns the bound type names, sorted.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.bindings))
	for name := range t.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrWrongInstance is returned when an accessor is called with an instance of
// another type.
var ErrWrongInstance = errors.New("instance has the wrong type")

func instanceOf[T any](instance any) (*T, error) {
	t, ok := instance.(*T)
	if !ok || t == nil {
		var zero T
		return nil, errors.Wrapf(ErrWrongInstance, "want *%T, got %T", zero, instance)
	}
	return t, nil
}

// Bind builds a Binding for *T with a constructor returning new(T).
func Bind[T any](name string, props map[string]Property, rels ...Relation) *Binding {
	return &Binding{
		Name:       name,
		New:        func() any { return new(T) },
		Properties: props,
		Relations:  rels,
	}
}

// Prop builds a Property from typed accessors. Values written through Set are
// coerced to V.
func Prop[T, V any](get func(*T) V, set func(*T, V)) Property {
	return Property{
		Get: func(instance any) any {
			t, err := instanceOf[T](instance)
			if err != nil {
				return nil
			}
			return get(t)
		},
		Set: func(instance, value any) error {
			t, err := instanceOf[T](instance)
			if err != nil {
				return err
			}
			v, err := Coerce[V](value)
			if err != nil {
				return err
			}
			set(t, v)
			return nil
		},
	}
}

// One builds a singular relation setter.
func One[T, E any](member string, set func(*T, E)) Relation {
	return Relation{
		Member: member,
		Kind:   Single,
		Set: func(instance any, values []any) error {
			t, err := instanceOf[T](instance)
			if err != nil {
				return err
			}
			if len(values) != 1 {
				return errors.Newf("%s takes one value, got %d", member, len(values))
			}
			e, ok := values[0].(E)
			if !ok {
				return errors.Wrapf(ErrWrongInstance, "%s: got %T", member, values[0])
			}
			set(t, e)
			return nil
		},
	}
}

// Many builds a slice relation setter.
func Many[T, E any](member string, set func(*T, []E)) Relation {
	return Relation{
		Member: member,
		Kind:   Slice,
		Set: func(instance any, values []any) error {
			t, err := instanceOf[T](instance)
			if err != nil {
				return err
			}
			out := make([]E, 0, len(values))
			for _, v := range values {
				e, ok := v.(E)
				if !ok {
					return errors.Wrapf(ErrWrongInstance, "%s: got %T", member, v)
				}
				out = append(out, e)
			}
			set(t, out)
			return nil
		},
	}
}

// SetOf builds a set relation setter.
func SetOf[T any, E comparable](member string, set func(*T, map[E]struct{})) Relation {
	return Relation{
		Member: member,
		Kind:   Set,
		Set: func(instance any, values []any) error {
			t, err := instanceOf[T](instance)
			if err != nil {
				return err
			}
			out := make(map[E]struct{}, len(values))
			for _, v := range values {
				e, ok := v.(E)
				if !ok {
					return errors.Wrapf(ErrWrongInstance, "%s: got %T", member, v)
				}
				out[e] = struct{}{}
			}
			set(t, out)
			return nil
		},
	}
}
