package entity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/conduit-lang/ogm/internal/graph"
	"github.com/conduit-lang/ogm/internal/orm/schema"
)

// ErrUnmappable is matched by every UnmappableRecordError.
var ErrUnmappable = errors.New("unmappable record")

// UnmappableRecordError is returned when a record cannot be resolved to
// exactly one constructible class.
type UnmappableRecordError struct {
	Record     string
	Reason     string
	Candidates []string
}

// Error implements the error interface
func (e *UnmappableRecordError) Error() string {
	msg := fmt.Sprintf("cannot map %s: %s", e.Record, e.Reason)
	if len(e.Candidates) > 0 {
		msg += " (" + strings.Join(e.Candidates, ", ") + ")"
	}
	return msg
}

// Is matches ErrUnmappable.
func (e *UnmappableRecordError) Is(target error) bool { return target == ErrUnmappable }

// Factory turns node and relationship records into new, zero-valued
// instances of the matching domain type.
type Factory struct {
	registry *schema.Registry
	table    *Table
	logger   *zap.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithFactoryLogger sets the factory logger.
func WithFactoryLogger(l *zap.Logger) FactoryOption {
	return func(f *Factory) { f.logger = l }
}

// NewFactory creates a Factory resolving classes in registry and building
// them through table.
func NewFactory(registry *schema.Registry, table *Table, opts ...FactoryOption) *Factory {
	f := &Factory{registry: registry, table: table, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Registry returns the registry the factory resolves against.
func (f *Factory) Registry() *schema.Registry { return f.registry }

// Table returns the capability table.
func (f *Factory) Table() *Table { return f.table }

// NewNode resolves a node record by its labels and constructs an instance.
func (f *Factory) NewNode(n *graph.Node) (any, *schema.ClassDescriptor, error) {
	record := fmt.Sprintf("node %d", n.ID)
	class, err := f.ResolveLabels(record, n.Labels)
	if err != nil {
		return nil, nil, err
	}
	inst, err := f.Instantiate(record, class)
	if err != nil {
		return nil, nil, err
	}
	return inst, class, nil
}

// NewRelationship resolves a relationship record by its type and constructs
// an instance.
func (f *Factory) NewRelationship(r *graph.Relationship) (any, *schema.ClassDescriptor, error) {
	record := fmt.Sprintf("relationship %d", r.ID)
	class, err := f.ResolveType(record, r.Type)
	if err != nil {
		return nil, nil, err
	}
	inst, err := f.Instantiate(record, class)
	if err != nil {
		return nil, nil, err
	}
	return inst, class, nil
}

// ResolveLabels returns the most specific class carrying one of labels.
// Labels no class carries are ignored. Candidates that are ancestors of
// another candidate are dropped; if more than one remains the labels are
// ambiguous.
func (f *Factory) ResolveLabels(record string, labels []string) (*schema.ClassDescriptor, error) {
	if len(labels) == 0 {
		return nil, &UnmappableRecordError{Record: record, Reason: "record has no labels"}
	}

	var candidates []*schema.ClassDescriptor
	for _, label := range labels {
		for _, c := range f.registry.ClassesWithLabel(label) {
			if !slices.Contains(candidates, c) {
				candidates = append(candidates, c)
			}
		}
	}

	specific := slices.DeleteFunc(slices.Clone(candidates), func(c *schema.ClassDescriptor) bool {
		for _, other := range candidates {
			if other != c && other.IsSubclassOf(c.Name()) {
				return true
			}
		}
		return false
	})

	switch len(specific) {
	case 0:
		return nil, &UnmappableRecordError{
			Record: record,
			Reason: "no class matches labels " + strings.Join(labels, ", "),
		}
	case 1:
		f.logger.Debug("resolved node labels",
			zap.String("record", record),
			zap.Strings("labels", labels),
			zap.String("class", specific[0].Name()))
		return specific[0], nil
	default:
		return nil, &UnmappableRecordError{
			Record:     record,
			Reason:     "labels match unrelated classes",
			Candidates: classNames(specific),
		}
	}
}

// ResolveType returns the class stored as relationships of type relType: the
// RelationshipEntity declaring that type, else the class with that simple
// name.
func (f *Factory) ResolveType(record, relType string) (*schema.ClassDescriptor, error) {
	if relType == "" {
		return nil, &UnmappableRecordError{Record: record, Reason: "record has no type"}
	}

	entities := f.registry.RelationshipEntities(relType)
	switch len(entities) {
	case 1:
		return entities[0], nil
	case 0:
	default:
		return nil, &UnmappableRecordError{
			Record:     record,
			Reason:     "type " + relType + " is declared by more than one class",
			Candidates: classNames(entities),
		}
	}

	class, err := f.registry.ClassBySimpleName(relType)
	if err != nil {
		var amb *schema.AmbiguousNameError
		if errors.As(err, &amb) {
			return nil, &UnmappableRecordError{Record: record, Reason: "type " + relType + " is ambiguous", Candidates: amb.Candidates}
		}
		return nil, err
	}
	if class == nil {
		return nil, &UnmappableRecordError{Record: record, Reason: "no class matches type " + relType}
	}
	return class, nil
}

// Instantiate constructs a zero-valued instance of class through its
// binding. No member is populated.
func (f *Factory) Instantiate(record string, class *schema.ClassDescriptor) (any, error) {
	b, ok := f.table.Binding(class.Name())
	if !ok || b.New == nil {
		return nil, &UnmappableRecordError{
			Record: record,
			Reason: "class " + class.Name() + " has no zero-argument constructor",
		}
	}
	inst := b.New()
	if inst == nil {
		return nil, &UnmappableRecordError{
			Record: record,
			Reason: "constructor of " + class.Name() + " returned nil",
		}
	}
	return inst, nil
}

func classNames(classes []*schema.ClassDescriptor) []string {
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		out = append(out, c.Name())
	}
	return out
}
