// Package hydrate turns the node and relationship records of one query result
// into a connected graph of domain instances.
package hydrate

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/conduit-lang/ogm/internal/graph"
	"github.com/conduit-lang/ogm/internal/orm/descriptor"
	"github.com/conduit-lang/ogm/internal/orm/entity"
	"github.com/conduit-lang/ogm/internal/orm/schema"
	"github.com/conduit-lang/ogm/internal/orm/tracking"
)

// Hydrator builds object graphs from query results.
type Hydrator struct {
	factory *entity.Factory
	memo    *tracking.Memo
	logger  *zap.Logger
}

// Option configures a Hydrator.
type Option func(*Hydrator)

// WithMemo snapshots every hydrated node instance into memo.
func WithMemo(m *tracking.Memo) Option {
	return func(h *Hydrator) { h.memo = m }
}

// WithLogger sets the hydrator logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Hydrator) { h.logger = l }
}

// NewHydrator creates a Hydrator building instances through factory.
func NewHydrator(factory *entity.Factory, opts ...Option) *Hydrator {
	h := &Hydrator{factory: factory, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// setter is a relationship member of a start type together with its bound
// relation.
type setter struct {
	member   schema.Member
	relation entity.Relation
}

// edge is a relationship waiting for a collection setter.
type edge struct {
	rel   *graph.Relationship
	start any
	end   any
	class *schema.ClassDescriptor
}

type group struct {
	start  any
	setter setter
	ends   []any
	seen   map[any]bool
}

// Hydrate builds the object graph of m in three passes:
//
//  1. every node record becomes an instance with its identity and scalar
//     properties assigned;
//  2. every relationship is attached through a singular setter of the start
//     type when one accepts the end instance and no collection setter
//     declares the relationship type where it does not; it is deferred
//     otherwise;
//  3. deferred relationships are grouped by start instance and collection
//     setter, and each setter is invoked once with the whole collection.
//
// The first failing record stops hydration; the partial Result is returned
// with the error.
func (h *Hydrator) Hydrate(m *graph.Model) (*Result, error) {
	res := newResult()
	log := h.logger.With(zap.String("batch", res.BatchID.String()))

	for _, n := range m.Nodes {
		inst, class, err := h.factory.NewNode(n)
		if err != nil {
			return res, err
		}
		if err := h.populate(inst, class, n.ID, n.Properties); err != nil {
			return res, errors.Wrapf(err, "node %d", n.ID)
		}
		res.addNode(n.ID, inst, class)
		if h.memo != nil {
			if err := h.memo.Remember(inst, class); err != nil {
				return res, errors.Wrapf(err, "node %d", n.ID)
			}
		}
	}

	var deferred []edge
	for _, r := range m.Relationships {
		start, startClass, end, endClass, err := h.endpoints(res, r)
		if err != nil {
			return res, err
		}

		if rels := h.factory.Registry().RelationshipEntities(r.Type); len(rels) > 0 {
			inst, class, err := h.relationshipEntity(r, start, end)
			if err != nil {
				return res, err
			}
			res.rels[r.ID] = inst
			end, endClass = inst, class
			if _, ok := h.findSetter(startClass, endClass, r.Type, false); !ok {
				if _, ok := h.findSetter(startClass, endClass, r.Type, true); !ok {
					// Reachable through its own start and end nodes only.
					continue
				}
			}
		}

		if s, ok := h.singularSetter(startClass, endClass, r.Type); ok {
			if err := s.relation.Set(start, []any{end}); err != nil {
				return res, errors.Wrapf(err, "relationship %d", r.ID)
			}
			continue
		}
		deferred = append(deferred, edge{rel: r, start: start, end: end, class: endClass})
	}

	groups, err := h.group(res, deferred)
	if err != nil {
		return res, err
	}
	for _, g := range groups {
		if err := g.setter.relation.Set(g.start, g.ends); err != nil {
			return res, errors.Wrapf(err, "setting %s", g.setter.member.Name())
		}
	}

	log.Debug("hydrated result",
		zap.Int("nodes", len(m.Nodes)),
		zap.Int("relationships", len(m.Relationships)),
		zap.Int("collections", len(groups)))
	return res, nil
}

func (h *Hydrator) endpoints(res *Result, r *graph.Relationship) (start any, startClass *schema.ClassDescriptor, end any, endClass *schema.ClassDescriptor, err error) {
	start, ok := res.nodes[r.StartID]
	if !ok {
		return nil, nil, nil, nil, errors.Wrapf(ErrUnknownNode, "relationship %d: start node %d", r.ID, r.StartID)
	}
	end, ok = res.nodes[r.EndID]
	if !ok {
		return nil, nil, nil, nil, errors.Wrapf(ErrUnknownNode, "relationship %d: end node %d", r.ID, r.EndID)
	}
	return start, res.classes[r.StartID], end, res.classes[r.EndID], nil
}

// relationshipEntity builds the instance of a relationship entity and wires
// its start and end node members.
func (h *Hydrator) relationshipEntity(r *graph.Relationship, start, end any) (any, *schema.ClassDescriptor, error) {
	inst, class, err := h.factory.NewRelationship(r)
	if err != nil {
		return nil, nil, err
	}
	if err := h.populate(inst, class, r.ID, r.Properties); err != nil {
		return nil, nil, errors.Wrapf(err, "relationship %d", r.ID)
	}

	b, _ := h.factory.Table().Binding(class.Name())
	for _, mem := range class.Members() {
		var value any
		switch {
		case mem.Annotations().Has(descriptor.StartNode):
			value = start
		case mem.Annotations().Has(descriptor.EndNode):
			value = end
		default:
			continue
		}
		rel, ok := b.Relation(mem.Name())
		if !ok {
			continue
		}
		if err := rel.Set(inst, []any{value}); err != nil {
			return nil, nil, errors.Wrapf(err, "relationship %d: %s", r.ID, mem.Name())
		}
	}
	return inst, class, nil
}

// populate assigns the identity and the scalar properties of an instance.
// Properties with no matching member are ignored.
func (h *Hydrator) populate(inst any, class *schema.ClassDescriptor, id int64, props map[string]any) error {
	b, ok := h.factory.Table().Binding(class.Name())
	if !ok {
		return errors.Newf("class %s has no binding", class.Name())
	}

	if f := class.IdentityField(); f != nil {
		if p, ok := b.Property(f.Name()); ok && p.Set != nil {
			if err := p.Set(inst, id); err != nil {
				return errors.Wrapf(err, "identity %s", f.Name())
			}
		}
	}

	for key, value := range props {
		mem, p, ok := propertySetter(class, b, key)
		if !ok {
			h.logger.Debug("no member for property",
				zap.String("class", class.Name()),
				zap.String("property", key))
			continue
		}
		if conv := mem.Converter(); conv != nil {
			v, err := conv.ToEntityAttribute(value)
			if err != nil {
				return errors.Wrapf(err, "property %s", key)
			}
			value = v
		}
		if err := p.Set(inst, value); err != nil {
			return errors.Wrapf(err, "property %s", key)
		}
	}
	return nil
}

func propertySetter(class *schema.ClassDescriptor, b *entity.Binding, property string) (schema.Member, entity.Property, bool) {
	for _, mem := range class.Members() {
		if !mem.IsScalar() || mem.Property() != property {
			continue
		}
		if p, ok := b.Property(mem.Name()); ok && p.Set != nil {
			return mem, p, true
		}
	}
	return nil, entity.Property{}, false
}

// singularSetter returns the singular setter for a relationship, unless a
// collection setter declaring relType should take the edge instead.
func (h *Hydrator) singularSetter(startClass, endClass *schema.ClassDescriptor, relType string) (setter, bool) {
	s, ok := h.findSetter(startClass, endClass, relType, false)
	if !ok || s.member.Relationship() == relType {
		return s, ok
	}
	if many, ok := h.findSetter(startClass, endClass, relType, true); ok && many.member.Relationship() == relType {
		return setter{}, false
	}
	return s, true
}

// findSetter returns the best bound relationship member of startClass that
// accepts an instance of endClass. Singular setters are considered when
// collection is false, collection setters otherwise. A member whose target
// is exactly endClass beats one whose target is an ancestor or interface of
// endClass; among those, a member whose relationship type equals relType
// wins.
func (h *Hydrator) findSetter(startClass, endClass *schema.ClassDescriptor, relType string, collection bool) (setter, bool) {
	b, ok := h.factory.Table().Binding(startClass.Name())
	if !ok {
		return setter{}, false
	}

	best, bestRank := setter{}, -1
	for _, mem := range startClass.Members() {
		if !mem.IsRelationship() {
			continue
		}
		rel, ok := b.Relation(mem.Name())
		if !ok || rel.Kind.IsCollection() != collection {
			continue
		}
		rank := 0
		switch target := mem.TargetType(); {
		case target == endClass.Name():
			rank = 2
		case endClass.IsSubclassOf(target) || containsString(endClass.Interfaces(), target):
			rank = 0
		default:
			continue
		}
		if mem.Relationship() == relType {
			rank++
		}
		if rank > bestRank {
			best, bestRank = setter{member: mem, relation: rel}, rank
		}
	}
	return best, bestRank >= 0
}

// group assigns every deferred edge to its (start instance, setter) group,
// keeping groups and their members in record order.
func (h *Hydrator) group(res *Result, deferred []edge) ([]*group, error) {
	type key struct {
		start  any
		member string
	}
	index := make(map[key]*group)
	var groups []*group

	for _, e := range deferred {
		startClass := res.classes[e.rel.StartID]
		s, ok := h.findSetter(startClass, e.class, e.rel.Type, true)
		if !ok {
			return nil, &HydrationWiringError{
				Relationship: e.rel.ID,
				Type:         e.rel.Type,
				StartType:    startClass.Name(),
				EndType:      e.class.Name(),
			}
		}
		if s.relation.Kind == entity.Map {
			return nil, &UnsupportedCollectionError{
				Class:  startClass.Name(),
				Member: s.member.Name(),
				Kind:   s.relation.Kind,
			}
		}

		k := key{start: e.start, member: s.member.Name()}
		g, ok := index[k]
		if !ok {
			g = &group{start: e.start, setter: s, seen: make(map[any]bool)}
			index[k] = g
			groups = append(groups, g)
		}
		if !g.seen[e.end] {
			g.seen[e.end] = true
			g.ends = append(g.ends, e.end)
		}
	}
	return groups, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
