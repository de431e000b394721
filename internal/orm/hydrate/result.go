package hydrate

import (
	"github.com/google/uuid"

	"github.com/conduit-lang/ogm/internal/orm/schema"
)

// Result is the object graph built from one query result. A Result returned
// together with an error holds everything hydrated up to the failing record.
type Result struct {
	BatchID uuid.UUID

	nodes     map[int64]any
	classes   map[int64]*schema.ClassDescriptor
	rels      map[int64]any
	byType    map[string][]any
	typeOrder []string
}

func newResult() *Result {
	return &Result{
		BatchID: uuid.New(),
		nodes:   make(map[int64]any),
		classes: make(map[int64]*schema.ClassDescriptor),
		rels:    make(map[int64]any),
		byType:  make(map[string][]any),
	}
}

func (r *Result) addNode(id int64, inst any, class *schema.ClassDescriptor) {
	r.nodes[id] = inst
	r.classes[id] = class
	if _, ok := r.byType[class.Name()]; !ok {
		r.typeOrder = append(r.typeOrder, class.Name())
	}
	r.byType[class.Name()] = append(r.byType[class.Name()], inst)
}

// Node returns the instance built for a node id.
func (r *Result) Node(id int64) (any, bool) {
	inst, ok := r.nodes[id]
	return inst, ok
}

// Class returns the class a node id was resolved to.
func (r *Result) Class(id int64) (*schema.ClassDescriptor, bool) {
	c, ok := r.classes[id]
	return c, ok
}

// Relationship returns the relationship entity built for a relationship id.
func (r *Result) Relationship(id int64) (any, bool) {
	inst, ok := r.rels[id]
	return inst, ok
}

// Of returns the node instances of a class, in record order.
func (r *Result) Of(class string) []any {
	return append([]any(nil), r.byType[class]...)
}

// Types returns the class names present, in order of first appearance.
func (r *Result) Types() []string {
	return append([]string(nil), r.typeOrder...)
}

// Len returns the number of node instances.
func (r *Result) Len() int { return len(r.nodes) }

// First returns the first node instance of type T, if any.
func First[T any](r *Result) (T, bool) {
	for _, name := range r.typeOrder {
		for _, inst := range r.byType[name] {
			if t, ok := inst.(T); ok {
				return t, true
			}
		}
	}
	var zero T
	return zero, false
}
