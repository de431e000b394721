// Package schema holds the mapping metadata of a domain: class descriptors,
// their field and method descriptors, and the registry that links them into
// an inheritance graph and indexes them by annotation.
package schema

import (
	"slices"
	"strings"

	"github.com/conduit-lang/ogm/internal/orm/descriptor"
)

// Annotations is the annotation set of a class or member.
type Annotations []descriptor.Annotation

// Has reports whether an annotation with the given name is present.
func (a Annotations) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Get returns the first annotation with the given name.
func (a Annotations) Get(name string) (descriptor.Annotation, bool) {
	for _, ann := range a {
		if ann.Name == name {
			return ann, true
		}
	}
	return descriptor.Annotation{}, false
}

// Attr returns an attribute of the named annotation, or def.
func (a Annotations) Attr(name, key, def string) string {
	ann, ok := a.Get(name)
	if !ok {
		return def
	}
	return ann.Get(key, def)
}

// Names returns the annotation names in declaration order.
func (a Annotations) Names() []string {
	names := make([]string, 0, len(a))
	for _, ann := range a {
		names = append(names, ann.Name)
	}
	return names
}

// InterfaceDescriptor records an interface type seen during ingestion.
type InterfaceDescriptor struct {
	Name        string
	Annotations Annotations
}

// ClassDescriptor is the mapping metadata of one domain type.
//
// A descriptor may exist as a placeholder, created when another type names it
// as superclass before its own descriptor was ingested. Hydrate fills a
// placeholder exactly once.
type ClassDescriptor struct {
	name           string
	superclassName string
	superclass     *ClassDescriptor
	subclasses     []*ClassDescriptor
	interfaces     []string
	annotations    Annotations
	fields         map[string]*FieldDescriptor
	fieldOrder     []string
	methods        map[string]*MethodDescriptor
	methodOrder    []string
	enumValues     []string
	isEnum         bool
	isInterface    bool
	hydrated       bool
}

func newPlaceholder(name string) *ClassDescriptor {
	return &ClassDescriptor{
		name:    name,
		fields:  make(map[string]*FieldDescriptor),
		methods: make(map[string]*MethodDescriptor),
	}
}

// hydrate fills the descriptor from its raw form. It is a no-op once the
// descriptor is hydrated.
func (c *ClassDescriptor) hydrate(d *descriptor.Class) {
	if c.hydrated {
		return
	}
	c.hydrated = true
	c.superclassName = d.Superclass
	if descriptor.IsRoot(c.superclassName) {
		c.superclassName = ""
	}
	c.interfaces = slices.Clone(d.Interfaces)
	c.annotations = slices.Clone(Annotations(d.Annotations))
	c.enumValues = slices.Clone(d.EnumValues)
	c.isEnum = d.IsEnum
	c.isInterface = d.IsInterface

	for _, f := range d.Fields {
		if _, dup := c.fields[f.Name]; dup {
			continue
		}
		c.fields[f.Name] = &FieldDescriptor{member: newMember(c.name, f, false)}
		c.fieldOrder = append(c.fieldOrder, f.Name)
	}
	for _, m := range d.Methods {
		if _, dup := c.methods[m.Name]; dup {
			continue
		}
		c.methods[m.Name] = &MethodDescriptor{member: newMember(c.name, m, true)}
		c.methodOrder = append(c.methodOrder, m.Name)
	}
}

// addSubclass records sub as a direct subclass.
func (c *ClassDescriptor) addSubclass(sub *ClassDescriptor) {
	for _, s := range c.subclasses {
		if s == sub {
			return
		}
	}
	c.subclasses = append(c.subclasses, sub)
}

func (c *ClassDescriptor) removeSubclass(sub *ClassDescriptor) {
	c.subclasses = slices.DeleteFunc(c.subclasses, func(s *ClassDescriptor) bool { return s == sub })
}

// extend links c below super and inherits the interfaces, fields and
// methods c does not declare itself.
func (c *ClassDescriptor) extend(super *ClassDescriptor) {
	c.superclass = super
	for _, iface := range super.interfaces {
		if !slices.Contains(c.interfaces, iface) {
			c.interfaces = append(c.interfaces, iface)
		}
	}
	for _, name := range super.fieldOrder {
		if _, ok := c.fields[name]; !ok {
			c.fields[name] = super.fields[name]
			c.fieldOrder = append(c.fieldOrder, name)
		}
	}
	for _, name := range super.methodOrder {
		if _, ok := c.methods[name]; !ok {
			c.methods[name] = super.methods[name]
			c.methodOrder = append(c.methodOrder, name)
		}
	}
}

// Name returns the fully-qualified type name.
func (c *ClassDescriptor) Name() string { return c.name }

// SimpleName returns the type name without its package qualifier.
func (c *ClassDescriptor) SimpleName() string { return descriptor.SimpleName(c.name) }

// SuperclassName returns the superclass name, or "" for a root-level class.
func (c *ClassDescriptor) SuperclassName() string { return c.superclassName }

// Superclass returns the linked superclass. It is nil until the registry
// has finished, and for root-level classes.
func (c *ClassDescriptor) Superclass() *ClassDescriptor { return c.superclass }

// Subclasses returns the direct subclasses.
func (c *ClassDescriptor) Subclasses() []*ClassDescriptor { return slices.Clone(c.subclasses) }

// Interfaces returns the implemented interface names, inherited ones included
// once the registry has finished.
func (c *ClassDescriptor) Interfaces() []string { return slices.Clone(c.interfaces) }

// Annotations returns the class-level annotations.
func (c *ClassDescriptor) Annotations() Annotations { return c.annotations }

// EnumValues returns the constant names of an enum type.
func (c *ClassDescriptor) EnumValues() []string { return slices.Clone(c.enumValues) }

// IsEnum reports whether the type is an enum.
func (c *ClassDescriptor) IsEnum() bool { return c.isEnum }

// IsInterface reports whether the type is an interface.
func (c *ClassDescriptor) IsInterface() bool { return c.isInterface }

// IsTransient reports whether the type is excluded from mapping.
func (c *ClassDescriptor) IsTransient() bool { return c.annotations.Has(descriptor.Transient) }

// Hydrated reports whether the defining descriptor has been ingested.
func (c *ClassDescriptor) Hydrated() bool { return c.hydrated }

// Field returns the named field.
func (c *ClassDescriptor) Field(name string) (*FieldDescriptor, bool) {
	f, ok := c.fields[name]
	return f, ok
}

// Fields returns the fields, declared ones first, then inherited ones.
func (c *ClassDescriptor) Fields() []*FieldDescriptor {
	out := make([]*FieldDescriptor, 0, len(c.fieldOrder))
	for _, name := range c.fieldOrder {
		out = append(out, c.fields[name])
	}
	return out
}

// Method returns the named method.
func (c *ClassDescriptor) Method(name string) (*MethodDescriptor, bool) {
	m, ok := c.methods[name]
	return m, ok
}

// Methods returns the methods, declared ones first, then inherited ones.
func (c *ClassDescriptor) Methods() []*MethodDescriptor {
	out := make([]*MethodDescriptor, 0, len(c.methodOrder))
	for _, name := range c.methodOrder {
		out = append(out, c.methods[name])
	}
	return out
}

// Members returns the fields followed by the methods.
func (c *ClassDescriptor) Members() []Member {
	out := make([]Member, 0, len(c.fieldOrder)+len(c.methodOrder))
	for _, f := range c.Fields() {
		out = append(out, f)
	}
	for _, m := range c.Methods() {
		out = append(out, m)
	}
	return out
}

// IdentityField returns the field holding the store-assigned identity: the
// field annotated GraphId, else a field named id in any letter case.
func (c *ClassDescriptor) IdentityField() *FieldDescriptor {
	var byName *FieldDescriptor
	for _, f := range c.Fields() {
		if f.annotations.Has(descriptor.GraphID) {
			return f
		}
		if byName == nil && strings.EqualFold(f.name, "id") {
			byName = f
		}
	}
	return byName
}

// PropertyFields returns the persistable scalar fields: scalar-classified,
// not the identity field, and not annotated Transient.
func (c *ClassDescriptor) PropertyFields() []*FieldDescriptor {
	id := c.IdentityField()
	var out []*FieldDescriptor
	for _, f := range c.Fields() {
		if f == id || f.annotations.Has(descriptor.Transient) || !f.IsScalar() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// RelationshipFields returns the relationship-classified fields.
func (c *ClassDescriptor) RelationshipFields() []*FieldDescriptor {
	var out []*FieldDescriptor
	for _, f := range c.Fields() {
		if f.annotations.Has(descriptor.Transient) || f.IsScalar() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FieldForProperty returns the scalar field stored under the given property
// name.
func (c *ClassDescriptor) FieldForProperty(property string) (*FieldDescriptor, bool) {
	for _, f := range c.Fields() {
		if f.IsScalar() && f.Property() == property {
			return f, true
		}
	}
	return nil, false
}

// Label returns the node label of the type: the NodeEntity label attribute,
// else the simple name.
func (c *ClassDescriptor) Label() string {
	return c.annotations.Attr(descriptor.NodeEntity, descriptor.AttrLabel, c.SimpleName())
}

// OwnLabels returns the labels a node of exactly this type answers to: the
// NodeEntity label attribute, if any, and the simple name.
func (c *ClassDescriptor) OwnLabels() []string {
	if label := c.Label(); label != c.SimpleName() {
		return []string{label, c.SimpleName()}
	}
	return []string{c.SimpleName()}
}

// Labels returns the labels of the type and all its ancestors, most specific
// first.
func (c *ClassDescriptor) Labels() []string {
	var labels []string
	for k := c; k != nil; k = k.superclass {
		for _, label := range k.OwnLabels() {
			if !slices.Contains(labels, label) {
				labels = append(labels, label)
			}
		}
	}
	return labels
}

// RelationshipType returns the relationship type of a RelationshipEntity
// class, or "".
func (c *ClassDescriptor) RelationshipType() string {
	ann, ok := c.annotations.Get(descriptor.RelationshipEntity)
	if !ok {
		return ""
	}
	return ann.Get(descriptor.AttrType, descriptor.SimpleName(c.name))
}

// IsSubclassOf reports whether name is c itself or one of its ancestors.
func (c *ClassDescriptor) IsSubclassOf(name string) bool {
	for k := c; k != nil; k = k.superclass {
		if k.name == name {
			return true
		}
	}
	return false
}

// Depth returns the number of ancestors above c.
func (c *ClassDescriptor) Depth() int {
	d := 0
	for k := c.superclass; k != nil; k = k.superclass {
		d++
	}
	return d
}

// AllAnnotationNames aggregates the class, field and method annotation names
// into one flat list.
func (c *ClassDescriptor) AllAnnotationNames() []string {
	names := c.annotations.Names()
	for _, f := range c.Fields() {
		names = append(names, f.annotations.Names()...)
	}
	for _, m := range c.Methods() {
		names = append(names, m.annotations.Names()...)
	}
	return names
}
