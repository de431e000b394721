package schema

import (
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/conduit-lang/ogm/internal/orm/convert"
	"github.com/conduit-lang/ogm/internal/orm/descriptor"
)

// Registry owns the class and interface descriptors of a domain.
//
// It is built in two phases: Ingest consumes raw descriptors, Finish links
// the inheritance graph, resolves converters, builds the indexes and prunes
// transient subtrees. After Finish the registry is read-mostly; further
// ingestion requires another Finish and must not interleave with lookups.
type Registry struct {
	classes      map[string]*ClassDescriptor
	interfaces   map[string]*InterfaceDescriptor
	byAnnotation map[string][]*ClassDescriptor
	byInterface  map[string][]*ClassDescriptor
	byLabel      map[string][]*ClassDescriptor
	catalog      *convert.Catalog
	validator    *AnnotationValidator
	logger       *zap.Logger
	finished     bool
	mu           sync.RWMutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithCatalog sets the converter catalog used during Finish.
func WithCatalog(c *convert.Catalog) Option {
	return func(r *Registry) { r.catalog = c }
}

// WithValidator replaces the annotation validator used by Validate.
func WithValidator(v *AnnotationValidator) Option {
	return func(r *Registry) { r.validator = v }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		classes:      make(map[string]*ClassDescriptor),
		interfaces:   make(map[string]*InterfaceDescriptor),
		byAnnotation: make(map[string][]*ClassDescriptor),
		byInterface:  make(map[string][]*ClassDescriptor),
		byLabel:      make(map[string][]*ClassDescriptor),
		catalog:      convert.NewCatalog(),
		validator:    NewAnnotationValidator(),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build ingests classes and finishes the registry in one step.
func Build(classes []*descriptor.Class, opts ...Option) *Registry {
	r := NewRegistry(opts...)
	r.Ingest(classes...)
	r.Finish()
	return r
}

// Ingest consumes raw class descriptors in any order.
//
// Interfaces are recorded once. Any other type fills its placeholder
// descriptor, creating it if needed, exactly once; its superclass receives
// at least a placeholder that lists the type as a subclass. Enum types have
// their signature registered with the converter catalog.
func (r *Registry) Ingest(classes ...*descriptor.Class) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range classes {
		r.ingest(d)
	}
}

// IngestSource drains src into the registry.
func (r *Registry) IngestSource(src descriptor.Source) error {
	for {
		d, ok, err := src.Next()
		if err != nil {
			return errors.Wrap(err, "failed to read class descriptor")
		}
		if !ok {
			return nil
		}
		r.Ingest(d)
	}
}

func (r *Registry) ingest(d *descriptor.Class) {
	if d == nil || d.Name == "" {
		return
	}
	r.finished = false
	r.logger.Debug("processing class", zap.String("class", d.Name), zap.String("superclass", d.Superclass))

	if d.IsInterface {
		if _, ok := r.interfaces[d.Name]; !ok {
			r.interfaces[d.Name] = &InterfaceDescriptor{
				Name:        d.Name,
				Annotations: slices.Clone(Annotations(d.Annotations)),
			}
		}
		return
	}

	class, ok := r.classes[d.Name]
	if !ok {
		class = newPlaceholder(d.Name)
		r.classes[d.Name] = class
	}
	if !class.hydrated {
		class.hydrate(d)
		if !descriptor.IsRoot(d.Superclass) {
			super, ok := r.classes[d.Superclass]
			if !ok {
				super = newPlaceholder(d.Superclass)
				r.classes[d.Superclass] = super
			}
			super.addSubclass(class)
		}
	}
	if class.isEnum {
		r.logger.Info("registering enum class", zap.String("class", class.name))
		r.catalog.RegisterEnum(class.name, class.enumValues)
	}
}

// Finish completes the registry. In order it builds the annotation index,
// resolves default converters, propagates inheritance from every root-level
// class down to its subclasses, and removes every transient class together
// with its whole subclass subtree.
func (r *Registry) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	r.buildAnnotationIndex()
	r.registerDefaultConverters()

	var transient []*ClassDescriptor
	for _, class := range r.sortedClasses() {
		if class.IsTransient() {
			r.logger.Info("registering transient base class", zap.String("class", class.name))
			transient = append(transient, class)
			continue
		}
		if class.superclassName == "" {
			r.extend(class, class.subclasses, map[*ClassDescriptor]bool{class: true})
		}
	}

	for _, class := range transient {
		r.removeTransient(class, make(map[*ClassDescriptor]bool))
	}

	r.buildDerivedIndexes()
	r.finished = true
	r.logger.Info("classes loaded",
		zap.Int("classes", len(r.classes)),
		zap.Int("interfaces", len(r.interfaces)),
		zap.Duration("elapsed", time.Since(start)))
}

func (r *Registry) buildAnnotationIndex() {
	r.byAnnotation = make(map[string][]*ClassDescriptor)
	for _, class := range r.sortedClasses() {
		seen := make(map[string]bool)
		for _, ann := range class.annotations {
			if seen[ann.Name] {
				continue
			}
			seen[ann.Name] = true
			r.byAnnotation[ann.Name] = append(r.byAnnotation[ann.Name], class)
		}
	}
}

func (r *Registry) registerDefaultConverters() {
	for _, class := range r.classes {
		if class.isEnum || class.isInterface {
			continue
		}
		for _, f := range class.fields {
			r.resolveConverter(class, &f.member)
		}
		for _, m := range class.methods {
			r.resolveConverter(class, &m.member)
		}
	}
}

func (r *Registry) resolveConverter(class *ClassDescriptor, m *member) {
	if m.owner != class.name {
		// Inherited; resolved on the declaring class.
		return
	}
	if name := m.ExplicitConverter(); name != "" {
		if m.converter == nil {
			conv, ok := r.catalog.Named(name)
			if !ok {
				r.logger.Warn("unknown converter",
					zap.String("class", class.name),
					zap.String("member", m.name),
					zap.String("converter", name),
					zap.Error(ErrUnknownConverter))
			}
			m.converter = conv
		}
	} else if m.converter == nil {
		m.converter = r.catalog.Resolve(m.signature, m.typeParameter)
	}
	m.seal()
}

func (r *Registry) extend(super *ClassDescriptor, subclasses []*ClassDescriptor, seen map[*ClassDescriptor]bool) {
	for _, sub := range subclasses {
		if seen[sub] {
			continue
		}
		seen[sub] = true
		sub.extend(super)
		r.extend(sub, sub.subclasses, seen)
	}
}

func (r *Registry) removeTransient(class *ClassDescriptor, seen map[*ClassDescriptor]bool) {
	if class == nil || seen[class] {
		return
	}
	seen[class] = true
	r.logger.Info("removing transient class", zap.String("class", class.name))
	delete(r.classes, class.name)
	if super, ok := r.classes[class.superclassName]; ok {
		super.removeSubclass(class)
	}
	for _, child := range class.subclasses {
		r.removeTransient(child, seen)
	}
}

// buildDerivedIndexes rebuilds the interface and label indexes and drops
// removed classes from the annotation index.
func (r *Registry) buildDerivedIndexes() {
	for name, classes := range r.byAnnotation {
		kept := slices.DeleteFunc(classes, func(c *ClassDescriptor) bool {
			_, ok := r.classes[c.name]
			return !ok
		})
		if len(kept) == 0 {
			delete(r.byAnnotation, name)
			continue
		}
		r.byAnnotation[name] = kept
	}

	r.byInterface = make(map[string][]*ClassDescriptor)
	r.byLabel = make(map[string][]*ClassDescriptor)
	for _, class := range r.sortedClasses() {
		for _, iface := range class.interfaces {
			r.byInterface[iface] = append(r.byInterface[iface], class)
		}
		if class.hydrated && !class.isEnum && !class.isInterface {
			for _, label := range class.OwnLabels() {
				r.byLabel[label] = append(r.byLabel[label], class)
			}
		}
	}
}

func (r *Registry) sortedClasses() []*ClassDescriptor {
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*ClassDescriptor, 0, len(names))
	for _, name := range names {
		out = append(out, r.classes[name])
	}
	return out
}

// Validate runs the annotation validator against every class. Failures are
// logged and collected; they never stop the rest of the domain from being
// usable, so the caller decides whether to refuse to proceed.
func (r *Registry) Validate() []error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var failures []error
	for _, class := range r.sortedClasses() {
		if err := r.validator.Validate(class); err != nil {
			r.logger.Warn("invalid class annotations", zap.String("class", class.name), zap.Error(err))
			failures = append(failures, err)
		}
		if cycle := r.ancestorCycle(class); cycle != nil {
			err := errors.Wrapf(ErrInheritanceCycle, "%s", strings.Join(cycle, " -> "))
			r.logger.Warn("invalid class hierarchy", zap.String("class", class.name), zap.Error(err))
			failures = append(failures, err)
		}
	}
	return failures
}

// ancestorCycle follows superclass names from class and returns the path if
// it comes back to class. Such classes are never linked by Finish.
func (r *Registry) ancestorCycle(class *ClassDescriptor) []string {
	path := []string{class.name}
	seen := map[string]bool{class.name: true}
	for name := class.superclassName; name != ""; {
		path = append(path, name)
		if name == class.name {
			return path
		}
		if seen[name] {
			return nil
		}
		seen[name] = true
		next, ok := r.classes[name]
		if !ok {
			return nil
		}
		name = next.superclassName
	}
	return nil
}

// Finished reports whether Finish has run since the last ingestion.
func (r *Registry) Finished() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.finished
}

// Catalog returns the converter catalog.
func (r *Registry) Catalog() *convert.Catalog {
	return r.catalog
}

// Class returns the descriptor with the given fully-qualified name.
func (r *Registry) Class(name string) (*ClassDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	class, ok := r.classes[name]
	return class, ok
}

// ClassBySimpleName returns the descriptor whose fully-qualified name ends in
// "."+name or equals name. It returns (nil, nil) when nothing matches and an
// AmbiguousNameError when more than one type matches.
func (r *Registry) ClassBySimpleName(name string) (*ClassDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*ClassDescriptor
	for _, class := range r.sortedClasses() {
		if class.name == name || strings.HasSuffix(class.name, "."+name) {
			matches = append(matches, class)
		}
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		candidates := make([]string, 0, len(matches))
		for _, m := range matches {
			candidates = append(candidates, m.name)
		}
		return nil, &AmbiguousNameError{Name: name, Candidates: candidates}
	}
}

// ClassesWithAnnotation returns every class carrying the annotation. An
// empty result is not an error.
func (r *Registry) ClassesWithAnnotation(name string) []*ClassDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.byAnnotation[name])
}

// ClassesImplementing returns every class implementing the interface,
// directly or through a superclass.
func (r *Registry) ClassesImplementing(iface string) []*ClassDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.byInterface[iface])
}

// ClassesWithLabel returns the classes answering to label: by their
// NodeEntity label attribute or by their simple name.
func (r *Registry) ClassesWithLabel(label string) []*ClassDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.byLabel[label])
}

// RelationshipEntities returns the RelationshipEntity classes stored under
// the relationship type.
func (r *Registry) RelationshipEntities(relType string) []*ClassDescriptor {
	var out []*ClassDescriptor
	for _, class := range r.ClassesWithAnnotation(descriptor.RelationshipEntity) {
		if class.RelationshipType() == relType {
			out = append(out, class)
		}
	}
	return out
}

// Interface returns the interface descriptor with the given name.
func (r *Registry) Interface(name string) (*InterfaceDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	iface, ok := r.interfaces[name]
	return iface, ok
}

// Classes returns every class descriptor, sorted by name.
func (r *Registry) Classes() []*ClassDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedClasses()
}

// Count returns the number of class descriptors.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// EnumSignatures returns the enum signatures collected during ingestion.
func (r *Registry) EnumSignatures() []string {
	return r.catalog.EnumSignatures()
}
