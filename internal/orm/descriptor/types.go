// Package descriptor defines the raw class descriptors consumed by the mapping
// registry, and the sources that produce them: YAML manifests and a Go
// package scanner.
//
// A descriptor is a plain value. It carries names, type signatures and
// annotations only; classification and converter resolution happen later in
// the schema package.
package descriptor

import "strings"

// RootType is the universal root type. A class whose superclass is RootType
// (or empty) has no further ancestor.
const RootType = "any"

// IsRoot reports whether name denotes the root sentinel.
func IsRoot(name string) bool {
	return name == "" || name == RootType
}

// Annotation is a named marker with optional string attributes.
type Annotation struct {
	Name       string            `yaml:"name" json:"name"`
	Attributes map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Get returns the attribute value for key, or def when absent or empty.
func (a Annotation) Get(key, def string) string {
	if v, ok := a.Attributes[key]; ok && v != "" {
		return v
	}
	return def
}

// Member describes a field or method of a class.
//
// Signature uses go/types notation (time.Time, *math/big.Int, []byte,
// []*example.com/bike.Wheel). TypeParameter is the element type of a
// container-typed member (the key type for a map[K]struct{} set) and is
// empty otherwise.
type Member struct {
	Name          string       `yaml:"name" json:"name"`
	Signature     string       `yaml:"signature" json:"signature"`
	TypeParameter string       `yaml:"type_parameter,omitempty" json:"type_parameter,omitempty"`
	Annotations   []Annotation `yaml:"annotations,omitempty" json:"annotations,omitempty"`
}

// Class is the raw descriptor of one compiled type.
type Class struct {
	Name        string       `yaml:"name" json:"name"`
	Superclass  string       `yaml:"superclass,omitempty" json:"superclass,omitempty"`
	Interfaces  []string     `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	IsInterface bool         `yaml:"interface,omitempty" json:"interface,omitempty"`
	IsEnum      bool         `yaml:"enum,omitempty" json:"enum,omitempty"`
	EnumValues  []string     `yaml:"enum_values,omitempty" json:"enum_values,omitempty"`
	Annotations []Annotation `yaml:"annotations,omitempty" json:"annotations,omitempty"`
	Fields      []Member     `yaml:"fields,omitempty" json:"fields,omitempty"`
	Methods     []Member     `yaml:"methods,omitempty" json:"methods,omitempty"`
}

// SimpleName returns the unqualified type name.
func (c *Class) SimpleName() string {
	return SimpleName(c.Name)
}

// SimpleName strips the package qualifier from a fully-qualified type name.
func SimpleName(fqn string) string {
	if i := strings.LastIndex(fqn, "."); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}

// Source yields class descriptors one at a time. Next returns false once the
// stream is exhausted.
type Source interface {
	Next() (*Class, bool, error)
}

// SliceSource adapts a slice of descriptors to Source.
type SliceSource struct {
	classes []*Class
	pos     int
}

// NewSliceSource creates a Source over classes.
func NewSliceSource(classes []*Class) *SliceSource {
	return &SliceSource{classes: classes}
}

// Next implements Source.
func (s *SliceSource) Next() (*Class, bool, error) {
	if s.pos >= len(s.classes) {
		return nil, false, nil
	}
	c := s.classes[s.pos]
	s.pos++
	return c, true, nil
}
