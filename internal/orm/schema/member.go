package schema

import (
	"slices"
	"strings"

	"github.com/conduit-lang/ogm/internal/orm/convert"
	"github.com/conduit-lang/ogm/internal/orm/descriptor"
	ustrings "github.com/conduit-lang/ogm/internal/util/strings"
)

// Direction of a relationship relative to the owning type.
const (
	Outgoing   = "OUTGOING"
	Incoming   = "INCOMING"
	Undirected = "UNDIRECTED"
)

var primitives = []string{
	"bool", "string", "byte", "rune",
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"float32", "float64", "complex64", "complex128",
}

var (
	primitiveSet = make(map[string]struct{})
	wrapperSet   = map[string]struct{}{
		"time.Duration":  {},
		"*time.Duration": {},
	}
)

func init() {
	for _, p := range primitives {
		primitiveSet[p] = struct{}{}
		primitiveSet["[]"+p] = struct{}{}
		wrapperSet["*"+p] = struct{}{}
	}
}

// IsPrimitive reports whether signature is a primitive type or a
// single-dimension slice of one.
func IsPrimitive(signature string) bool {
	_, ok := primitiveSet[signature]
	return ok
}

// IsWrapper reports whether signature is a standard-library scalar wrapper:
// a pointer to a primitive, or time.Duration.
func IsWrapper(signature string) bool {
	_, ok := wrapperSet[signature]
	return ok
}

// Member is the view shared by field and method descriptors.
type Member interface {
	Owner() string
	Name() string
	Signature() string
	TypeParameter() string
	Annotations() Annotations
	Converter() convert.Converter
	IsScalar() bool
	IsRelationship() bool
	Property() string
	Relationship() string
	Direction() string
	TargetType() string
}

// member is the state shared by field and method descriptors.
type member struct {
	owner         string
	name          string
	method        bool
	signature     string
	typeParameter string
	annotations   Annotations
	converter     convert.Converter
	scalar        *bool
}

func newMember(owner string, m descriptor.Member, method bool) member {
	return member{
		owner:         owner,
		name:          m.Name,
		method:        method,
		signature:     m.Signature,
		typeParameter: m.TypeParameter,
		annotations:   slices.Clone(Annotations(m.Annotations)),
	}
}

// Owner returns the name of the declaring type.
func (m *member) Owner() string { return m.owner }

// Name returns the member name.
func (m *member) Name() string { return m.name }

// Signature returns the raw type signature.
func (m *member) Signature() string { return m.signature }

// TypeParameter returns the element type of a container-typed member.
func (m *member) TypeParameter() string { return m.typeParameter }

// Annotations returns the member annotations.
func (m *member) Annotations() Annotations { return m.annotations }

// Converter returns the resolved converter, or nil.
func (m *member) Converter() convert.Converter { return m.converter }

// HasConverter reports whether a converter has been resolved.
func (m *member) HasConverter() bool { return m.converter != nil }

// ExplicitConverter returns the converter name given by a Convert
// annotation, or "".
func (m *member) ExplicitConverter() string {
	return m.annotations.Attr(descriptor.Convert, descriptor.AttrConverter, "")
}

// IsConvertible reports whether the member is stored through a non-identity
// transformation.
func (m *member) IsConvertible() bool {
	if m.converter != nil {
		return true
	}
	for _, sig := range []string{
		convert.DateSignature,
		convert.BigIntegerSignature,
		convert.BigDecimalSignature,
		convert.ByteArraySignature,
		convert.ByteArrayWrapperSignature,
	} {
		if convert.Mentions(m.signature, sig) || convert.Mentions(m.typeParameter, sig) {
			return true
		}
	}
	return false
}

// IsScalar reports whether the member maps to a node property. Any member
// that is not scalar is a relationship.
func (m *member) IsScalar() bool {
	if m.scalar != nil {
		return *m.scalar
	}
	return m.classify()
}

// IsRelationship reports whether the member maps to a relationship.
func (m *member) IsRelationship() bool { return !m.IsScalar() }

// seal fixes the classification so it can no longer change.
func (m *member) seal() {
	if m.scalar == nil {
		s := m.classify()
		m.scalar = &s
	}
}

func (m *member) classify() bool {
	switch {
	case m.annotations.Has(descriptor.Relationship),
		m.annotations.Has(descriptor.StartNode),
		m.annotations.Has(descriptor.EndNode):
		return false
	case m.annotations.Has(descriptor.Property),
		m.annotations.Has(descriptor.GraphID),
		m.annotations.Has(descriptor.Convert):
		return true
	}
	return IsPrimitive(m.signature) ||
		m.IsConvertible() ||
		(IsWrapper(m.signature) && m.typeParameter == "") ||
		(m.typeParameter != "" && (isBasic(m.typeParameter) || IsWrapper(m.typeParameter)))
}

// isBasic is IsPrimitive without the slice forms, so that a container of
// slices is not taken for a single-dimension array.
func isBasic(signature string) bool {
	return IsPrimitive(signature) && !strings.HasPrefix(signature, "[]")
}

// baseName is the member name with accessor prefixes removed.
func (m *member) baseName() string {
	if !m.method {
		return m.name
	}
	for _, prefix := range []string{"Get", "Set", "get", "set"} {
		if rest, ok := strings.CutPrefix(m.name, prefix); ok && rest != "" {
			return rest
		}
	}
	return m.name
}

// Property returns the stored property name of a scalar member, or "".
func (m *member) Property() string {
	if !m.IsScalar() {
		return ""
	}
	return m.annotations.Attr(descriptor.Property, descriptor.AttrName, ustrings.LowerFirst(m.baseName()))
}

// Relationship returns the stored relationship type of a relationship
// member, or "".
func (m *member) Relationship() string {
	if m.IsScalar() {
		return ""
	}
	return m.annotations.Attr(descriptor.Relationship, descriptor.AttrType, InferRelationshipType(m.baseName()))
}

// Direction returns the relationship direction, OUTGOING by default.
func (m *member) Direction() string {
	return strings.ToUpper(m.annotations.Attr(descriptor.Relationship, descriptor.AttrDirection, Outgoing))
}

// TargetType returns the type a relationship member points at, with pointer
// and container decoration removed.
func (m *member) TargetType() string {
	t := m.signature
	if m.typeParameter != "" {
		t = m.typeParameter
	}
	return ElementType(t)
}

// ElementType strips pointer, slice and array decoration from a signature.
func ElementType(signature string) string {
	t := signature
	for {
		switch {
		case strings.HasPrefix(t, "*"):
			t = t[1:]
		case strings.HasPrefix(t, "[]"):
			t = t[2:]
		case strings.HasPrefix(t, "["):
			if i := strings.IndexByte(t, ']'); i > 0 {
				t = t[i+1:]
				continue
			}
			return t
		default:
			return t
		}
	}
}

// FieldDescriptor describes one field of a class.
type FieldDescriptor struct {
	member
}

// MethodDescriptor describes one accessor method of a class.
type MethodDescriptor struct {
	member
}

// InferRelationshipType derives a relationship type from a member name:
// the last camel-case word is singularised and the result is upper snake
// case with a HAS_ prefix (wheels -> HAS_WHEEL, frontWheels -> HAS_FRONT_WHEEL).
func InferRelationshipType(name string) string {
	if name == "" {
		return ""
	}
	snake := ustrings.ToSnakeCase(name)
	words := strings.Split(snake, "_")
	words[len(words)-1] = ustrings.Singularize(words[len(words)-1])
	return "HAS_" + strings.ToUpper(strings.Join(words, "_"))
}
