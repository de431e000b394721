package schema

import (
	"slices"

	"github.com/conduit-lang/ogm/internal/orm/descriptor"
)

// DefaultForbiddenCombinations lists annotation pairs that may not occur
// together anywhere on one type.
var DefaultForbiddenCombinations = [][2]string{
	{descriptor.Transient, descriptor.NodeEntity},
	{descriptor.Transient, descriptor.RelationshipEntity},
	{descriptor.NodeEntity, descriptor.RelationshipEntity},
}

// AnnotationValidator checks the aggregated annotations of a class against a
// table of forbidden pairs. The check spans the whole type: a pair is
// forbidden when both names occur anywhere among the class, field and method
// annotations.
type AnnotationValidator struct {
	forbidden [][2]string
}

// NewAnnotationValidator creates a validator. With no pairs it uses
// DefaultForbiddenCombinations.
func NewAnnotationValidator(pairs ...[2]string) *AnnotationValidator {
	if len(pairs) == 0 {
		pairs = DefaultForbiddenCombinations
	}
	return &AnnotationValidator{forbidden: pairs}
}

// Validate returns an AnnotationConflictError for the first forbidden pair
// present on class.
func (v *AnnotationValidator) Validate(class *ClassDescriptor) error {
	names := class.AllAnnotationNames()
	for _, pair := range v.forbidden {
		if slices.Contains(names, pair[0]) && slices.Contains(names, pair[1]) {
			return &AnnotationConflictError{Class: class.Name(), Pair: pair}
		}
	}
	return nil
}
