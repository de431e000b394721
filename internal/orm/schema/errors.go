package schema

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrAmbiguousName is matched by every AmbiguousNameError.
	ErrAmbiguousName = errors.New("ambiguous simple name")

	// ErrAnnotationConflict is matched by every AnnotationConflictError.
	ErrAnnotationConflict = errors.New("annotation conflict")

	// ErrInheritanceCycle is returned for a class that is its own ancestor.
	ErrInheritanceCycle = errors.New("inheritance cycle")

	// ErrUnknownConverter is returned when a Convert annotation names a
	// converter the catalog does not hold.
	ErrUnknownConverter = errors.New("unknown converter")
)

// AmbiguousNameError is returned when a simple name matches more than one
// registered type.
type AmbiguousNameError struct {
	Name       string
	Candidates []string
}

// Error implements the error interface
func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("more than one class has simple name %s: %s", e.Name, strings.Join(e.Candidates, ", "))
}

// Is matches ErrAmbiguousName.
func (e *AmbiguousNameError) Is(target error) bool { return target == ErrAmbiguousName }

// AnnotationConflictError is returned when a type carries a forbidden
// combination of annotations.
type AnnotationConflictError struct {
	Class string
	Pair  [2]string
}

// Error implements the error interface
func (e *AnnotationConflictError) Error() string {
	return fmt.Sprintf("annotations of class %s are not valid: %s and %s cannot be combined",
		e.Class, e.Pair[0], e.Pair[1])
}

// Is matches ErrAnnotationConflict.
func (e *AnnotationConflictError) Is(target error) bool { return target == ErrAnnotationConflict }
