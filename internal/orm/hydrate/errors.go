package hydrate

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/conduit-lang/ogm/internal/orm/entity"
)

var (
	// ErrWiring is matched by every HydrationWiringError.
	ErrWiring = errors.New("hydration wiring failed")

	// ErrUnsupportedCollection is matched by every UnsupportedCollectionError.
	ErrUnsupportedCollection = errors.New("unsupported collection")

	// ErrUnknownNode is returned for relationships whose start or end node
	// is not part of the result.
	ErrUnknownNode = errors.New("unknown node")
)

// HydrationWiringError is returned when no setter on the start type accepts
// the end instance of a relationship.
type HydrationWiringError struct {
	Relationship int64
	Type         string
	StartType    string
	EndType      string
}

// Error implements the error interface
func (e *HydrationWiringError) Error() string {
	return fmt.Sprintf("relationship %d (%s): no setter on %s accepts %s",
		e.Relationship, e.Type, e.StartType, e.EndType)
}

// Is matches ErrWiring.
func (e *HydrationWiringError) Is(target error) bool { return target == ErrWiring }

// UnsupportedCollectionError is returned when the only setter for a
// relationship takes a collection kind the hydrator cannot populate.
type UnsupportedCollectionError struct {
	Class  string
	Member string
	Kind   entity.Kind
}

// Error implements the error interface
func (e *UnsupportedCollectionError) Error() string {
	return fmt.Sprintf("%s.%s: cannot populate a %s collection", e.Class, e.Member, e.Kind)
}

// Is matches ErrUnsupportedCollection.
func (e *UnsupportedCollectionError) Is(target error) bool { return target == ErrUnsupportedCollection }
