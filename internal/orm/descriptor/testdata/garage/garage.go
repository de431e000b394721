// Package garage is a small domain model read by the scanner tests.
package garage

import "time"

// Vehicle is anything that rolls.
type Vehicle interface {
	WheelCount() int
}

// Colour is a paint colour.
type Colour int

const (
	Red Colour = iota
	Green
	Blue
)

// Grade is a string-backed constant set; only integer-backed ones are enums.
type Grade string

const (
	Standard Grade = "standard"
	Premium  Grade = "premium"
)

// Entity carries the store identity.
type Entity struct {
	ID *int64 `ogm:"id"`
}

// Car is a vehicle.
//
//ogm:NodeEntity label=Automobile
type Car struct {
	Entity
	Make   string    `ogm:"property,name=manufacturer"`
	Built  time.Time `ogm:"convert,converter=date"`
	Paint  Colour
	Wheels []*Wheel `ogm:"rel,type=HAS_WHEEL"`
	Owners map[*Owner]struct{}
	Notes  string `ogm:"-"`

	mileage int
}

// WheelCount implements Vehicle.
func (c *Car) WheelCount() int { return len(c.Wheels) }

// SetOwners replaces the owners.
//
//ogm:Relationship type=OWNED_BY direction=INCOMING
func (c *Car) SetOwners(o map[*Owner]struct{}) { c.Owners = o }

// Mileage is not an accessor.
func (c *Car) Mileage(unit string) (int, error) { return c.mileage, nil }

// Wheel is part of a car.
type Wheel struct {
	ID     *int64
	Spokes int
}

// Owner owns cars.
type Owner struct {
	Entity
	Name string
}
