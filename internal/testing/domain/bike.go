// Package domain holds small domain models, and their class descriptors, used
// by the mapping tests.
package domain

import "time"

// Pkg is the qualified package path of the fixture types.
const Pkg = "github.com/conduit-lang/ogm/internal/testing/domain"

// Q qualifies a simple type name with Pkg.
func Q(name string) string { return Pkg + "." + name }

// Bike is the root of the bike model. Setters count their calls so tests can
// tell one collection assignment from several.
type Bike struct {
	ID        *int64
	Brand     string
	Colours   []string
	Purchased time.Time
	Wheels    []*Wheel
	Frame     *Frame
	Saddle    *Saddle

	WheelCalls  int
	FrameCalls  int
	SaddleCalls int
}

// SetWheels assigns the wheels.
func (b *Bike) SetWheels(w []*Wheel) {
	b.Wheels = w
	b.WheelCalls++
}

// SetFrame assigns the frame.
func (b *Bike) SetFrame(f *Frame) {
	b.Frame = f
	b.FrameCalls++
}

// SetSaddle assigns the saddle.
func (b *Bike) SetSaddle(s *Saddle) {
	b.Saddle = s
	b.SaddleCalls++
}

// Wheel is a bike wheel.
type Wheel struct {
	ID     *int64
	Spokes *int
}

// Finish is the paint finish of a frame.
type Finish int

const (
	Matte Finish = iota
	Gloss
	Satin
)

// Frame is a bike frame.
type Frame struct {
	ID     *int64
	Size   *int
	Finish Finish
}

// Saddle is a bike saddle.
type Saddle struct {
	ID       *int64
	Price    *float64
	Material string
}
