package schema

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/ogm/internal/orm/convert"
	"github.com/conduit-lang/ogm/internal/orm/descriptor"
	"github.com/conduit-lang/ogm/internal/testing/domain"
)

func names(classes []*ClassDescriptor) []string {
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		out = append(out, c.Name())
	}
	return out
}

func TestRegistry_Inheritance(t *testing.T) {
	r := Build(domain.AllClasses())

	individual, ok := r.Class(domain.Q("Individual"))
	require.True(t, ok)
	person, ok := r.Class(domain.Q("Person"))
	require.True(t, ok)
	entity, ok := r.Class(domain.Q("Entity"))
	require.True(t, ok)

	t.Run("placeholders are filled", func(t *testing.T) {
		assert.True(t, person.Hydrated())
		assert.True(t, entity.Hydrated())
		assert.Equal(t, "", entity.SuperclassName())
	})

	t.Run("links", func(t *testing.T) {
		assert.Same(t, person, individual.Superclass())
		assert.Same(t, entity, person.Superclass())
		assert.Nil(t, entity.Superclass())
		assert.Contains(t, person.Subclasses(), individual)
		assert.Equal(t, 2, individual.Depth())
		assert.True(t, individual.IsSubclassOf(domain.Q("Entity")))
		assert.False(t, person.IsSubclassOf(domain.Q("Individual")))
	})

	t.Run("inherited members", func(t *testing.T) {
		for _, name := range []string{"Age", "Name", "Friends", "ID"} {
			_, ok := individual.Field(name)
			assert.True(t, ok, name)
		}
		id := individual.IdentityField()
		require.NotNil(t, id)
		assert.Equal(t, "ID", id.Name())
		assert.Equal(t, domain.Q("Entity"), id.Owner())

		var props []string
		for _, f := range individual.PropertyFields() {
			props = append(props, f.Property())
		}
		assert.ElementsMatch(t, []string{"age", "nicknames", "name"}, props)
		assert.ElementsMatch(t, []string{"Memberships", "BestFriend", "Friends"}, fieldNames(individual.RelationshipFields()))

		f, ok := individual.FieldForProperty("name")
		require.True(t, ok)
		assert.Equal(t, "Name", f.Name())
	})

	t.Run("labels", func(t *testing.T) {
		assert.Equal(t, []string{"Individual", "Person", "Entity"}, individual.Labels())
		assert.Equal(t, []string{domain.Q("Individual")}, names(r.ClassesWithLabel("Individual")))
		assert.Equal(t, []string{domain.Q("Person")}, names(r.ClassesWithLabel("Person")))
	})

	t.Run("annotation index", func(t *testing.T) {
		assert.Equal(t,
			[]string{domain.Q("Club"), domain.Q("Individual"), domain.Q("Person")},
			names(r.ClassesWithAnnotation(descriptor.NodeEntity)))
		assert.Empty(t, r.ClassesWithAnnotation("Unknown"))
	})

	t.Run("relationship entities", func(t *testing.T) {
		rels := r.RelationshipEntities("MEMBER_OF")
		require.Len(t, rels, 1)
		assert.Equal(t, "MEMBER_OF", rels[0].RelationshipType())
		assert.Empty(t, r.RelationshipEntities("HAS_WHEEL"))
	})
}

func fieldNames(fields []*FieldDescriptor) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Name())
	}
	return out
}

func TestRegistry_HydrateOnce(t *testing.T) {
	r := NewRegistry()
	r.Ingest(domain.BikeClasses()...)

	again := &descriptor.Class{
		Name:       domain.Q("Bike"),
		Superclass: "example.com/other.Vehicle",
		Fields:     []descriptor.Member{{Name: "Gears", Signature: "int"}},
	}
	r.Ingest(again)
	r.Finish()

	bike, ok := r.Class(domain.Q("Bike"))
	require.True(t, ok)
	_, hasGears := bike.Field("Gears")
	assert.False(t, hasGears)
	_, hasBrand := bike.Field("Brand")
	assert.True(t, hasBrand)
	assert.Equal(t, "", bike.SuperclassName())

	_, ok = r.Class("example.com/other.Vehicle")
	assert.False(t, ok, "a second ingestion must not add a superclass placeholder")
	assert.True(t, r.Finished())
}

func TestRegistry_TransientRemoval(t *testing.T) {
	transient := []descriptor.Annotation{{Name: descriptor.Transient}}
	classes := []*descriptor.Class{
		{Name: "x.Leaf", Superclass: "x.Middle"},
		{Name: "x.Middle", Superclass: "x.Base"},
		{Name: "x.Base", Annotations: transient},
		{Name: "x.Kept"},
		{Name: "x.Parent", Annotations: []descriptor.Annotation{{Name: descriptor.NodeEntity}}},
		{Name: "x.Skipped", Superclass: "x.Parent", Annotations: transient},
		{Name: "x.SkippedChild", Superclass: "x.Skipped"},
		{Name: "x.Sibling", Superclass: "x.Parent"},
	}

	r := Build(classes)

	for _, name := range []string{"x.Leaf", "x.Middle", "x.Base", "x.Skipped", "x.SkippedChild"} {
		_, ok := r.Class(name)
		assert.False(t, ok, name)
	}
	for _, name := range []string{"x.Kept", "x.Parent", "x.Sibling"} {
		_, ok := r.Class(name)
		assert.True(t, ok, name)
	}

	parent, _ := r.Class("x.Parent")
	assert.Equal(t, []string{"x.Sibling"}, names(parent.Subclasses()))
	assert.Empty(t, r.ClassesWithAnnotation(descriptor.Transient))
	assert.Equal(t, 3, r.Count())

	c, err := r.ClassBySimpleName("Leaf")
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestRegistry_ClassBySimpleName(t *testing.T) {
	r := Build([]*descriptor.Class{
		{Name: "example.com/a.Thing"},
		{Name: "example.com/b.Thing"},
		{Name: "example.com/a.Widget"},
		{Name: "example.com/a.BigWidget"},
	})

	t.Run("ambiguous", func(t *testing.T) {
		c, err := r.ClassBySimpleName("Thing")
		assert.Nil(t, c)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAmbiguousName))

		var amb *AmbiguousNameError
		require.True(t, errors.As(err, &amb))
		assert.Equal(t, []string{"example.com/a.Thing", "example.com/b.Thing"}, amb.Candidates)
	})

	t.Run("single match", func(t *testing.T) {
		c, err := r.ClassBySimpleName("Widget")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "example.com/a.Widget", c.Name())
	})

	t.Run("exact name", func(t *testing.T) {
		c, err := r.ClassBySimpleName("example.com/b.Thing")
		require.NoError(t, err)
		assert.Equal(t, "example.com/b.Thing", c.Name())
	})

	t.Run("absent", func(t *testing.T) {
		c, err := r.ClassBySimpleName("Gadget")
		assert.NoError(t, err)
		assert.Nil(t, c)
	})
}

func TestRegistry_Converters(t *testing.T) {
	classes := []*descriptor.Class{
		{Name: "x.Colour", IsEnum: true, EnumValues: []string{"RED", "GREEN"}},
		{
			Name: "x.Car",
			Fields: []descriptor.Member{
				{Name: "Built", Signature: "time.Time"},
				{Name: "Mileage", Signature: "*math/big.Int"},
				{Name: "Paint", Signature: "x.Colour"},
				{Name: "Trims", Signature: "[]x.Colour", TypeParameter: "x.Colour"},
				{Name: "Scheme", Signature: "x.ColourScheme"},
				{Name: "Price", Signature: "string", Annotations: []descriptor.Annotation{
					{Name: descriptor.Convert, Attributes: map[string]string{descriptor.AttrConverter: convert.BigDecimalName}},
				}},
				{Name: "Secret", Signature: "string", Annotations: []descriptor.Annotation{
					{Name: descriptor.Convert, Attributes: map[string]string{descriptor.AttrConverter: "rot13"}},
				}},
				{Name: "Plate", Signature: "string"},
			},
		},
		{Name: "x.Sports", Superclass: "x.Car"},
	}

	r := Build(classes)
	car, ok := r.Class("x.Car")
	require.True(t, ok)

	converter := func(name string) convert.Converter {
		f, ok := car.Field(name)
		require.True(t, ok, name)
		return f.Converter()
	}

	assert.IsType(t, convert.DateConverter{}, converter("Built"))
	assert.IsType(t, convert.BigIntegerConverter{}, converter("Mileage"))
	assert.IsType(t, convert.BigDecimalConverter{}, converter("Price"))
	assert.IsType(t, &convert.EnumConverter{}, converter("Paint"))
	assert.IsType(t, &convert.EnumConverter{}, converter("Trims"))
	assert.Nil(t, converter("Scheme"))
	assert.Nil(t, converter("Secret"))
	assert.Nil(t, converter("Plate"))

	secret, _ := car.Field("Secret")
	assert.True(t, secret.IsScalar())

	scheme, _ := car.Field("Scheme")
	assert.True(t, scheme.IsRelationship())

	sports, _ := r.Class("x.Sports")
	built, ok := sports.Field("Built")
	require.True(t, ok)
	assert.IsType(t, convert.DateConverter{}, built.Converter())

	assert.Equal(t, []string{"x.Colour"}, r.EnumSignatures())
	colour, _ := r.Class("x.Colour")
	assert.True(t, colour.IsEnum())
	assert.Equal(t, []string{"RED", "GREEN"}, colour.EnumValues())
}

func TestRegistry_Interfaces(t *testing.T) {
	r := NewRegistry()
	r.Ingest(
		&descriptor.Class{Name: "x.Named", IsInterface: true},
		&descriptor.Class{Name: "x.Named", IsInterface: true, Annotations: []descriptor.Annotation{{Name: "Ignored"}}},
		&descriptor.Class{Name: "x.Animal", Interfaces: []string{"x.Named"}},
		&descriptor.Class{Name: "x.Dog", Superclass: "x.Animal"},
		&descriptor.Class{Name: "x.Rock"},
	)
	r.Finish()

	iface, ok := r.Interface("x.Named")
	require.True(t, ok)
	assert.Empty(t, iface.Annotations)

	_, ok = r.Class("x.Named")
	assert.False(t, ok)

	assert.Equal(t, []string{"x.Animal", "x.Dog"}, names(r.ClassesImplementing("x.Named")))
	dog, _ := r.Class("x.Dog")
	assert.Equal(t, []string{"x.Named"}, dog.Interfaces())
}

func TestRegistry_IngestSource(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.IngestSource(descriptor.NewSliceSource(domain.BikeClasses())))
	assert.False(t, r.Finished())
	r.Finish()
	assert.Equal(t, 5, r.Count())
	assert.Len(t, r.Classes(), 5)

	err := r.IngestSource(failingSource{})
	assert.Error(t, err)
}

type failingSource struct{}

func (failingSource) Next() (*descriptor.Class, bool, error) {
	return nil, false, errors.New("stream broken")
}

func TestRegistry_LabelAttribute(t *testing.T) {
	r := Build([]*descriptor.Class{
		{Name: "x.Vehicle", Annotations: []descriptor.Annotation{{Name: descriptor.NodeEntity}}},
		{
			Name:       "x.Car",
			Superclass: "x.Vehicle",
			Annotations: []descriptor.Annotation{{
				Name:       descriptor.NodeEntity,
				Attributes: map[string]string{descriptor.AttrLabel: "Automobile"},
			}},
		},
	})

	car, ok := r.Class("x.Car")
	require.True(t, ok)
	assert.Equal(t, "Automobile", car.Label())
	assert.Equal(t, []string{"Automobile", "Car"}, car.OwnLabels())
	assert.Equal(t, []string{"Automobile", "Car", "Vehicle"}, car.Labels())

	assert.Equal(t, []string{"x.Car"}, names(r.ClassesWithLabel("Automobile")))
	assert.Equal(t, []string{"x.Car"}, names(r.ClassesWithLabel("Car")))
	assert.Equal(t, []string{"x.Vehicle"}, names(r.ClassesWithLabel("Vehicle")))
}

func TestRegistry_Validate(t *testing.T) {
	r := Build([]*descriptor.Class{
		{
			Name: "x.Both",
			Annotations: []descriptor.Annotation{
				{Name: descriptor.NodeEntity},
				{Name: descriptor.RelationshipEntity},
			},
		},
		{Name: "x.Fine", Annotations: []descriptor.Annotation{{Name: descriptor.NodeEntity}}},
		{Name: "x.A", Superclass: "x.B"},
		{Name: "x.B", Superclass: "x.A"},
	})

	failures := r.Validate()
	require.Len(t, failures, 3)

	// classes are validated in name order: x.A, x.B, x.Both, x.Fine
	assert.True(t, errors.Is(failures[0], ErrInheritanceCycle))
	assert.True(t, errors.Is(failures[1], ErrInheritanceCycle))
	assert.Contains(t, failures[0].Error(), "x.A -> x.B -> x.A")

	var conflict *AnnotationConflictError
	require.True(t, errors.As(failures[2], &conflict))
	assert.Equal(t, "x.Both", conflict.Class)
	assert.Equal(t, [2]string{descriptor.NodeEntity, descriptor.RelationshipEntity}, conflict.Pair)

	assert.Empty(t, Build(domain.AllClasses()).Validate())
}
