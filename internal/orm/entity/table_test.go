package entity

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gadget struct {
	Name   string
	Weight *float64
	Parts  []*part
	Main   *part
	Tags   map[*part]struct{}
}

type part struct{ Serial int }

type grade int

type sku string

func gadgetBinding() *Binding {
	return Bind[gadget]("example.com/shop.Gadget", map[string]Property{
		"Name":   Prop(func(g *gadget) string { return g.Name }, func(g *gadget, v string) { g.Name = v }),
		"Weight": Prop(func(g *gadget) *float64 { return g.Weight }, func(g *gadget, v *float64) { g.Weight = v }),
	},
		Many("Parts", func(g *gadget, v []*part) { g.Parts = v }),
		One("Main", func(g *gadget, v *part) { g.Main = v }),
		SetOf("Tags", func(g *gadget, v map[*part]struct{}) { g.Tags = v }),
	)
}

func TestBinding(t *testing.T) {
	table := NewTable(gadgetBinding())
	b, ok := table.Binding("example.com/shop.Gadget")
	require.True(t, ok)
	assert.Equal(t, []string{"example.com/shop.Gadget"}, table.Names())

	inst := b.New()
	g, ok := inst.(*gadget)
	require.True(t, ok)

	t.Run("properties", func(t *testing.T) {
		name, ok := b.Property("Name")
		require.True(t, ok)
		require.NoError(t, name.Set(inst, "sprocket"))
		assert.Equal(t, "sprocket", name.Get(inst))

		weight, _ := b.Property("Weight")
		require.NoError(t, weight.Set(inst, int64(3)))
		require.NotNil(t, g.Weight)
		assert.Equal(t, 3.0, *g.Weight)

		require.NoError(t, weight.Set(inst, nil))
		assert.Nil(t, g.Weight)

		assert.True(t, errors.Is(name.Set(&part{}, "x"), ErrWrongInstance))
		assert.Nil(t, name.Get(&part{}))
	})

	t.Run("relations", func(t *testing.T) {
		p1, p2 := &part{Serial: 1}, &part{Serial: 2}

		parts, ok := b.Relation("Parts")
		require.True(t, ok)
		assert.Equal(t, Slice, parts.Kind)
		require.NoError(t, parts.Set(inst, []any{p1, p2}))
		assert.Equal(t, []*part{p1, p2}, g.Parts)

		main, _ := b.Relation("Main")
		assert.Equal(t, Single, main.Kind)
		require.NoError(t, main.Set(inst, []any{p2}))
		assert.Same(t, p2, g.Main)
		assert.Error(t, main.Set(inst, []any{p1, p2}))
		assert.True(t, errors.Is(main.Set(inst, []any{"p"}), ErrWrongInstance))

		tags, _ := b.Relation("Tags")
		assert.Equal(t, Set, tags.Kind)
		require.NoError(t, tags.Set(inst, []any{p1, p1, p2}))
		assert.Len(t, g.Tags, 2)

		_, ok = b.Relation("Missing")
		assert.False(t, ok)
	})
}

func TestKind(t *testing.T) {
	assert.Equal(t, "single", Single.String())
	assert.Equal(t, "map", Map.String())
	assert.False(t, Single.IsCollection())
	assert.True(t, Set.IsCollection())
}

func TestCoerce(t *testing.T) {
	t.Run("numbers", func(t *testing.T) {
		i, err := Coerce[int](int64(27))
		require.NoError(t, err)
		assert.Equal(t, 27, i)

		f, err := Coerce[float64](int64(3))
		require.NoError(t, err)
		assert.Equal(t, 3.0, f)

		p, err := Coerce[*int](float64(5))
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, 5, *p)

		id, err := Coerce[*int64](int64(15))
		require.NoError(t, err)
		assert.Equal(t, int64(15), *id)
	})

	t.Run("strings and slices", func(t *testing.T) {
		s, err := Coerce[string](42)
		require.NoError(t, err)
		assert.Equal(t, "42", s)

		tags, err := Coerce[[]string]([]any{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, tags)
	})

	t.Run("time", func(t *testing.T) {
		want := time.Date(2015, 3, 14, 8, 26, 53, 0, time.UTC)
		got, err := Coerce[time.Time](want)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("named basic types", func(t *testing.T) {
		g, err := Coerce[grade](2)
		require.NoError(t, err)
		assert.Equal(t, grade(2), g)

		g, err = Coerce[grade](int64(1))
		require.NoError(t, err)
		assert.Equal(t, grade(1), g)

		pg, err := Coerce[*grade](float64(3))
		require.NoError(t, err)
		require.NotNil(t, pg)
		assert.Equal(t, grade(3), *pg)

		code, err := Coerce[sku]("AB-12")
		require.NoError(t, err)
		assert.Equal(t, sku("AB-12"), code)

		_, err = Coerce[grade]("high")
		assert.True(t, errors.Is(err, ErrCoerce))
	})

	t.Run("nil yields zero", func(t *testing.T) {
		v, err := Coerce[int](nil)
		require.NoError(t, err)
		assert.Zero(t, v)
	})

	t.Run("failures", func(t *testing.T) {
		_, err := Coerce[int]("not a number")
		assert.True(t, errors.Is(err, ErrCoerce))

		_, err = Coerce[*part](3)
		assert.True(t, errors.Is(err, ErrCoerce))
	})
}
