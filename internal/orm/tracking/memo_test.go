package tracking

import (
	"math/big"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/ogm/internal/orm/schema"
	"github.com/conduit-lang/ogm/internal/testing/domain"
	"github.com/conduit-lang/ogm/internal/testing/domain/capabilities"
)

func setup(t *testing.T) (*Memo, *schema.Registry) {
	t.Helper()
	return NewMemo(capabilities.Table()), schema.Build(domain.AllClasses())
}

func class(t *testing.T, r *schema.Registry, name string) *schema.ClassDescriptor {
	t.Helper()
	c, ok := r.Class(domain.Q(name))
	require.True(t, ok, name)
	return c
}

func newBike() *domain.Bike {
	return &domain.Bike{
		Brand:     "Raleigh",
		Colours:   []string{"red", "black"},
		Purchased: time.Date(2013, 9, 17, 0, 0, 0, 0, time.UTC),
		Frame:     &domain.Frame{},
	}
}

func TestMemo_Remembered(t *testing.T) {
	memo, reg := setup(t)
	bikeClass := class(t, reg, "Bike")

	tests := []struct {
		name       string
		mutate     func(b *domain.Bike)
		remembered bool
	}{
		{name: "untouched", mutate: func(*domain.Bike) {}, remembered: true},
		{name: "identity assigned", mutate: func(b *domain.Bike) { id := int64(15); b.ID = &id }, remembered: true},
		{name: "singular relationship replaced", mutate: func(b *domain.Bike) { b.Frame = &domain.Frame{} }, remembered: true},
		{name: "related instance mutated", mutate: func(b *domain.Bike) { size := 27; b.Frame.Size = &size }, remembered: true},
		{name: "collection relationship set", mutate: func(b *domain.Bike) { b.SetWheels([]*domain.Wheel{{}}) }, remembered: true},
		{name: "scalar changed", mutate: func(b *domain.Bike) { b.Brand = "Dawes" }, remembered: false},
		{name: "slice element changed in place", mutate: func(b *domain.Bike) { b.Colours[0] = "blue" }, remembered: false},
		{name: "date changed", mutate: func(b *domain.Bike) { b.Purchased = b.Purchased.Add(time.Hour) }, remembered: false},
		{name: "scalar reverted", mutate: func(b *domain.Bike) { b.Brand = "Dawes"; b.Brand = "Raleigh" }, remembered: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bike := newBike()
			require.NoError(t, memo.Remember(bike, bikeClass))
			assert.True(t, memo.Remembered(bike, bikeClass))

			tt.mutate(bike)
			assert.Equal(t, tt.remembered, memo.Remembered(bike, bikeClass))
		})
	}
}

func TestMemo_PointerScalars(t *testing.T) {
	memo, reg := setup(t)
	saddleClass := class(t, reg, "Saddle")

	price := 42.99
	saddle := &domain.Saddle{Price: &price, Material: "plastic"}
	require.NoError(t, memo.Remember(saddle, saddleClass))

	*saddle.Price = 19.99
	assert.False(t, memo.Remembered(saddle, saddleClass))

	changes, err := memo.Changes(saddle, saddleClass)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "price", changes[0].Field)
	assert.Equal(t, 42.99, *changes[0].OldValue.(*float64))
	assert.Equal(t, 19.99, *changes[0].NewValue.(*float64))

	require.NoError(t, memo.Remember(saddle, saddleClass))
	assert.True(t, memo.Remembered(saddle, saddleClass))
}

func TestMemo_IdentityNotValue(t *testing.T) {
	memo, reg := setup(t)
	bikeClass := class(t, reg, "Bike")

	a, b := newBike(), newBike()
	require.NoError(t, memo.Remember(a, bikeClass))

	assert.True(t, memo.Remembered(a, bikeClass))
	assert.False(t, memo.Remembered(b, bikeClass), "equal state on another instance is not remembered")
	assert.Equal(t, 1, memo.Len())
}

func TestMemo_ChangesWithoutSnapshot(t *testing.T) {
	memo, reg := setup(t)
	bike := newBike()

	changes, err := memo.Changes(bike, class(t, reg, "Bike"))
	require.NoError(t, err)

	var fields []string
	for _, c := range changes {
		fields = append(fields, c.Field)
		assert.Nil(t, c.OldValue)
	}
	assert.Equal(t, []string{"brand", "colours", "purchased"}, fields)
}

func TestMemo_Forget(t *testing.T) {
	memo, reg := setup(t)
	bikeClass := class(t, reg, "Bike")

	bike := newBike()
	require.NoError(t, memo.Remember(bike, bikeClass))
	memo.Forget(bike)
	assert.False(t, memo.Remembered(bike, bikeClass))
	assert.Equal(t, 0, memo.Len())
}

func TestMemo_Errors(t *testing.T) {
	memo, reg := setup(t)
	bikeClass := class(t, reg, "Bike")

	err := memo.Remember(domain.Bike{}, bikeClass)
	assert.True(t, errors.Is(err, ErrNotPointer))

	var nilBike *domain.Bike
	assert.True(t, errors.Is(memo.Remember(nilBike, bikeClass), ErrNotPointer))
	assert.False(t, memo.Remembered(nilBike, bikeClass))

	entityClass := class(t, reg, "Entity")
	assert.True(t, errors.Is(memo.Remember(&domain.Entity{}, entityClass), ErrUnbound))
}

func TestMemo_EvictsCollectedInstances(t *testing.T) {
	memo, reg := setup(t)
	wheelClass := class(t, reg, "Wheel")

	func() {
		for i := 0; i < 10; i++ {
			spokes := i
			require.NoError(t, memo.Remember(&domain.Wheel{Spokes: &spokes}, wheelClass))
		}
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		memo.mu.Lock()
		defer memo.mu.Unlock()
		return len(memo.entries) == 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, memo.Len())
}

func TestMemo_ConcurrentInstances(t *testing.T) {
	memo, reg := setup(t)
	bikeClass := class(t, reg, "Bike")

	bikes := make([]*domain.Bike, 50)
	for i := range bikes {
		bikes[i] = newBike()
	}

	var wg sync.WaitGroup
	for _, b := range bikes {
		wg.Add(1)
		go func(b *domain.Bike) {
			defer wg.Done()
			assert.NoError(t, memo.Remember(b, bikeClass))
			assert.True(t, memo.Remembered(b, bikeClass))
		}(b)
	}
	wg.Wait()
	assert.Equal(t, len(bikes), memo.Len())
	runtime.KeepAlive(bikes)
}

func TestDeepCopyValue(t *testing.T) {
	t.Run("slices keep their type", func(t *testing.T) {
		in := []string{"a", "b"}
		out := deepCopyValue(in).([]string)
		in[0] = "z"
		assert.Equal(t, []string{"a", "b"}, out)
	})

	t.Run("maps", func(t *testing.T) {
		in := map[string][]int{"x": {1}}
		out := deepCopyValue(in).(map[string][]int)
		in["x"][0] = 9
		assert.Equal(t, 1, out["x"][0])
	})

	t.Run("big integers", func(t *testing.T) {
		in := big.NewInt(10)
		out := deepCopyValue(in).(*big.Int)
		in.Add(in, big.NewInt(1))
		assert.Equal(t, int64(10), out.Int64())
		assert.True(t, deepEqual(big.NewInt(10), out))
	})

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, deepCopyValue(nil))
		var s []string
		assert.Nil(t, deepCopyValue(s).([]string))
	})
}
