// Package tracking remembers the persistable scalar state of domain
// instances so that later saves can tell whether an instance is dirty.
package tracking

import (
	"math/big"
	"reflect"
	"sort"
)

// FieldChange represents a change to a single property
type FieldChange struct {
	Field    string
	OldValue interface{}
	NewValue interface{}
}

// diff lists the properties whose values differ between original and
// current, sorted by property name.
func diff(original, current map[string]interface{}) []FieldChange {
	var changes []FieldChange
	for field, newValue := range current {
		oldValue, hadOldValue := original[field]
		// Field is changed if it is new or the values are not deeply equal
		if !hadOldValue || !deepEqual(oldValue, newValue) {
			changes = append(changes, FieldChange{Field: field, OldValue: oldValue, NewValue: newValue})
		}
	}
	for field, oldValue := range original {
		if _, exists := current[field]; !exists {
			changes = append(changes, FieldChange{Field: field, OldValue: oldValue})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Field < changes[j].Field })
	return changes
}

// deepCopyValue creates a deep copy of a value, keeping its type
func deepCopyValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	if n, ok := v.(*big.Int); ok {
		if n == nil {
			return n
		}
		return new(big.Int).Set(n)
	}
	return deepCopy(reflect.ValueOf(v)).Interface()
}

func deepCopy(val reflect.Value) reflect.Value {
	switch val.Kind() {
	case reflect.Slice:
		if val.IsNil() {
			return val
		}
		slice := reflect.MakeSlice(val.Type(), val.Len(), val.Len())
		for i := 0; i < val.Len(); i++ {
			slice.Index(i).Set(deepCopy(val.Index(i)))
		}
		return slice
	case reflect.Map:
		if val.IsNil() {
			return val
		}
		m := reflect.MakeMapWithSize(val.Type(), val.Len())
		iter := val.MapRange()
		for iter.Next() {
			m.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return m
	case reflect.Pointer:
		if val.IsNil() {
			return val
		}
		// Pointers to scalars are copied so that in-place writes through
		// the live pointer do not reach the snapshot.
		p := reflect.New(val.Type().Elem())
		p.Elem().Set(deepCopy(val.Elem()))
		return p
	case reflect.Interface:
		if val.IsNil() {
			return val
		}
		out := reflect.New(val.Type()).Elem()
		out.Set(deepCopy(val.Elem()))
		return out
	default:
		// Primitives and structs are copied by value
		return val
	}
}

// deepEqual compares two values for equality, handling nil and different types
func deepEqual(a, b interface{}) bool {
	// Handle nil cases
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if x, ok := a.(*big.Int); ok {
		if y, ok := b.(*big.Int); ok && x != nil && y != nil {
			return x.Cmp(y) == 0
		}
	}

	// Use reflect.DeepEqual for comprehensive comparison
	return reflect.DeepEqual(a, b)
}
