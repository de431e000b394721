package tracking

import (
	"reflect"
	"runtime"
	"sync"
	"weak"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/conduit-lang/ogm/internal/orm/entity"
	"github.com/conduit-lang/ogm/internal/orm/schema"
)

var (
	// ErrNotPointer is returned for instances that are not non-nil pointers.
	ErrNotPointer = errors.New("instance must be a non-nil pointer")

	// ErrUnbound is returned when the class has no binding in the table.
	ErrUnbound = errors.New("class has no binding")
)

type snapshot struct {
	ref    weak.Pointer[byte]
	class  string
	values map[string]interface{}
}

func (s *snapshot) alive(p *byte) bool {
	return s.ref.Value() == p
}

// Memo holds one snapshot per instance, keyed by instance identity. Entries
// do not keep their instance alive: a runtime cleanup evicts an entry once
// its instance has been collected.
//
// Operations on different instances may run concurrently. Operations on the
// same instance must be serialized by the caller.
type Memo struct {
	mu      sync.Mutex
	table   *entity.Table
	entries map[uintptr]*snapshot
	logger  *zap.Logger
}

// MemoOption configures a Memo.
type MemoOption func(*Memo)

// WithMemoLogger sets the memo logger.
func WithMemoLogger(l *zap.Logger) MemoOption {
	return func(m *Memo) { m.logger = l }
}

// NewMemo creates a Memo reading properties through table.
func NewMemo(table *entity.Table, opts ...MemoOption) *Memo {
	m := &Memo{
		table:   table,
		entries: make(map[uintptr]*snapshot),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func identity(instance interface{}) (uintptr, *byte, error) {
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return 0, nil, errors.Wrapf(ErrNotPointer, "got %T", instance)
	}
	p := (*byte)(v.UnsafePointer())
	return uintptr(v.UnsafePointer()), p, nil
}

// capture reads every persistable scalar property of instance: scalar
// fields that are neither the identity field nor transient. Values are
// keyed by persisted property name and deep-copied.
func (m *Memo) capture(instance interface{}, class *schema.ClassDescriptor) (map[string]interface{}, error) {
	b, ok := m.table.Binding(class.Name())
	if !ok {
		return nil, errors.Wrapf(ErrUnbound, "%s", class.Name())
	}
	values := make(map[string]interface{})
	for _, f := range class.PropertyFields() {
		prop, ok := b.Property(f.Name())
		if !ok || prop.Get == nil {
			continue
		}
		values[f.Property()] = deepCopyValue(prop.Get(instance))
	}
	return values, nil
}

// Remember snapshots the persistable scalar state of instance, replacing any
// earlier snapshot of the same instance.
func (m *Memo) Remember(instance interface{}, class *schema.ClassDescriptor) error {
	key, p, err := identity(instance)
	if err != nil {
		return err
	}
	values, err := m.capture(instance, class)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.entries[key]; ok && s.alive(p) {
		s.class = class.Name()
		s.values = values
		return nil
	}
	m.entries[key] = &snapshot{ref: weak.Make(p), class: class.Name(), values: values}
	runtime.AddCleanup(p, m.evict, key)
	return nil
}

// evict drops the entry under key unless it belongs to a live instance that
// has since taken the same address.
func (m *Memo) evict(key uintptr) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.entries[key]; ok && s.ref.Value() == nil {
		delete(m.entries, key)
		m.logger.Debug("evicted snapshot", zap.String("class", s.class))
	}
}

func (m *Memo) lookup(instance interface{}) (*snapshot, error) {
	key, p, err := identity(instance)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.entries[key]
	if !ok || !s.alive(p) {
		return nil, nil
	}
	return s, nil
}

// Remembered reports whether the persistable scalar state of instance equals
// its snapshot. It is false when no snapshot exists.
func (m *Memo) Remembered(instance interface{}, class *schema.ClassDescriptor) bool {
	s, err := m.lookup(instance)
	if err != nil || s == nil {
		return false
	}
	current, err := m.capture(instance, class)
	if err != nil {
		return false
	}
	return len(diff(s.values, current)) == 0
}

// Changes lists the properties that differ from the snapshot, sorted by
// property name. Without a snapshot every property is reported as new.
func (m *Memo) Changes(instance interface{}, class *schema.ClassDescriptor) ([]FieldChange, error) {
	s, err := m.lookup(instance)
	if err != nil {
		return nil, err
	}
	current, err := m.capture(instance, class)
	if err != nil {
		return nil, err
	}
	var original map[string]interface{}
	if s != nil {
		original = s.values
	}
	return diff(original, current), nil
}

// Forget drops the snapshot of instance.
func (m *Memo) Forget(instance interface{}) {
	key, p, err := identity(instance)
	if err != nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.entries[key]; ok && s.alive(p) {
		delete(m.entries, key)
	}
}

// Len returns the number of snapshots of live instances.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.entries {
		if s.ref.Value() != nil {
			n++
		}
	}
	return n
}
