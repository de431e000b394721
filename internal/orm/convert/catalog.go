package convert

import (
	"sort"
	"sync"
)

// Names of the built-in converters, usable from Convert annotations.
const (
	DateName             = "date"
	BigIntegerName       = "biginteger"
	BigDecimalName       = "bigdecimal"
	ByteArrayName        = "bytes"
	ByteArrayWrapperName = "bytewrappers"
)

type entry struct {
	signature string
	converter Converter
}

// Catalog maps type signatures to converters. The built-in entries are fixed;
// one enum converter is added per distinct enum signature, and named
// converters may be registered for explicit Convert annotations.
type Catalog struct {
	mu       sync.RWMutex
	builtins []entry
	named    map[string]Converter
	enums    map[string]*EnumConverter
}

// NewCatalog creates a catalog holding the built-in converters.
func NewCatalog() *Catalog {
	c := &Catalog{
		builtins: []entry{
			{DateSignature, DateConverter{}},
			{BigIntegerSignature, BigIntegerConverter{}},
			{BigDecimalSignature, BigDecimalConverter{}},
			{ByteArraySignature, ByteArrayBase64Converter{}},
			{ByteArrayWrapperSignature, ByteArrayWrapperBase64Converter{}},
		},
		named: map[string]Converter{
			DateName:             DateConverter{},
			BigIntegerName:       BigIntegerConverter{},
			BigDecimalName:       BigDecimalConverter{},
			ByteArrayName:        ByteArrayBase64Converter{},
			ByteArrayWrapperName: ByteArrayWrapperBase64Converter{},
		},
		enums: make(map[string]*EnumConverter),
	}
	return c
}

// Register adds or replaces a named converter.
func (c *Catalog) Register(name string, conv Converter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.named[name] = conv
}

// Named returns the converter registered under name. Enum converters are
// also reachable by their signature.
func (c *Catalog) Named(name string) (Converter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if conv, ok := c.named[name]; ok {
		return conv, true
	}
	if e, ok := c.enums[name]; ok {
		return e, true
	}
	return nil, false
}

// RegisterEnum adds the converter for an enum signature. Registering the
// same signature again returns the existing converter.
func (c *Catalog) RegisterEnum(signature string, values []string) *EnumConverter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.enums[signature]; ok {
		return e
	}
	e := NewEnumConverter(signature, values)
	c.enums[signature] = e
	return e
}

// Enum returns the converter for an enum signature.
func (c *Catalog) Enum(signature string) (*EnumConverter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.enums[signature]
	return e, ok
}

// EnumSignatures returns the registered enum signatures, sorted.
func (c *Catalog) EnumSignatures() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.enums))
	for sig := range c.enums {
		out = append(out, sig)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the default converter for a member, or nil. Candidates are
// tried in fixed priority order: date, big integer, big decimal, byte array,
// byte wrapper array, then enum signatures. The first match wins.
func (c *Catalog) Resolve(signature, typeParameter string) Converter {
	for _, b := range c.builtins {
		if matches(signature, typeParameter, b.signature) {
			return b.converter
		}
	}
	for _, sig := range c.EnumSignatures() {
		if matches(signature, typeParameter, sig) {
			e, _ := c.Enum(sig)
			return e
		}
	}
	return nil
}

// IsConvertible reports whether Resolve would find a converter.
func (c *Catalog) IsConvertible(signature, typeParameter string) bool {
	return c.Resolve(signature, typeParameter) != nil
}

func matches(signature, typeParameter, target string) bool {
	return Mentions(signature, target) || Mentions(typeParameter, target)
}
