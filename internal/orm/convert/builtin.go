package convert

import (
	"encoding/base64"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// DateConverter stores time.Time values as RFC 3339 strings in UTC.
type DateConverter struct{}

// ToGraphProperty implements Converter.
func (DateConverter) ToGraphProperty(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return v.UTC().Format(time.RFC3339Nano), nil
	default:
		return nil, unsupported("date", value)
	}
}

// ToEntityAttribute implements Converter. Strings are parsed as RFC 3339,
// integers are read as Unix milliseconds.
func (DateConverter) ToEntityAttribute(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, unsupported("date", value)
		}
		return t, nil
	case int, int32, int64, float64:
		ms, err := cast.ToInt64E(v)
		if err != nil {
			return nil, unsupported("date", value)
		}
		return time.UnixMilli(ms).UTC(), nil
	default:
		return nil, unsupported("date", value)
	}
}

// BigIntegerConverter stores *big.Int values as base-10 strings.
type BigIntegerConverter struct{}

// ToGraphProperty implements Converter.
func (BigIntegerConverter) ToGraphProperty(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *big.Int:
		if v == nil {
			return nil, nil
		}
		return v.String(), nil
	case big.Int:
		return v.String(), nil
	default:
		return nil, unsupported("big integer", value)
	}
}

// ToEntityAttribute implements Converter.
func (BigIntegerConverter) ToEntityAttribute(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *big.Int:
		return v, nil
	case string:
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, unsupported("big integer", value)
		}
		return n, nil
	case int, int32, int64:
		return big.NewInt(cast.ToInt64(v)), nil
	case float64:
		n, _ := big.NewFloat(v).Int(nil)
		return n, nil
	default:
		return nil, unsupported("big integer", value)
	}
}

// BigDecimalConverter stores decimal.Decimal values as strings.
type BigDecimalConverter struct{}

// ToGraphProperty implements Converter.
func (BigDecimalConverter) ToGraphProperty(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case decimal.Decimal:
		return v.String(), nil
	case *decimal.Decimal:
		if v == nil {
			return nil, nil
		}
		return v.String(), nil
	default:
		return nil, unsupported("big decimal", value)
	}
}

// ToEntityAttribute implements Converter.
func (BigDecimalConverter) ToEntityAttribute(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case decimal.Decimal:
		return v, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, unsupported("big decimal", value)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int, int32, int64:
		return decimal.NewFromInt(cast.ToInt64(v)), nil
	default:
		return nil, unsupported("big decimal", value)
	}
}

// ByteArrayBase64Converter stores []byte values as standard base64.
type ByteArrayBase64Converter struct{}

// ToGraphProperty implements Converter.
func (ByteArrayBase64Converter) ToGraphProperty(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		if v == nil {
			return nil, nil
		}
		return base64.StdEncoding.EncodeToString(v), nil
	default:
		return nil, unsupported("byte array", value)
	}
}

// ToEntityAttribute implements Converter.
func (ByteArrayBase64Converter) ToEntityAttribute(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		b, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, unsupported("byte array", value)
		}
		return b, nil
	default:
		return nil, unsupported("byte array", value)
	}
}

// ByteArrayWrapperBase64Converter stores []*byte values as standard base64.
// Nil elements are stored as zero bytes.
type ByteArrayWrapperBase64Converter struct{}

// ToGraphProperty implements Converter.
func (ByteArrayWrapperBase64Converter) ToGraphProperty(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []*byte:
		if v == nil {
			return nil, nil
		}
		raw := make([]byte, len(v))
		for i, b := range v {
			if b != nil {
				raw[i] = *b
			}
		}
		return base64.StdEncoding.EncodeToString(raw), nil
	default:
		return nil, unsupported("byte wrapper array", value)
	}
}

// ToEntityAttribute implements Converter.
func (ByteArrayWrapperBase64Converter) ToEntityAttribute(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []*byte:
		return v, nil
	case string:
		raw, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, unsupported("byte wrapper array", value)
		}
		out := make([]*byte, len(raw))
		for i := range raw {
			out[i] = &raw[i]
		}
		return out, nil
	default:
		return nil, unsupported("byte wrapper array", value)
	}
}
