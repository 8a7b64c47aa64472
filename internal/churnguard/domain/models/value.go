package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// maxExactInt is the largest integer a float64 holds without loss.
const maxExactInt = 1 << 53

// Value is a single customer attribute: null, string, number or bool.
type Value struct {
	kind Kind
	s    string
	n    float64
	b    bool
}

func Null() Value { return Value{} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }
func Int(n int64) Value { return Value{kind: KindNumber, n: float64(n)} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) Equal(o Value) bool { return v == o }

func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) Float() (float64, bool) {
	return v.n, v.kind == KindNumber
}

func (v Value) BoolValue() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Int64 reports the value as an integer when it is an integral number.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber || v.n != math.Trunc(v.n) || math.Abs(v.n) > maxExactInt {
		return 0, false
	}

	return int64(v.n), true
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.s)
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return []byte("null"), nil
		}

		return []byte(strconv.FormatFloat(v.n, 'f', -1, 64)), nil
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) == 0 {
		return fmt.Errorf("%w: empty value", ErrValidation)
	}

	switch data[0] {
	case 'n':
		*v = Null()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}

		*v = Bool(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}

		*v = String(s)
	case '{', '[':
		return fmt.Errorf("%w: nested objects and arrays are not supported", ErrValidation)
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("%w: bad number %s", ErrValidation, data)
		}

		*v = Number(n)
	}

	return nil
}

func (v Value) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch v.kind {
	case KindString:
		return bsontype.String, bsoncore.AppendString(nil, v.s), nil
	case KindNumber:
		if i, ok := v.Int64(); ok {
			return bsontype.Int64, bsoncore.AppendInt64(nil, i), nil
		}

		return bsontype.Double, bsoncore.AppendDouble(nil, v.n), nil
	case KindBool:
		return bsontype.Boolean, bsoncore.AppendBoolean(nil, v.b), nil
	default:
		return bsontype.Null, nil, nil
	}
}

// UnmarshalBSONValue accepts anything stored in a customer document. Types
// outside the four variants are kept in their string form.
func (v *Value) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bsoncore.Value{Type: t, Data: data}

	switch t { //nolint:exhaustive
	case bsontype.Null, bsontype.Undefined:
		*v = Null()
	case bsontype.String:
		*v = String(raw.StringValue())
	case bsontype.Double:
		*v = Number(raw.Double())
	case bsontype.Int32:
		*v = Int(int64(raw.Int32()))
	case bsontype.Int64:
		*v = Int(raw.Int64())
	case bsontype.Boolean:
		*v = Bool(raw.Boolean())
	case bsontype.DateTime:
		*v = String(time.UnixMilli(raw.DateTime()).UTC().Format(time.RFC3339))
	case bsontype.ObjectID:
		*v = String(raw.ObjectID().Hex())
	default:
		if err := raw.Validate(); err != nil {
			return fmt.Errorf("validate bson value error: %w", err)
		}

		*v = String(raw.String())
	}

	return nil
}
