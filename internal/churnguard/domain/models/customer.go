package models

import (
	"encoding/json"
	"fmt"
)

const (
	CustomerIDField = "CustomerID"
	InternalIDField = "_id"
)

// Fields is a flat, schema-less customer document.
type Fields map[string]Value

// CustomerID returns the business key if present and integral.
func (f Fields) CustomerID() (int64, error) {
	v, ok := f[CustomerIDField]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrValidation, CustomerIDField)
	}

	id, ok := v.Int64()
	if !ok {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrValidation, CustomerIDField)
	}

	return id, nil
}

// Without returns a copy of f lacking the given keys.
func (f Fields) Without(keys ...string) Fields {
	out := make(Fields, len(f))

	for k, v := range f {
		out[k] = v
	}

	for _, k := range keys {
		delete(out, k)
	}

	return out
}

type Customer struct {
	ID     string
	Fields Fields
}

// MarshalJSON flattens the record and exposes the internal id as "_id".
func (c Customer) MarshalJSON() ([]byte, error) {
	out := make(map[string]Value, len(c.Fields)+1)

	for k, v := range c.Fields {
		out[k] = v
	}

	if c.ID != "" {
		out[InternalIDField] = String(c.ID)
	}

	return json.Marshal(out) //nolint:wrapcheck
}
