// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package field

import (
	"encoding/json"
	"fmt"
)

// Field is one value stored in a tuple or carried by a template element.
// Its Kind is the run-time type tag; Value holds the Go representation
// that kind's Descriptor works with (int8, *big.Int, string, rune, ...).
type Field struct {
	Kind  Kind
	Value interface{}
}

// New builds a Field for a Kind, failing if the Kind is unknown or the
// value's Go type does not match what the Kind's Descriptor expects.
func New(k Kind, v interface{}) (Field, error) {
	d, ok := lookup(k)
	if !ok {
		return Field{}, fmt.Errorf("field: unknown kind %q", k)
	}
	// A cheap self-check: encode-then-discard catches a type mismatch
	// immediately rather than surfacing it later as a matching error.
	if _, err := d.Encode(v); err != nil {
		return Field{}, err
	}
	return Field{Kind: k, Value: v}, nil
}

// Equal implements the Actual-mode predicate from spec.md §4.1: true
// iff both fields carry the same Kind and Descriptor.Equal agrees that
// the values are equal. Cross-kind comparisons are always false —
// matching is nominal, never structural.
func (f Field) Equal(other Field) bool {
	if f.Kind != other.Kind {
		return false
	}
	d, ok := lookup(f.Kind)
	if !ok {
		return false
	}
	return d.Equal(f.Value, other.Value)
}

// SameKind implements the Formal-mode predicate: true iff both fields
// carry the same Kind. The other field's Value is never inspected.
func (f Field) SameKind(other Field) bool {
	return f.Kind == other.Kind
}

type wireField struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Encode produces the tagged wire record {kind, payload} for this field.
func (f Field) Encode() (json.RawMessage, error) {
	d, ok := lookup(f.Kind)
	if !ok {
		return nil, fmt.Errorf("field: unknown kind %q", f.Kind)
	}
	payload, err := d.Encode(f.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireField{Kind: f.Kind, Payload: payload})
}

// Decode parses a tagged wire record back into a Field. Unknown kinds
// are rejected rather than silently passed through.
func Decode(raw json.RawMessage) (Field, error) {
	var w wireField
	if err := json.Unmarshal(raw, &w); err != nil {
		return Field{}, fmt.Errorf("field: malformed record: %w", err)
	}
	d, ok := lookup(w.Kind)
	if !ok {
		return Field{}, fmt.Errorf("field: unknown kind %q", w.Kind)
	}
	v, err := d.Decode(w.Payload)
	if err != nil {
		return Field{}, err
	}
	return Field{Kind: w.Kind, Value: v}, nil
}
