// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package tuple implements the ordered, immutable Tuple and the
// Template used to select tuples by content, plus their wire codec
// (spec.md §3, §4.1, §4.2).
package tuple

import (
	"fmt"

	"github.com/ClusterCockpit/tuplespace/internal/field"
)

// Tuple is an ordered, immutable sequence of fields. Arity is fixed at
// construction.
type Tuple struct {
	fields []field.Field
}

// New builds a Tuple from the given fields, in order. The slice is
// copied so later mutation of the caller's slice cannot reach into the
// tuple.
func New(fields ...field.Field) Tuple {
	cp := make([]field.Field, len(fields))
	copy(cp, fields)
	return Tuple{fields: cp}
}

// Arity returns the number of fields in the tuple.
func (t Tuple) Arity() int { return len(t.fields) }

// At returns the field at index i, failing if i is out of range or the
// field's kind does not match want. This is the only way to inspect a
// tuple's contents by (index, expected-type) from outside the package.
func (t Tuple) At(i int, want field.Kind) (field.Field, error) {
	if i < 0 || i >= len(t.fields) {
		return field.Field{}, fmt.Errorf("tuple: index %d out of range (arity %d)", i, len(t.fields))
	}
	f := t.fields[i]
	if f.Kind != want {
		return field.Field{}, fmt.Errorf("tuple: field %d has kind %s, not %s", i, f.Kind, want)
	}
	return f, nil
}

// Fields returns a defensive copy of the tuple's field sequence.
func (t Tuple) Fields() []field.Field {
	cp := make([]field.Field, len(t.fields))
	copy(cp, t.fields)
	return cp
}

// Clone returns an independent copy of the tuple. Query variants return
// clones so the original stays in the store unmodified by the caller.
func (t Tuple) Clone() Tuple {
	return New(t.fields...)
}

func (t Tuple) String() string {
	return fmt.Sprintf("Tuple(arity=%d)", len(t.fields))
}
