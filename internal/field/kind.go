// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package field implements the tuple space's dynamically-typed field
// model: a closed set of primitive kinds plus an open registration hook
// for user-defined kinds, type-tagged equality, and a self-describing
// wire codec. Matching is nominal, never structural — a 32-bit integer
// never matches a 64-bit integer exemplar, and cross-kind comparisons
// are always false.
package field

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Kind is the run-time type tag carried by every field. It doubles as
// the wire tag used by the codec to dispatch decoding.
type Kind string

// The closed set of built-in primitive kinds (spec.md §3).
const (
	Int8    Kind = "i8"
	Int16   Kind = "i16"
	Int32   Kind = "i32"
	Int64   Kind = "i64"
	Int128  Kind = "i128"
	Uint8   Kind = "u8"
	Uint16  Kind = "u16"
	Uint32  Kind = "u32"
	Uint64  Kind = "u64"
	Uint128 Kind = "u128"
	Int     Kind = "int"  // machine-word-sized signed
	Uint    Kind = "uint" // machine-word-sized unsigned
	Float32 Kind = "f32"
	Float64 Kind = "f64"
	Char    Kind = "char"
	Bool    Kind = "bool"
	String  Kind = "string"
)

// Descriptor is what a kind (built-in or user-registered) must supply:
// type-tagged equality and a round-trip codec to/from a self-describing
// wire payload. Equal is only ever called for two values of the same
// Kind — nominal dispatch happens one layer up, in Field.Equal.
type Descriptor struct {
	Kind   Kind
	Equal  func(a, b interface{}) bool
	Encode func(v interface{}) (json.RawMessage, error)
	Decode func(raw json.RawMessage) (interface{}, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[Kind]Descriptor{}
)

// RegisterKind adds support for a user-defined field kind. This is the
// contract a `derive`-style code generator for user payload types must
// satisfy: produce a stable Kind tag, a typed equality predicate, and a
// JSON-based encode/decode pair. Registering a Kind that already exists
// (built-in or previously registered) is an error — kinds are immutable
// once known to the process.
func RegisterKind(d Descriptor) error {
	if d.Kind == "" {
		return fmt.Errorf("field: cannot register a kind with an empty tag")
	}
	if d.Equal == nil || d.Encode == nil || d.Decode == nil {
		return fmt.Errorf("field: kind %q missing Equal/Encode/Decode", d.Kind)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[d.Kind]; ok {
		return fmt.Errorf("field: kind %q already registered", d.Kind)
	}
	registry[d.Kind] = d
	return nil
}

func lookup(k Kind) (Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[k]
	return d, ok
}

// Known reports whether k has a registered Descriptor (built-in or
// user-defined). The wire codec rejects any Kind for which this is false.
func Known(k Kind) bool {
	_, ok := lookup(k)
	return ok
}
