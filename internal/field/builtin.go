// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package field

import (
	"encoding/json"
	"fmt"
	"math/big"
)

func init() {
	mustRegister(numericDescriptor[int8](Int8))
	mustRegister(numericDescriptor[int16](Int16))
	mustRegister(numericDescriptor[int32](Int32))
	mustRegister(numericDescriptor[int64](Int64))
	mustRegister(numericDescriptor[uint8](Uint8))
	mustRegister(numericDescriptor[uint16](Uint16))
	mustRegister(numericDescriptor[uint32](Uint32))
	mustRegister(numericDescriptor[uint64](Uint64))
	mustRegister(numericDescriptor[int](Int))
	mustRegister(numericDescriptor[uint](Uint))
	mustRegister(numericDescriptor[float32](Float32))
	mustRegister(numericDescriptor[float64](Float64))
	mustRegister(charDescriptor())
	mustRegister(boolDescriptor())
	mustRegister(stringDescriptor())
	mustRegister(bigIntDescriptor(Int128))
	mustRegister(bigIntDescriptor(Uint128))
}

func mustRegister(d Descriptor) {
	if err := RegisterKind(d); err != nil {
		panic(err)
	}
}

// numericDescriptor builds the Descriptor for any fixed-width numeric
// Go type: JSON already encodes/decodes these natively, and == is exact.
func numericDescriptor[T comparable](k Kind) Descriptor {
	return Descriptor{
		Kind: k,
		Equal: func(a, b interface{}) bool {
			av, aok := a.(T)
			bv, bok := b.(T)
			return aok && bok && av == bv
		},
		Encode: func(v interface{}) (json.RawMessage, error) {
			tv, ok := v.(T)
			if !ok {
				return nil, fmt.Errorf("field: value %v is not of kind %s", v, k)
			}
			return json.Marshal(tv)
		},
		Decode: func(raw json.RawMessage) (interface{}, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, fmt.Errorf("field: decoding kind %s: %w", k, err)
			}
			return v, nil
		},
	}
}

func charDescriptor() Descriptor {
	return Descriptor{
		Kind: Char,
		Equal: func(a, b interface{}) bool {
			av, aok := a.(rune)
			bv, bok := b.(rune)
			return aok && bok && av == bv
		},
		Encode: func(v interface{}) (json.RawMessage, error) {
			r, ok := v.(rune)
			if !ok {
				return nil, fmt.Errorf("field: value %v is not a char", v)
			}
			return json.Marshal(int32(r))
		},
		Decode: func(raw json.RawMessage) (interface{}, error) {
			var r int32
			if err := json.Unmarshal(raw, &r); err != nil {
				return nil, fmt.Errorf("field: decoding kind char: %w", err)
			}
			return rune(r), nil
		},
	}
}

func boolDescriptor() Descriptor {
	return Descriptor{
		Kind: Bool,
		Equal: func(a, b interface{}) bool {
			av, aok := a.(bool)
			bv, bok := b.(bool)
			return aok && bok && av == bv
		},
		Encode: func(v interface{}) (json.RawMessage, error) {
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("field: value %v is not a bool", v)
			}
			return json.Marshal(b)
		},
		Decode: func(raw json.RawMessage) (interface{}, error) {
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				return nil, fmt.Errorf("field: decoding kind bool: %w", err)
			}
			return b, nil
		},
	}
}

func stringDescriptor() Descriptor {
	return Descriptor{
		Kind: String,
		Equal: func(a, b interface{}) bool {
			av, aok := a.(string)
			bv, bok := b.(string)
			return aok && bok && av == bv
		},
		Encode: func(v interface{}) (json.RawMessage, error) {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("field: value %v is not a string", v)
			}
			return json.Marshal(s)
		},
		Decode: func(raw json.RawMessage) (interface{}, error) {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fmt.Errorf("field: decoding kind string: %w", err)
			}
			return s, nil
		},
	}
}

// bigIntDescriptor backs Int128/Uint128: Go has no native 128-bit
// integer, so both widths are carried as *big.Int and serialized as
// their decimal string form.
func bigIntDescriptor(k Kind) Descriptor {
	return Descriptor{
		Kind: k,
		Equal: func(a, b interface{}) bool {
			av, aok := a.(*big.Int)
			bv, bok := b.(*big.Int)
			return aok && bok && av.Cmp(bv) == 0
		},
		Encode: func(v interface{}) (json.RawMessage, error) {
			bi, ok := v.(*big.Int)
			if !ok {
				return nil, fmt.Errorf("field: value %v is not of kind %s", v, k)
			}
			return json.Marshal(bi.String())
		},
		Decode: func(raw json.RawMessage) (interface{}, error) {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fmt.Errorf("field: decoding kind %s: %w", k, err)
			}
			bi, ok := new(big.Int).SetString(s, 10)
			if !ok {
				return nil, fmt.Errorf("field: %q is not a valid %s literal", s, k)
			}
			return bi, nil
		},
	}
}
