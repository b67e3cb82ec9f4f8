// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package tuple

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ClusterCockpit/tuplespace/internal/field"
)

// ParseElement parses one "kind:value" literal into a template element:
// "kind:_" (or a bare "kind") is Formal, anything else is Actual with
// value parsed per kind. This is the small textual syntax
// cmd/tuplespace-cli's REPL accepts for tuple and template literals,
// e.g. "i32:5", "string:hello", "bool:_".
func ParseElement(lit string) (Element, error) {
	kindStr, value, hasValue := strings.Cut(lit, ":")
	k := field.Kind(kindStr)
	if !field.Known(k) {
		return Element{}, fmt.Errorf("tuple: unknown field kind %q", kindStr)
	}

	if !hasValue || value == "_" {
		zero, err := zeroValue(k)
		if err != nil {
			return Element{}, err
		}
		f, err := field.New(k, zero)
		if err != nil {
			return Element{}, err
		}
		return Element{Field: f, Mode: Formal}, nil
	}

	v, err := parseValue(k, value)
	if err != nil {
		return Element{}, err
	}
	f, err := field.New(k, v)
	if err != nil {
		return Element{}, err
	}
	return Element{Field: f, Mode: Actual}, nil
}

// ParseTuple parses a whitespace-separated sequence of "kind:value"
// literals into a Tuple. Every element must be Actual — a tuple
// carries concrete values, never type exemplars.
func ParseTuple(line string) (Tuple, error) {
	fields, err := parseElements(line, false)
	if err != nil {
		return Tuple{}, err
	}
	fs := make([]field.Field, len(fields))
	for i, e := range fields {
		fs[i] = e.Field
	}
	return New(fs...), nil
}

// ParseTemplate parses a whitespace-separated sequence of "kind:value"
// (Actual) or "kind:_"/"kind" (Formal) literals into a Template.
func ParseTemplate(line string) (Template, error) {
	elements, err := parseElements(line, true)
	if err != nil {
		return Template{}, err
	}
	return NewTemplate(elements...), nil
}

func parseElements(line string, allowFormal bool) ([]Element, error) {
	fields := strings.Fields(line)
	elements := make([]Element, 0, len(fields))
	for _, tok := range fields {
		e, err := ParseElement(tok)
		if err != nil {
			return nil, err
		}
		if !allowFormal && e.Mode == Formal {
			return nil, fmt.Errorf("tuple: %q is a type exemplar, not a value", tok)
		}
		elements = append(elements, e)
	}
	return elements, nil
}

func zeroValue(k field.Kind) (interface{}, error) {
	switch k {
	case field.Int8:
		return int8(0), nil
	case field.Int16:
		return int16(0), nil
	case field.Int32:
		return int32(0), nil
	case field.Int64:
		return int64(0), nil
	case field.Uint8:
		return uint8(0), nil
	case field.Uint16:
		return uint16(0), nil
	case field.Uint32:
		return uint32(0), nil
	case field.Uint64:
		return uint64(0), nil
	case field.Int:
		return int(0), nil
	case field.Uint:
		return uint(0), nil
	case field.Float32:
		return float32(0), nil
	case field.Float64:
		return float64(0), nil
	case field.Char:
		return rune(0), nil
	case field.Bool:
		return false, nil
	case field.String:
		return "", nil
	case field.Int128, field.Uint128:
		return big.NewInt(0), nil
	default:
		return nil, fmt.Errorf("tuple: kind %q has no literal syntax; use field.New directly", k)
	}
}

func parseValue(k field.Kind, s string) (interface{}, error) {
	switch k {
	case field.Int8:
		v, err := strconv.ParseInt(s, 10, 8)
		return int8(v), err
	case field.Int16:
		v, err := strconv.ParseInt(s, 10, 16)
		return int16(v), err
	case field.Int32:
		v, err := strconv.ParseInt(s, 10, 32)
		return int32(v), err
	case field.Int64:
		return strconv.ParseInt(s, 10, 64)
	case field.Uint8:
		v, err := strconv.ParseUint(s, 10, 8)
		return uint8(v), err
	case field.Uint16:
		v, err := strconv.ParseUint(s, 10, 16)
		return uint16(v), err
	case field.Uint32:
		v, err := strconv.ParseUint(s, 10, 32)
		return uint32(v), err
	case field.Uint64:
		return strconv.ParseUint(s, 10, 64)
	case field.Int:
		v, err := strconv.ParseInt(s, 10, 64)
		return int(v), err
	case field.Uint:
		v, err := strconv.ParseUint(s, 10, 64)
		return uint(v), err
	case field.Float32:
		v, err := strconv.ParseFloat(s, 32)
		return float32(v), err
	case field.Float64:
		return strconv.ParseFloat(s, 64)
	case field.Char:
		r := []rune(s)
		if len(r) != 1 {
			return nil, fmt.Errorf("tuple: %q is not a single character", s)
		}
		return r[0], nil
	case field.Bool:
		return strconv.ParseBool(s)
	case field.String:
		return s, nil
	case field.Int128, field.Uint128:
		bi, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("tuple: %q is not a valid %s literal", s, k)
		}
		return bi, nil
	default:
		return nil, fmt.Errorf("tuple: kind %q has no literal syntax; use field.New directly", k)
	}
}
