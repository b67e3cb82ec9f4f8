// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package tuple

import (
	"encoding/json"
	"fmt"

	"github.com/ClusterCockpit/tuplespace/internal/field"
)

// EncodeTuple renders a tuple as the ordered list of its fields'
// tagged wire records (spec.md §4.2).
func EncodeTuple(t Tuple) (json.RawMessage, error) {
	records := make([]json.RawMessage, 0, len(t.fields))
	for i, f := range t.fields {
		rec, err := f.Encode()
		if err != nil {
			return nil, fmt.Errorf("tuple: encoding field %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

// DecodeTuple parses the wire form produced by EncodeTuple. Any record
// naming an unregistered kind is rejected.
func DecodeTuple(raw json.RawMessage) (Tuple, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return Tuple{}, fmt.Errorf("tuple: malformed tuple: %w", err)
	}
	fields := make([]field.Field, 0, len(records))
	for i, rec := range records {
		f, err := field.Decode(rec)
		if err != nil {
			return Tuple{}, fmt.Errorf("tuple: decoding field %d: %w", i, err)
		}
		fields = append(fields, f)
	}
	return New(fields...), nil
}

type wireElement struct {
	Field json.RawMessage `json:"field"`
	Mode  Mode            `json:"mode"`
}

// EncodeTemplate renders a template as the ordered list of its
// {kind, payload, mode} template-element records.
func EncodeTemplate(tmpl Template) (json.RawMessage, error) {
	records := make([]wireElement, 0, len(tmpl.elements))
	for i, e := range tmpl.elements {
		rec, err := e.Field.Encode()
		if err != nil {
			return nil, fmt.Errorf("tuple: encoding template element %d: %w", i, err)
		}
		records = append(records, wireElement{Field: rec, Mode: e.Mode})
	}
	return json.Marshal(records)
}

// DecodeTemplate parses the wire form produced by EncodeTemplate.
func DecodeTemplate(raw json.RawMessage) (Template, error) {
	var records []wireElement
	if err := json.Unmarshal(raw, &records); err != nil {
		return Template{}, fmt.Errorf("tuple: malformed template: %w", err)
	}
	elements := make([]Element, 0, len(records))
	for i, rec := range records {
		f, err := field.Decode(rec.Field)
		if err != nil {
			return Template{}, fmt.Errorf("tuple: decoding template element %d: %w", i, err)
		}
		elements = append(elements, Element{Field: f, Mode: rec.Mode})
	}
	return NewTemplate(elements...), nil
}
