// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package tuple

import "github.com/ClusterCockpit/tuplespace/internal/field"

// Mode selects how a template element compares against a tuple field.
type Mode int

const (
	// Actual requires equal kind AND equal value.
	Actual Mode = iota
	// Formal requires equal kind only; the sample field's value is a
	// type exemplar and is never inspected.
	Formal
)

func (m Mode) String() string {
	if m == Formal {
		return "formal"
	}
	return "actual"
}

// Element is one (sample-field, mode) pair in a Template.
type Element struct {
	Field field.Field
	Mode  Mode
}

// Matches reports whether e selects f, per its Mode.
func (e Element) Matches(f field.Field) bool {
	switch e.Mode {
	case Actual:
		return e.Field.Equal(f)
	case Formal:
		return e.Field.SameKind(f)
	default:
		return false
	}
}

// Template is an ordered sequence of template elements used to select
// tuples from a space.
type Template struct {
	elements []Element
}

// NewTemplate builds a Template from the given elements, in order.
func NewTemplate(elements ...Element) Template {
	cp := make([]Element, len(elements))
	copy(cp, elements)
	return Template{elements: cp}
}

// Len returns the number of elements in the template.
func (tmpl Template) Len() int { return len(tmpl.elements) }

// Elements returns a defensive copy of the template's elements.
func (tmpl Template) Elements() []Element {
	cp := make([]Element, len(tmpl.elements))
	copy(cp, tmpl.elements)
	return cp
}

// Clone returns an independent copy of the template. Blocking retries
// re-evaluate the same template repeatedly, so callers that suspend
// inside get/query keep their own clone.
func (tmpl Template) Clone() Template {
	return NewTemplate(tmpl.elements...)
}

// Matches implements spec.md §3's matching relation: true iff the
// template's element count equals the tuple's arity and every element
// matches the tuple field at the same position under its mode. Length
// inequality is a hard miss, never a partial match (§9 open question
// (a): some historical variants iterated over the shorter sequence —
// this implementation requires arity equality, which is the safer and
// chosen behavior).
func (tmpl Template) Matches(t Tuple) bool {
	if len(tmpl.elements) != t.Arity() {
		return false
	}
	for i, e := range tmpl.elements {
		if !e.Matches(t.fields[i]) {
			return false
		}
	}
	return true
}
