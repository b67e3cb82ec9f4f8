// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package tuple

import (
	"testing"

	"github.com/ClusterCockpit/tuplespace/internal/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustField(t *testing.T, k field.Kind, v interface{}) field.Field {
	t.Helper()
	f, err := field.New(k, v)
	require.NoError(t, err)
	return f
}

func TestMatchesBasicRetrieve(t *testing.T) {
	tup := New(mustField(t, field.Int32, int32(5)), mustField(t, field.Char, 'b'))
	tmpl := NewTemplate(
		Element{Field: mustField(t, field.Int32, int32(5)), Mode: Actual},
		Element{Field: mustField(t, field.Char, 'a'), Mode: Formal},
	)

	assert.True(t, tmpl.Matches(tup))
}

func TestMatchesMissOnType(t *testing.T) {
	tup := New(mustField(t, field.Int32, int32(5)), mustField(t, field.Char, 'b'))
	tmpl := NewTemplate(
		Element{Field: mustField(t, field.Int64, int64(5)), Mode: Actual},
		Element{Field: mustField(t, field.Char, 'a'), Mode: Formal},
	)

	assert.False(t, tmpl.Matches(tup))
}

func TestMatchesRequiresEqualArity(t *testing.T) {
	tup := New(mustField(t, field.Int32, int32(5)))
	longer := NewTemplate(
		Element{Field: mustField(t, field.Int32, int32(5)), Mode: Actual},
		Element{Field: mustField(t, field.Char, 'a'), Mode: Formal},
	)
	shorter := NewTemplate()

	assert.False(t, longer.Matches(tup), "a longer template must never match a shorter tuple")
	assert.False(t, shorter.Matches(tup), "an empty template must never match a non-empty tuple")
}

func TestCloneIsIndependent(t *testing.T) {
	tup := New(mustField(t, field.String, "original"))
	clone := tup.Clone()

	assert.True(t, NewTemplate(Element{Field: mustField(t, field.String, "original"), Mode: Actual}).Matches(clone))
	assert.Equal(t, tup.Arity(), clone.Arity())
}

func TestAtRejectsKindMismatch(t *testing.T) {
	tup := New(mustField(t, field.Int32, int32(5)))
	_, err := tup.At(0, field.Int64)
	assert.Error(t, err)

	f, err := tup.At(0, field.Int32)
	require.NoError(t, err)
	assert.Equal(t, int32(5), f.Value)
}

func TestTupleCodecRoundTrip(t *testing.T) {
	tup := New(
		mustField(t, field.Int32, int32(5)),
		mustField(t, field.Char, 'b'),
		mustField(t, field.String, "payload"),
	)

	raw, err := EncodeTuple(tup)
	require.NoError(t, err)

	decoded, err := DecodeTuple(raw)
	require.NoError(t, err)

	assert.Equal(t, tup.Arity(), decoded.Arity())
	for i, f := range tup.Fields() {
		other := decoded.Fields()[i]
		assert.True(t, f.Equal(other), "field %d did not round trip", i)
	}
}

func TestTemplateCodecRoundTrip(t *testing.T) {
	tmpl := NewTemplate(
		Element{Field: mustField(t, field.Int32, int32(5)), Mode: Actual},
		Element{Field: mustField(t, field.Char, 'a'), Mode: Formal},
	)

	raw, err := EncodeTemplate(tmpl)
	require.NoError(t, err)

	decoded, err := DecodeTemplate(raw)
	require.NoError(t, err)

	matchCase := New(mustField(t, field.Int32, int32(5)), mustField(t, field.Char, 'z'))
	assert.Equal(t, tmpl.Matches(matchCase), decoded.Matches(matchCase))
}

func TestDecodeTupleRejectsUnknownKind(t *testing.T) {
	_, err := DecodeTuple([]byte(`[{"kind":"bogus","payload":1}]`))
	assert.Error(t, err)
}
