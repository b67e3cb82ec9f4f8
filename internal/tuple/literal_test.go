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

func TestParseTupleActualValues(t *testing.T) {
	tup, err := ParseTuple("i32:5 string:hello bool:true")
	require.NoError(t, err)
	require.Equal(t, 3, tup.Arity())

	f, err := tup.At(0, field.Int32)
	require.NoError(t, err)
	assert.Equal(t, int32(5), f.Value)
}

func TestParseTupleRejectsWildcard(t *testing.T) {
	_, err := ParseTuple("i32:_")
	assert.Error(t, err)
}

func TestParseTemplateMixesModes(t *testing.T) {
	tmpl, err := ParseTemplate("i32:5 string:_")
	require.NoError(t, err)
	require.Equal(t, 2, tmpl.Len())

	elements := tmpl.Elements()
	assert.Equal(t, Actual, elements[0].Mode)
	assert.Equal(t, Formal, elements[1].Mode)

	tup, err := ParseTuple("i32:5 string:anything")
	require.NoError(t, err)
	assert.True(t, tmpl.Matches(tup))
}

func TestParseElementUnknownKind(t *testing.T) {
	_, err := ParseElement("bogus:1")
	assert.Error(t, err)
}

func TestParseElementBareKindIsFormal(t *testing.T) {
	e, err := ParseElement("bool")
	require.NoError(t, err)
	assert.Equal(t, Formal, e.Mode)
}
