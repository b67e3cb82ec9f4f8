// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package repository

import (
	"testing"

	"github.com/ClusterCockpit/tuplespace/internal/space"
	"github.com/ClusterCockpit/tuplespace/internal/tserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGateRejectsDuplicateName(t *testing.T) {
	r := New()
	g, err := r.AddGate("g1", "127.0.0.1:0")
	require.NoError(t, err)
	defer r.CloseGate("g1")

	_, err = r.AddGate("g1", "127.0.0.1:0")
	assert.ErrorIs(t, err, tserr.ErrInvalidInput)

	// the first gate is untouched by the rejected second attempt
	assert.NotNil(t, g)
}

func TestCloseGateIsIdempotentOnUnknownName(t *testing.T) {
	r := New()
	assert.NoError(t, r.CloseGate("never-opened"))
}

func TestCloseGateBlocksUntilJoinAndFreesTheName(t *testing.T) {
	r := New()
	_, err := r.AddGate("g1", "127.0.0.1:0")
	require.NoError(t, err)

	// CloseGate must return (not hang) once the gate's acceptor and
	// handlers have joined.
	require.NoError(t, r.CloseGate("g1"))

	// A second CloseGate on the same, already-closed name is a no-op.
	assert.NoError(t, r.CloseGate("g1"))

	// The name is fully released, so it can be reused immediately.
	g2, err := r.AddGate("g1", "127.0.0.1:0")
	require.NoError(t, err)
	defer r.CloseGate("g1")
	assert.NotNil(t, g2)
}

func TestTwoGatesShareTheRepositorySpaceMap(t *testing.T) {
	r := New()
	sp := space.New("orders", space.Sequential)
	r.AddSpace("orders", sp)

	g1, err := r.AddGate("g1", "127.0.0.1:0")
	require.NoError(t, err)
	defer r.CloseGate("g1")

	g2, err := r.AddGate("g2", "127.0.0.1:0")
	require.NoError(t, err)
	defer r.CloseGate("g2")

	assert.NotEqual(t, g1.Addr().String(), g2.Addr().String())

	got1, ok := r.GetSpace("orders")
	require.True(t, ok)
	got2, ok := r.GetSpace("orders")
	require.True(t, ok)
	assert.Same(t, sp, got1)
	assert.Same(t, sp, got2)
}

func TestDelSpaceRemovesAndIsSafeOnUnknownName(t *testing.T) {
	r := New()
	sp := space.New("orders", space.Sequential)
	r.AddSpace("orders", sp)

	_, ok := r.GetSpace("orders")
	require.True(t, ok)

	r.DelSpace("orders")
	_, ok = r.GetSpace("orders")
	assert.False(t, ok)

	assert.NotPanics(t, func() { r.DelSpace("never-registered") })
}

func TestCloseAllGatesClosesEveryRegisteredGate(t *testing.T) {
	r := New()
	_, err := r.AddGate("g1", "127.0.0.1:0")
	require.NoError(t, err)
	_, err = r.AddGate("g2", "127.0.0.1:0")
	require.NoError(t, err)

	require.NoError(t, r.CloseAllGates())

	// both names are free again
	g1, err := r.AddGate("g1", "127.0.0.1:0")
	require.NoError(t, err)
	defer r.CloseGate("g1")
	g2, err := r.AddGate("g2", "127.0.0.1:0")
	require.NoError(t, err)
	defer r.CloseGate("g2")
	assert.NotNil(t, g1)
	assert.NotNil(t, g2)
}
