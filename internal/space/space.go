// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package space implements LocalSpace, the concurrent tuple container
// at the core of the tuple space (spec.md §4.3), plus the Space
// contract it and RemoteSpace both satisfy.
package space

import (
	"context"

	"github.com/ClusterCockpit/tuplespace/internal/tuple"
)

// Space is the contract exposed by both LocalSpace and RemoteSpace
// (spec.md §6: "On any Space"). ctx only governs cancellation of the
// caller's wait on a blocking Get/Query — per spec.md §5, there is no
// server-side cancellation of a suspended waiter; a caller abandoning
// Get/Query via ctx simply stops listening, it does not un-suspend the
// space-side goroutine synchronously.
type Space interface {
	// Put inserts t into the space. It always succeeds and never blocks
	// beyond the space's internal critical section.
	Put(ctx context.Context, t tuple.Tuple) error

	// Getp performs a non-blocking destructive read: it removes and
	// returns the selected match, or tserr.ErrNotFound.
	Getp(ctx context.Context, tmpl tuple.Template) (tuple.Tuple, error)

	// Queryp performs a non-blocking non-destructive read: it returns a
	// clone of the selected match, or tserr.ErrNotFound.
	Queryp(ctx context.Context, tmpl tuple.Template) (tuple.Tuple, error)

	// Get performs a blocking destructive read, suspending until a Put
	// produces a match.
	Get(ctx context.Context, tmpl tuple.Template) (tuple.Tuple, error)

	// Query performs a blocking non-destructive read, suspending until a
	// Put produces a match.
	Query(ctx context.Context, tmpl tuple.Template) (tuple.Tuple, error)

	// Getall performs a non-blocking, atomic bulk destructive read: all
	// matches are removed and returned in store order. An empty result
	// is not an error.
	Getall(ctx context.Context, tmpl tuple.Template) ([]tuple.Tuple, error)

	// Queryall performs a non-blocking, atomic bulk non-destructive
	// read: clones of all matches are returned in store order.
	Queryall(ctx context.Context, tmpl tuple.Template) ([]tuple.Tuple, error)
}
