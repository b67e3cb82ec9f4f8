// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package tserr defines the error kinds shared by every tuplespace
// package (spec.md §7), so that callers on either side of a gate can
// tell a retrieval miss from a transport failure with errors.Is.
package tserr

import "errors"

var (
	// ErrNotFound is a non-blocking retrieval miss, or a name lookup
	// miss on a Repository or Gate.
	ErrNotFound = errors.New("tuplespace: not found")

	// ErrInvalidInput is a malformed URI, or an arity/kind mismatch
	// requested by a caller.
	ErrInvalidInput = errors.New("tuplespace: invalid input")

	// ErrTransport is a socket failure, serialization failure, or
	// unexpected peer disconnect on the remote path.
	ErrTransport = errors.New("tuplespace: transport error")

	// ErrFatal marks a programmer error: a malformed wire message
	// received by a connection handler, or a broken internal
	// invariant. It terminates the offending connection handler but
	// never the gate or the space it serves.
	ErrFatal = errors.New("tuplespace: fatal protocol error")
)
