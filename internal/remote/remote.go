// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package remote implements RemoteSpace, the client side of the wire
// protocol (spec.md §4.7): a Space that forwards every operation to a
// Gate over a single TCP connection.
package remote

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/ClusterCockpit/tuplespace/internal/space"
	"github.com/ClusterCockpit/tuplespace/internal/tserr"
	"github.com/ClusterCockpit/tuplespace/internal/tuple"
	"github.com/ClusterCockpit/tuplespace/internal/wire"
)

// RemoteSpace is a Space backed by a single persistent connection to a
// Gate. All operations serialize on conn through mu: the wire protocol
// is one request in flight at a time per connection (spec.md §4.7 —
// "a single logical request/response channel"), so a blocking Get from
// one goroutine holds the connection until the Gate answers it.
type RemoteSpace struct {
	conn net.Conn
	mu   sync.Mutex
}

var _ space.Space = (*RemoteSpace)(nil)

// Dial connects to a Gate and opens a RemoteSpace onto one of its
// spaces. uri is "host:port/spaceName" (spec.md §4.7): the final slash
// separates the dial address from the space name, so a bare IPv6
// address still parses correctly as long as the space name itself
// never contains a slash.
func Dial(uri string) (*RemoteSpace, error) {
	addr, name, err := splitURI(uri)
	if err != nil {
		return nil, err
	}

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("remote: dialing %s: %w: %w", addr, tserr.ErrTransport, err)
	}

	if err := wire.WriteSpaceName(conn, name); err != nil {
		conn.Close()
		return nil, fmt.Errorf("remote: sending space name: %w: %w", tserr.ErrTransport, err)
	}

	ok, err := wire.ReadHandshakeResult(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("remote: reading handshake result: %w: %w", tserr.ErrTransport, err)
	}
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("remote: space %q: %w", name, tserr.ErrNotFound)
	}

	return &RemoteSpace{conn: conn}, nil
}

func splitURI(uri string) (addr, name string, err error) {
	i := strings.LastIndex(uri, "/")
	if i < 0 {
		return "", "", fmt.Errorf("remote: %q is not host:port/name: %w", uri, tserr.ErrInvalidInput)
	}
	addr, name = uri[:i], uri[i+1:]
	if addr == "" || name == "" {
		return "", "", fmt.Errorf("remote: %q is not host:port/name: %w", uri, tserr.ErrInvalidInput)
	}
	return addr, name, nil
}

// Close shuts down the underlying connection. Any operation racing
// with or following Close fails with tserr.ErrTransport.
func (r *RemoteSpace) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn.Close()
}

// roundTrip sends req and waits for the matching response. If ctx has a
// deadline, it becomes the connection's read/write deadline for this
// round trip, whatever the action; otherwise no deadline is set. A ctx
// cancelled without a deadline does not interrupt a pending read.
func (r *RemoteSpace) roundTrip(ctx context.Context, req wire.Message) (wire.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		r.conn.SetDeadline(deadline)
	} else {
		r.conn.SetDeadline(time.Time{})
	}

	if err := wire.WriteMessage(r.conn, req); err != nil {
		return wire.Message{}, fmt.Errorf("remote: writing request: %w: %w", tserr.ErrTransport, err)
	}

	resp, err := wire.ReadMessage(r.conn)
	if err != nil {
		return wire.Message{}, fmt.Errorf("remote: reading response: %w: %w", tserr.ErrTransport, err)
	}
	return resp, nil
}

func (r *RemoteSpace) Put(ctx context.Context, t tuple.Tuple) error {
	resp, err := r.roundTrip(ctx, wire.Message{Action: wire.ActionPut, Tuples: []tuple.Tuple{t}})
	if err != nil {
		return err
	}
	if resp.Action != wire.ActionOk {
		return fmt.Errorf("remote: put rejected: %w", tserr.ErrFatal)
	}
	return nil
}

func (r *RemoteSpace) Getp(ctx context.Context, tmpl tuple.Template) (tuple.Tuple, error) {
	return r.single(ctx, wire.ActionGetp, tmpl)
}

func (r *RemoteSpace) Queryp(ctx context.Context, tmpl tuple.Template) (tuple.Tuple, error) {
	return r.single(ctx, wire.ActionQueryp, tmpl)
}

func (r *RemoteSpace) Get(ctx context.Context, tmpl tuple.Template) (tuple.Tuple, error) {
	return r.single(ctx, wire.ActionGet, tmpl)
}

func (r *RemoteSpace) Query(ctx context.Context, tmpl tuple.Template) (tuple.Tuple, error) {
	return r.single(ctx, wire.ActionQuery, tmpl)
}

func (r *RemoteSpace) single(ctx context.Context, action wire.Action, tmpl tuple.Template) (tuple.Tuple, error) {
	resp, err := r.roundTrip(ctx, wire.Message{Action: action, Template: tmpl})
	if err != nil {
		return tuple.Tuple{}, err
	}
	if resp.Action != wire.ActionOk {
		return tuple.Tuple{}, fmt.Errorf("remote: %s: %w", action, tserr.ErrNotFound)
	}
	if len(resp.Tuples) != 1 {
		return tuple.Tuple{}, fmt.Errorf("remote: %s: malformed response: %w", action, tserr.ErrFatal)
	}
	return resp.Tuples[0], nil
}

func (r *RemoteSpace) Getall(ctx context.Context, tmpl tuple.Template) ([]tuple.Tuple, error) {
	return r.bulk(ctx, wire.ActionGetall, tmpl)
}

func (r *RemoteSpace) Queryall(ctx context.Context, tmpl tuple.Template) ([]tuple.Tuple, error) {
	return r.bulk(ctx, wire.ActionQueryall, tmpl)
}

func (r *RemoteSpace) bulk(ctx context.Context, action wire.Action, tmpl tuple.Template) ([]tuple.Tuple, error) {
	resp, err := r.roundTrip(ctx, wire.Message{Action: action, Template: tmpl})
	if err != nil {
		return nil, err
	}
	if resp.Action != wire.ActionOk {
		return nil, fmt.Errorf("remote: %s rejected: %w", action, tserr.ErrFatal)
	}
	return resp.Tuples, nil
}
