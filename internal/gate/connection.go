// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package gate

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/ClusterCockpit/tuplespace/internal/space"
	"github.com/ClusterCockpit/tuplespace/internal/tuple"
	"github.com/ClusterCockpit/tuplespace/internal/wire"
	"github.com/ClusterCockpit/tuplespace/pkg/log"
	"github.com/ClusterCockpit/tuplespace/pkg/metrics"
)

// readTimeout bounds how long a connection handler blocks in a single
// read, so it observes a shutdown signal promptly (spec.md §4.5, §5).
const readTimeout = 3 * time.Second

// connection is a single accepted client: the handshake has already
// resolved which space it talks to, and one dispatch loop now services
// its request/response pairs until it disconnects or the gate shuts it
// down. A connection's own termination never reaches back into the
// gate or any other connection (spec.md §4.5).
type connection struct {
	gate     *Gate
	conn     net.Conn
	shutdown chan struct{}
}

func newConnection(g *Gate, c net.Conn) *connection {
	return &connection{gate: g, conn: c, shutdown: make(chan struct{})}
}

// serve runs the handshake and, on success, the dispatch loop. It never
// returns an error to the caller — a fatal condition on one connection
// must not surface as a Gate-level failure (spec.md §7).
func (c *connection) serve() {
	defer c.conn.Close()

	name, err := wire.ReadSpaceName(c.conn)
	if err != nil {
		log.Debugf("GATE %s> handshake read failed: %s", c.gate.name, err.Error())
		return
	}

	sp, ok := c.gate.resolver.GetSpace(name)
	if !ok {
		wire.WriteHandshakeResult(c.conn, false)
		return
	}
	if err := wire.WriteHandshakeResult(c.conn, true); err != nil {
		return
	}

	metrics.GateConnectionOpened(c.gate.name)
	defer metrics.GateConnectionClosed(c.gate.name)

	c.dispatchLoop(sp)
}

func (c *connection) dispatchLoop(sp space.Space) {
	for {
		select {
		case <-c.shutdown:
			return
		default:
		}

		c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		req, err := wire.ReadMessage(c.conn)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return
			}
			log.Debugf("GATE %s> connection terminated: %s", c.gate.name, err.Error())
			return
		}

		resp := c.dispatch(sp, req)
		if err := wire.WriteMessage(c.conn, resp); err != nil {
			log.Debugf("GATE %s> write failed: %s", c.gate.name, err.Error())
			return
		}
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// dispatch executes one request against sp and builds its response,
// per spec.md §4.6's request/response shape table. Blocking variants
// (Get, Query) suspend the handler on behalf of the client for however
// long it takes — the point of running the space server-side.
func (c *connection) dispatch(sp space.Space, req wire.Message) wire.Message {
	ctx := context.Background()

	switch req.Action {
	case wire.ActionPut:
		if len(req.Tuples) != 1 {
			return wire.Message{Action: wire.ActionError}
		}
		if err := sp.Put(ctx, req.Tuples[0]); err != nil {
			return wire.Message{Action: wire.ActionError}
		}
		return wire.Message{Action: wire.ActionOk}

	case wire.ActionGetp:
		t, err := sp.Getp(ctx, req.Template)
		return singleResult(t, err)

	case wire.ActionQueryp:
		t, err := sp.Queryp(ctx, req.Template)
		return singleResult(t, err)

	case wire.ActionGet:
		t, err := sp.Get(ctx, req.Template)
		return singleResult(t, err)

	case wire.ActionQuery:
		t, err := sp.Query(ctx, req.Template)
		return singleResult(t, err)

	case wire.ActionGetall:
		ts, err := sp.Getall(ctx, req.Template)
		return bulkResult(ts, err)

	case wire.ActionQueryall:
		ts, err := sp.Queryall(ctx, req.Template)
		return bulkResult(ts, err)

	default:
		return wire.Message{Action: wire.ActionError}
	}
}

// singleResult builds the response for a single-retrieval action
// (Get/Getp/Query/Queryp): Ok with exactly one tuple on success, Error
// on any failure — a non-blocking miss and a transport-level problem
// are both surfaced to the client as the Error action tag (spec.md
// §4.6's response shape table; the client distinguishes NotFound from
// other failures via the request it sent, since a blocking Get/Query
// never produces an Error response for a miss).
func singleResult(t tuple.Tuple, err error) wire.Message {
	if err != nil {
		return wire.Message{Action: wire.ActionError}
	}
	return wire.Message{Action: wire.ActionOk, Tuples: []tuple.Tuple{t}}
}

// bulkResult builds the response for a bulk-retrieval action
// (Getall/Queryall): always Ok, since bulk operations never report
// NotFound — an empty match set is an empty, successful result.
func bulkResult(ts []tuple.Tuple, err error) wire.Message {
	if err != nil {
		return wire.Message{Action: wire.ActionError}
	}
	return wire.Message{Action: wire.ActionOk, Tuples: ts}
}
