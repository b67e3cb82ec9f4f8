// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package gate implements the TCP server that exposes a Repository's
// spaces over the network (spec.md §4.5): a single acceptor multiplexing
// onto per-connection handlers, with graceful shutdown of the listener
// and every live connection.
package gate

import (
	"net"
	"sync"

	"github.com/ClusterCockpit/tuplespace/internal/space"
	"github.com/ClusterCockpit/tuplespace/pkg/log"
	"github.com/ClusterCockpit/tuplespace/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// SpaceResolver is how a Gate looks up the space a connecting client
// asked for, without importing the repository package (the repository
// owns gates, not the other way around — spec.md §9 "cyclic ownership").
type SpaceResolver interface {
	GetSpace(name string) (space.Space, bool)
}

// Gate owns a listening socket, the set of live connections it has
// accepted, and the machinery to shut both down gracefully (spec.md §3
// Gate invariants).
type Gate struct {
	name     string
	resolver SpaceResolver
	listener net.Listener

	mu        sync.Mutex
	done      chan struct{}
	connDone  []chan struct{}
	closeOnce sync.Once
	eg        errgroup.Group
}

// New binds addr and starts the acceptor loop in the background. The
// returned Gate is ready to serve clients immediately.
func New(name, addr string, resolver SpaceResolver) (*Gate, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	g := &Gate{
		name:     name,
		resolver: resolver,
		listener: ln,
		done:     make(chan struct{}),
	}

	g.eg.Go(g.acceptLoop)
	log.Infof("GATE %s> listening on %s", name, ln.Addr())
	return g, nil
}

// Addr returns the gate's bound listen address.
func (g *Gate) Addr() net.Addr { return g.listener.Addr() }

// acceptLoop is the gate's single acceptor (spec.md §4.5). Accept
// unblocks either with a new connection or with an error caused by
// Close()'s call to listener.Close() — the done channel distinguishes
// the two so a deliberate shutdown is never logged as a failure.
func (g *Gate) acceptLoop() error {
	for {
		conn, err := g.listener.Accept()
		if err != nil {
			select {
			case <-g.done:
				return nil
			default:
				log.Warnf("GATE %s> accept error: %s", g.name, err.Error())
				return err
			}
		}

		c := newConnection(g, conn)
		g.mu.Lock()
		g.connDone = append(g.connDone, c.shutdown)
		g.mu.Unlock()

		g.eg.Go(func() error {
			c.serve()
			return nil
		})
	}
}

// Close signals the acceptor to stop, stops accepting new connections,
// signals every live connection, and waits for the acceptor and every
// connection handler to finish before returning (spec.md §3 "once
// shutdown is signalled... the acceptor thread joins on all handlers").
func (g *Gate) Close() error {
	g.closeOnce.Do(func() {
		close(g.done)
		g.listener.Close()

		g.mu.Lock()
		for _, c := range g.connDone {
			closeOnceChan(c)
		}
		g.mu.Unlock()
	})
	return g.eg.Wait()
}

func closeOnceChan(c chan struct{}) {
	select {
	case <-c:
		// already closed
	default:
		close(c)
	}
}
