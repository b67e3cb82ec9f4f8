// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package repository implements Repository, the named collection of
// spaces and gates a tuplespace-server process hosts (spec.md §4.4).
package repository

import (
	"fmt"
	"sync"

	"github.com/ClusterCockpit/tuplespace/internal/gate"
	"github.com/ClusterCockpit/tuplespace/internal/space"
	"github.com/ClusterCockpit/tuplespace/internal/tserr"
	"github.com/ClusterCockpit/tuplespace/pkg/log"
)

// Repository owns two independently-locked keyed mappings: logical
// space name to Space, and gate name to Gate (spec.md §3, §5 — "never
// held simultaneously"). Spaces are reference-counted by Go's garbage
// collector like any shared value; Gates are owned solely by the
// Repository that created them.
type Repository struct {
	spacesMu sync.RWMutex
	spaces   map[string]space.Space

	gatesMu sync.Mutex
	gates   map[string]*gate.Gate
}

var _ gate.SpaceResolver = (*Repository)(nil)

// New returns an empty Repository.
func New() *Repository {
	return &Repository{
		spaces: make(map[string]space.Space),
		gates:  make(map[string]*gate.Gate),
	}
}

// AddSpace registers sp under name, replacing any space previously
// registered under it.
func (r *Repository) AddSpace(name string, sp space.Space) {
	r.spacesMu.Lock()
	defer r.spacesMu.Unlock()
	r.spaces[name] = sp
	log.Infof("REPOSITORY> registered space %q", name)
}

// GetSpace looks up a space by name. It also satisfies
// gate.SpaceResolver, letting a Gate resolve incoming client requests
// through the same map without the gate package importing repository.
func (r *Repository) GetSpace(name string) (space.Space, bool) {
	r.spacesMu.RLock()
	defer r.spacesMu.RUnlock()
	sp, ok := r.spaces[name]
	return sp, ok
}

// DelSpace removes name from the repository, if present.
func (r *Repository) DelSpace(name string) {
	r.spacesMu.Lock()
	defer r.spacesMu.Unlock()
	delete(r.spaces, name)
}

// AddGate creates a Gate bound to addr, sharing this repository's space
// map to resolve incoming requests, and registers it under name. Two
// simultaneous gates on the same repository are permitted.
func (r *Repository) AddGate(name, addr string) (*gate.Gate, error) {
	r.gatesMu.Lock()
	defer r.gatesMu.Unlock()

	if _, exists := r.gates[name]; exists {
		return nil, fmt.Errorf("repository: gate %q already exists: %w", name, tserr.ErrInvalidInput)
	}

	g, err := gate.New(name, addr, r)
	if err != nil {
		return nil, fmt.Errorf("repository: adding gate %q: %w", name, err)
	}
	r.gates[name] = g
	return g, nil
}

// CloseGate is idempotent on unknown names (a no-op) and, for a known
// gate, blocks until its acceptor and every connection handler it owns
// have fully shut down (spec.md §4.4). Every open gate must be closed
// this way before the Repository is dropped, or its acceptor goroutine
// leaks (spec.md §3 Repository invariant).
func (r *Repository) CloseGate(name string) error {
	r.gatesMu.Lock()
	g, ok := r.gates[name]
	if ok {
		delete(r.gates, name)
	}
	r.gatesMu.Unlock()

	if !ok {
		return nil
	}
	log.Infof("REPOSITORY> closing gate %q", name)
	return g.Close()
}

// CloseAllGates closes every gate still registered. Useful for a
// process-wide graceful shutdown.
func (r *Repository) CloseAllGates() error {
	r.gatesMu.Lock()
	names := make([]string, 0, len(r.gates))
	for name := range r.gates {
		names = append(names, name)
	}
	r.gatesMu.Unlock()

	var firstErr error
	for _, name := range names {
		if err := r.CloseGate(name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
