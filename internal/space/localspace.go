// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package space

import (
	"context"
	"sync"

	"github.com/ClusterCockpit/tuplespace/internal/tserr"
	"github.com/ClusterCockpit/tuplespace/internal/tuple"
	"github.com/ClusterCockpit/tuplespace/pkg/log"
	"github.com/ClusterCockpit/tuplespace/pkg/metrics"
)

// LocalSpace is the concurrent, associatively-addressed tuple container
// (spec.md §3, §4.3). One mutex guards both the store and the waiter
// list, matching spec.md §5's "single mutex per LocalSpace".
type LocalSpace struct {
	name   string
	policy Policy

	mu      sync.Mutex
	store   []tuple.Tuple
	waiters []chan struct{}
}

var _ Space = (*LocalSpace)(nil)

// New constructs an empty LocalSpace under the given retrieval policy.
func New(name string, policy Policy) *LocalSpace {
	return &LocalSpace{name: name, policy: policy}
}

// Policy returns the space's immutable selection discipline.
func (s *LocalSpace) Policy() Policy { return s.policy }

// Name returns the space's logical name, as registered in a Repository.
func (s *LocalSpace) Name() string { return s.name }

// Put inserts t into the store and wakes every currently-suspended
// waiter (spec.md §4.3 "put wakeup"). Put never re-checks templates
// itself — that is the waiter's job on re-wake, per spec.md §4.3.
func (s *LocalSpace) Put(_ context.Context, t tuple.Tuple) error {
	s.mu.Lock()
	s.store = append(s.store, t)
	woken := len(s.waiters)
	for _, w := range s.waiters {
		close(w)
	}
	s.waiters = nil
	metrics.TuplesInStore(s.name, len(s.store))
	metrics.WaitersSuspended(s.name, 0)
	metrics.PutsTotal(s.name)
	s.mu.Unlock()

	log.Debugf("SPACE %s> put (store=%d, woke %d waiter(s))", s.name, s.storeLen(), woken)
	return nil
}

func (s *LocalSpace) storeLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.store)
}

// Getp is the non-blocking destructive read (spec.md §4.3).
func (s *LocalSpace) Getp(_ context.Context, tmpl tuple.Template) (tuple.Tuple, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.policy.selectIndex(s.store, tmpl)
	if idx < 0 {
		return tuple.Tuple{}, tserr.ErrNotFound
	}
	t := s.store[idx]
	s.store = append(s.store[:idx], s.store[idx+1:]...)
	metrics.TuplesInStore(s.name, len(s.store))
	metrics.GetsTotal(s.name)
	return t, nil
}

// Queryp is the non-blocking non-destructive read (spec.md §4.3).
func (s *LocalSpace) Queryp(_ context.Context, tmpl tuple.Template) (tuple.Tuple, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.policy.selectIndex(s.store, tmpl)
	if idx < 0 {
		return tuple.Tuple{}, tserr.ErrNotFound
	}
	return s.store[idx].Clone(), nil
}

// Get is the blocking destructive read (spec.md §4.3's "blocking
// protocol"): under one lock acquisition, either remove and return a
// match, or register a one-shot waiter; release the lock; wait for a
// signal; loop back and re-attempt. Checking the store and registering
// the waiter happen atomically so a put landing between "no match
// found" and "waiter registered" can never be missed. A waiter that
// returns a result never re-registers its channel; spurious wakeups are
// tolerated by simply re-checking the store.
func (s *LocalSpace) Get(ctx context.Context, tmpl tuple.Template) (tuple.Tuple, error) {
	for {
		t, ok, wake := s.tryGetOrRegister(tmpl)
		if ok {
			metrics.GetsTotal(s.name)
			return t, nil
		}
		select {
		case <-wake:
			// Another put happened (or this is a spurious wakeup);
			// loop back and re-check under the lock.
		case <-ctx.Done():
			return tuple.Tuple{}, ctx.Err()
		}
	}
}

// Query is the blocking non-destructive read; see Get for the protocol.
func (s *LocalSpace) Query(ctx context.Context, tmpl tuple.Template) (tuple.Tuple, error) {
	for {
		t, ok, wake := s.tryQueryOrRegister(tmpl)
		if ok {
			return t, nil
		}
		select {
		case <-wake:
		case <-ctx.Done():
			return tuple.Tuple{}, ctx.Err()
		}
	}
}

func (s *LocalSpace) tryGetOrRegister(tmpl tuple.Template) (tuple.Tuple, bool, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.policy.selectIndex(s.store, tmpl); idx >= 0 {
		t := s.store[idx]
		s.store = append(s.store[:idx], s.store[idx+1:]...)
		metrics.TuplesInStore(s.name, len(s.store))
		return t, true, nil
	}
	return tuple.Tuple{}, false, s.registerLocked()
}

func (s *LocalSpace) tryQueryOrRegister(tmpl tuple.Template) (tuple.Tuple, bool, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.policy.selectIndex(s.store, tmpl); idx >= 0 {
		return s.store[idx].Clone(), true, nil
	}
	return tuple.Tuple{}, false, s.registerLocked()
}

// registerLocked appends a new one-shot notification channel to the
// waiter list. Callers must already hold s.mu.
func (s *LocalSpace) registerLocked() <-chan struct{} {
	w := make(chan struct{})
	s.waiters = append(s.waiters, w)
	metrics.WaitersSuspended(s.name, len(s.waiters))
	return w
}

// Getall is the bulk destructive read: one lock acquisition partitions
// the store into matching (returned) and non-matching (retained)
// tuples, both in original store order (spec.md §4.3 "bulk variants").
// This mirrors the single-pass retain/drain idiom of the Rust source's
// drain_filter helper.
func (s *LocalSpace) Getall(_ context.Context, tmpl tuple.Template) ([]tuple.Tuple, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched, rest := partition(s.store, tmpl)
	s.store = rest
	metrics.TuplesInStore(s.name, len(s.store))
	metrics.GetsTotal(s.name)
	return matched, nil
}

// Queryall is the bulk non-destructive read: clones of all matches are
// returned in store order; the store is left untouched.
func (s *LocalSpace) Queryall(_ context.Context, tmpl tuple.Template) ([]tuple.Tuple, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched, _ := partition(s.store, tmpl)
	clones := make([]tuple.Tuple, len(matched))
	for i, t := range matched {
		clones[i] = t.Clone()
	}
	return clones, nil
}

// partition splits store into tuples the template matches and those it
// does not, preserving relative order in both results.
func partition(store []tuple.Tuple, tmpl tuple.Template) (matched, rest []tuple.Tuple) {
	for _, t := range store {
		if tmpl.Matches(t) {
			matched = append(matched, t)
		} else {
			rest = append(rest, t)
		}
	}
	return matched, rest
}
