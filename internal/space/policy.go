// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package space

import (
	"math/rand/v2"

	"github.com/ClusterCockpit/tuplespace/internal/tuple"
)

// Policy is the retrieval discipline a LocalSpace is constructed with
// (spec.md §4.3). It is immutable for the lifetime of the space.
type Policy int

const (
	Sequential Policy = iota
	Queue
	Stack
	Pile
	Random
)

func (p Policy) String() string {
	switch p {
	case Sequential:
		return "sequential"
	case Queue:
		return "queue"
	case Stack:
		return "stack"
	case Pile:
		return "pile"
	case Random:
		return "random"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a config/CLI string onto a Policy.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "sequential", "":
		return Sequential, true
	case "queue":
		return Queue, true
	case "stack":
		return Stack, true
	case "pile":
		return Pile, true
	case "random":
		return Random, true
	default:
		return 0, false
	}
}

// selectIndex runs the policy's selection rule against store, returning the
// index of the tuple to return or -1 if nothing matches. Must be called
// with the space's lock held.
func (p Policy) selectIndex(store []tuple.Tuple, tmpl tuple.Template) int {
	switch p {
	case Sequential:
		for i, t := range store {
			if tmpl.Matches(t) {
				return i
			}
		}
		return -1

	case Queue:
		if len(store) == 0 {
			return -1
		}
		if tmpl.Matches(store[0]) {
			return 0
		}
		return -1

	case Stack:
		if len(store) == 0 {
			return -1
		}
		last := len(store) - 1
		if tmpl.Matches(store[last]) {
			return last
		}
		return -1

	case Pile:
		for i := len(store) - 1; i >= 0; i-- {
			if tmpl.Matches(store[i]) {
				return i
			}
		}
		return -1

	case Random:
		var candidates []int
		for i, t := range store {
			if tmpl.Matches(t) {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			return -1
		}
		return candidates[rand.IntN(len(candidates))]

	default:
		return -1
	}
}
