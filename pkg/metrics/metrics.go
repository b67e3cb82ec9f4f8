// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exposes Prometheus instrumentation for space and gate
// activity. It never takes a lock of its own: the Prometheus vectors are
// safe for concurrent use. LocalSpace sets its store and waiter gauges
// while holding its own mutex; the counters and the gate connection
// gauge are not tied to any caller lock.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tuplesInStore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tuplespace",
		Name:      "tuples_in_store",
		Help:      "Number of tuples currently held by a local space.",
	}, []string{"space"})

	waitersSuspended = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tuplespace",
		Name:      "waiters_suspended",
		Help:      "Number of callers currently suspended inside get/query on a local space.",
	}, []string{"space"})

	putsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tuplespace",
		Name:      "puts_total",
		Help:      "Total number of tuples inserted into a local space.",
	}, []string{"space"})

	getsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tuplespace",
		Name:      "gets_total",
		Help:      "Total number of successful destructive reads from a local space.",
	}, []string{"space"})

	gateConnectionsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tuplespace",
		Name:      "gate_connections_active",
		Help:      "Number of live client connections handled by a gate.",
	}, []string{"gate"})
)

func TuplesInStore(space string, n int)     { tuplesInStore.WithLabelValues(space).Set(float64(n)) }
func WaitersSuspended(space string, n int)  { waitersSuspended.WithLabelValues(space).Set(float64(n)) }
func PutsTotal(space string)                { putsTotal.WithLabelValues(space).Inc() }
func GetsTotal(space string)                { getsTotal.WithLabelValues(space).Inc() }
func GateConnectionOpened(gate string)      { gateConnectionsActive.WithLabelValues(gate).Inc() }
func GateConnectionClosed(gate string)      { gateConnectionsActive.WithLabelValues(gate).Dec() }
