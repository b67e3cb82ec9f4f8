// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wire implements the tuple space's request/response wire
// protocol (spec.md §4.6): a single self-delimiting Message schema
// shared by requests and responses, carrying an action tag, a tuple
// list, and a template. Framing is a 4-byte length prefix around a
// JSON payload — a length prefix rather than a self-terminating
// textual encoding, per the implementer's choice spec.md §4.6 allows,
// but applied identically on both the Gate and RemoteSpace sides.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/ClusterCockpit/tuplespace/internal/tuple"
)

// Action is the operation or outcome tag carried by a Message.
type Action string

const (
	ActionGet      Action = "get"
	ActionGetp     Action = "getp"
	ActionGetall   Action = "getall"
	ActionQuery    Action = "query"
	ActionQueryp   Action = "queryp"
	ActionQueryall Action = "queryall"
	ActionPut      Action = "put"
	ActionOk       Action = "ok"
	ActionError    Action = "error"
)

// Message is the single schema shared by every request and response
// (spec.md §4.6). Request shapes: Get/Getp/Query/Queryp/Getall/Queryall
// carry an empty Tuples and the selecting Template; Put carries exactly
// one tuple and an empty Template. Response shapes: Ok carries the
// result tuples (length 1 for a single retrieval, 0..N for bulk, 0 for
// an acknowledged Put); Error carries neither.
type Message struct {
	Action   Action
	Tuples   []tuple.Tuple
	Template tuple.Template
}

type wireMessage struct {
	Action   Action            `json:"action"`
	Tuples   []json.RawMessage `json:"tuples"`
	Template json.RawMessage   `json:"template,omitempty"`
}

// Marshal renders m as its JSON payload (the part that gets
// length-prefixed by WriteMessage).
func (m Message) Marshal() ([]byte, error) {
	w := wireMessage{Action: m.Action}

	for i, t := range m.Tuples {
		raw, err := tuple.EncodeTuple(t)
		if err != nil {
			return nil, fmt.Errorf("wire: encoding tuple %d: %w", i, err)
		}
		w.Tuples = append(w.Tuples, raw)
	}
	if w.Tuples == nil {
		w.Tuples = []json.RawMessage{}
	}

	if m.Template.Len() > 0 {
		raw, err := tuple.EncodeTemplate(m.Template)
		if err != nil {
			return nil, fmt.Errorf("wire: encoding template: %w", err)
		}
		w.Template = raw
	}

	return json.Marshal(w)
}

// Unmarshal parses the JSON payload produced by Marshal. Malformed
// payloads and references to unknown field kinds are rejected — this
// is a tserr.ErrFatal condition for a connection handler (spec.md §4.5,
// §7): it terminates the connection, not the gate.
func Unmarshal(data []byte) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return Message{}, fmt.Errorf("wire: malformed message: %w", err)
	}

	m := Message{Action: w.Action}
	for i, raw := range w.Tuples {
		t, err := tuple.DecodeTuple(raw)
		if err != nil {
			return Message{}, fmt.Errorf("wire: decoding tuple %d: %w", i, err)
		}
		m.Tuples = append(m.Tuples, t)
	}

	if len(w.Template) > 0 {
		tmpl, err := tuple.DecodeTemplate(w.Template)
		if err != nil {
			return Message{}, fmt.Errorf("wire: decoding template: %w", err)
		}
		m.Template = tmpl
	}

	return m, nil
}
