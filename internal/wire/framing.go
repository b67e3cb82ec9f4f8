// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxMessageSize bounds a single framed message, guarding a connection
// handler against a peer that sends a bogus, huge length prefix.
const MaxMessageSize = 64 << 20 // 64 MiB

// WriteMessage frames m as a 4-byte big-endian length prefix followed
// by its JSON payload, and writes it in one call to w.
func WriteMessage(w io.Writer, m Message) error {
	payload, err := m.Marshal()
	if err != nil {
		return err
	}

	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(payload)))
	copy(frame[4:], payload)

	_, err = w.Write(frame)
	return err
}

// ReadMessage reads one length-prefixed frame from r and parses it.
func ReadMessage(r io.Reader) (Message, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Message{}, err
	}

	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > MaxMessageSize {
		return Message{}, fmt.Errorf("wire: message of %d bytes exceeds the %d byte limit", n, MaxMessageSize)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Message{}, err
	}

	return Unmarshal(payload)
}
