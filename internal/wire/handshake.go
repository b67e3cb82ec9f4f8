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

// MaxSpaceNameLen bounds the handshake's space-name frame.
const MaxSpaceNameLen = 1<<16 - 1

// WriteSpaceName sends the length-bounded UTF-8 space name a RemoteSpace
// requests when it first connects (spec.md §4.5 step 1, §4.7).
func WriteSpaceName(w io.Writer, name string) error {
	if len(name) > MaxSpaceNameLen {
		return fmt.Errorf("wire: space name of %d bytes exceeds the %d byte limit", len(name), MaxSpaceNameLen)
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(name)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := io.WriteString(w, name)
	return err
}

// ReadSpaceName reads the handshake's space-name frame.
func ReadSpaceName(r io.Reader) (string, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint16(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// HandshakeOK and HandshakeFail are the single-byte handshake outcomes
// (spec.md §4.5 step 2, §4.7): "t" for a resolved space, anything else
// (this module always sends "f") for NotFound.
const (
	HandshakeOK   = 't'
	HandshakeFail = 'f'
)

// WriteHandshakeResult sends the gate's single-byte resolution outcome.
func WriteHandshakeResult(w io.Writer, ok bool) error {
	b := byte(HandshakeFail)
	if ok {
		b = HandshakeOK
	}
	_, err := w.Write([]byte{b})
	return err
}

// ReadHandshakeResult reads the single-byte resolution outcome.
func ReadHandshakeResult(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, err
	}
	return b[0] == HandshakeOK, nil
}
