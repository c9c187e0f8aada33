// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package pcap

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func TestGlobalHeader(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	b := buf.Bytes()
	if len(b) != 24 {
		t.Fatalf("global header length = %d, want 24", len(b))
	}

	magic := binary.LittleEndian.Uint32(b[0:4])
	if magic != 0xa1b23c4d {
		t.Errorf("magic = 0x%08x, want 0xa1b23c4d", magic)
	}

	major := binary.LittleEndian.Uint16(b[4:6])
	minor := binary.LittleEndian.Uint16(b[6:8])
	if major != 2 || minor != 4 {
		t.Errorf("version = %d.%d, want 2.4", major, minor)
	}

	snaplen := binary.LittleEndian.Uint32(b[16:20])
	if snaplen != 65535 {
		t.Errorf("snaplen = %d, want 65535", snaplen)
	}

	linkType := binary.LittleEndian.Uint32(b[20:24])
	if linkType != 147 {
		t.Errorf("link type = %d, want 147 (DLT_USER0)", linkType)
	}
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	buf.Reset() // discard global header for this test

	ts := time.Date(2026, 3, 2, 10, 30, 45, 123456789, time.UTC)
	raw := []byte{0x90, 0x05, 0x00, 0x10, 0xAA, 0x69, 0x6E}

	if err := w.WriteFrame(ts, raw); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	b := buf.Bytes()
	if len(b) != 16+len(raw) {
		t.Fatalf("record length = %d, want %d", len(b), 16+len(raw))
	}

	tsSec := binary.LittleEndian.Uint32(b[0:4])
	if tsSec != uint32(ts.Unix()) {
		t.Errorf("ts_sec = %d, want %d", tsSec, ts.Unix())
	}

	tsNsec := binary.LittleEndian.Uint32(b[4:8])
	if tsNsec != 123456789 {
		t.Errorf("ts_nsec = %d, want 123456789", tsNsec)
	}

	capLen := binary.LittleEndian.Uint32(b[8:12])
	origLen := binary.LittleEndian.Uint32(b[12:16])
	if capLen != uint32(len(raw)) || origLen != uint32(len(raw)) {
		t.Errorf("lengths = %d/%d, want %d", capLen, origLen, len(raw))
	}

	if !bytes.Equal(b[16:], raw) {
		t.Errorf("frame data = %x, want %x", b[16:], raw)
	}
}

func TestWriteFrame_Multiple(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	ts := time.Date(2026, 3, 2, 10, 30, 45, 0, time.UTC)
	first := []byte{0x01, 0x02, 0x03}
	second := []byte{0x04, 0x05}

	if err := w.WriteFrame(ts, first); err != nil {
		t.Fatalf("WriteFrame 1: %v", err)
	}
	if err := w.WriteFrame(ts.Add(time.Millisecond), second); err != nil {
		t.Fatalf("WriteFrame 2: %v", err)
	}

	expectedLen := 24 + (16 + len(first)) + (16 + len(second))
	if buf.Len() != expectedLen {
		t.Fatalf("total length = %d, want %d", buf.Len(), expectedLen)
	}

	b := buf.Bytes()
	offset := 24 + 16 + len(first)
	tsNsec := binary.LittleEndian.Uint32(b[offset+4 : offset+8])
	if tsNsec != 1000000 {
		t.Errorf("second frame ts_nsec = %d, want 1000000", tsNsec)
	}
}
