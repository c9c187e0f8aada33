// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package bqproto

import (
	"strings"
	"testing"
	"time"
)

func TestStatistics_Update(t *testing.T) {
	d := newTestDecoder(t)
	stats := NewStatistics()

	record := func(input []byte, start time.Duration) {
		for _, f := range feedSpaced(d, input, start, time.Millisecond) {
			stats.Update(f, ValidateFrame(f))
		}
	}

	record(singleDeviceWriteFrame(0x01, 0x0010, []byte{0xAA}), 0)
	record(responseFrame(0x01, 0x0010, []byte{0xAA}), 20*time.Millisecond)

	corrupted := singleDeviceWriteFrame(0x02, 0x0010, []byte{0xBB})
	corrupted[4] ^= 0x01
	record(corrupted, 40*time.Millisecond)

	record([]byte{0xF0}, 60*time.Millisecond)

	anomalous := singleDeviceWriteFrame(0x7E, 0x0010, []byte{0xCC})
	record(anomalous, 80*time.Millisecond)

	// A single-device read is a command even though its request-type bits
	// are zero; it must not drift into the response tally
	record(singleDeviceReadFrame(0x03, 0x0010, 4), 100*time.Millisecond)

	if stats.TotalFrames != 6 {
		t.Errorf("TotalFrames: expected 6, got %d", stats.TotalFrames)
	}
	if stats.ValidFrames != 3 {
		t.Errorf("ValidFrames: expected 3, got %d", stats.ValidFrames)
	}
	if stats.CommandFrames != 4 {
		t.Errorf("CommandFrames: expected 4, got %d", stats.CommandFrames)
	}
	if stats.ResponseFrames != 1 {
		t.Errorf("ResponseFrames: expected 1, got %d", stats.ResponseFrames)
	}
	if stats.CRCErrors != 1 {
		t.Errorf("CRCErrors: expected 1, got %d", stats.CRCErrors)
	}
	if stats.UnknownCommands != 1 {
		t.Errorf("UnknownCommands: expected 1, got %d", stats.UnknownCommands)
	}
	if stats.AnomalousFrames != 1 {
		t.Errorf("AnomalousFrames: expected 1, got %d", stats.AnomalousFrames)
	}
	if stats.ErrorCount() != 3 {
		t.Errorf("ErrorCount: expected 3, got %d", stats.ErrorCount())
	}
}

func TestStatistics_TimeoutAndTruncated(t *testing.T) {
	d := newTestDecoder(t)
	stats := NewStatistics()

	d.Feed(0x90, at(0))
	for _, f := range d.Feed(0xA0, at(time.Second)) {
		stats.Update(f, nil)
	}
	if f := d.Flush(); f != nil {
		stats.Update(f, nil)
	}

	if stats.Timeouts != 1 {
		t.Errorf("Timeouts: expected 1, got %d", stats.Timeouts)
	}
	if stats.Truncated != 1 {
		t.Errorf("Truncated: expected 1, got %d", stats.Truncated)
	}
}

func TestStatistics_NilFrame(t *testing.T) {
	stats := NewStatistics()
	stats.Update(nil, nil)
	if stats.TotalFrames != 0 {
		t.Error("nil frames must not be counted")
	}
}

func TestStatistics_String(t *testing.T) {
	stats := NewStatistics()
	d := newTestDecoder(t)
	for _, f := range feedSpaced(d, singleDeviceWriteFrame(0x01, 0x0010, []byte{0xAA}), 0, time.Millisecond) {
		stats.Update(f, nil)
	}

	out := stats.String()
	for _, want := range []string{"Total Frames:", "Valid Frames:", "Frame Rate:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary missing %q:\n%s", want, out)
		}
	}
}

func TestStatistics_Reset(t *testing.T) {
	stats := NewStatistics()
	stats.TotalFrames = 10
	stats.CRCErrors = 3
	stats.Reset()

	if stats.TotalFrames != 0 || stats.CRCErrors != 0 {
		t.Error("Reset should zero all counters")
	}
}
