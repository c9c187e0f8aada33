// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package bqproto

import (
	"fmt"
	"time"
)

// Decoder is the streaming entry point consumed by the surrounding tooling.
// It wraps the frame assembler behind a construct → Feed* → Flush lifecycle
// and forwards every emitted frame untouched, in arrival order.
//
// A Decoder is single-threaded and synchronous: one byte per Feed call, no
// internal timers, no background activity. Multiple independent decoders
// can coexist (parallel captures, tests).
type Decoder struct {
	asm *Assembler
}

// NewDecoder creates a decoder with the given inter-byte frame timeout.
// A non-positive timeout is a configuration fault and is rejected here,
// once, rather than surfacing per frame.
func NewDecoder(timeout time.Duration) (*Decoder, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("frame timeout must be positive, got %v", timeout)
	}
	return &Decoder{asm: NewAssembler(timeout)}, nil
}

// Timeout returns the configured inter-byte frame timeout.
func (d *Decoder) Timeout() time.Duration {
	return d.asm.timeout
}

// Feed processes one byte with its arrival time and returns the frames it
// completed or abandoned (usually none or one; at most two).
func (d *Decoder) Feed(b byte, t time.Time) []*Frame {
	return d.asm.Feed(b, t)
}

// Flush terminates the input stream, reporting a partially received frame
// as truncated. Returns nil if no frame was in flight. The decoder remains
// usable afterwards.
func (d *Decoder) Flush() *Frame {
	return d.asm.Flush()
}
