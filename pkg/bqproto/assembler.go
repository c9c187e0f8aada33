// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package bqproto

import "time"

// Assembler is the per-byte frame assembly state machine. It owns the single
// in-flight frame, consults the command table for the expected byte count,
// and recovers locally from unknown initiators, inter-byte timeouts, and
// truncation. Nothing it observes on the wire is ever a Go error: every
// anomaly surfaces as a Frame status.
//
// Timestamps must be fed in non-decreasing order. The timeout check compares
// caller-supplied timestamps only, so replaying a recorded capture is fully
// deterministic.
type Assembler struct {
	timeout time.Duration

	state int
	desc  *Descriptor

	start time.Time
	last  time.Time

	initByte     byte
	deviceAddr   int
	regAddrHigh  byte
	regAddr      int
	expectedData int
	data         []byte
	crcLow       byte
	raw          []byte
}

// NewAssembler creates an assembler with the given inter-byte timeout.
// Callers go through Decoder, which validates the timeout.
func NewAssembler(timeout time.Duration) *Assembler {
	a := &Assembler{timeout: timeout}
	a.Reset()
	return a
}

// Reset abandons any in-flight frame without emitting it and returns the
// machine to idle.
func (a *Assembler) Reset() {
	a.state = stateIdle
	a.desc = nil
	a.initByte = 0
	a.deviceAddr = -1
	a.regAddrHigh = 0
	a.regAddr = -1
	a.expectedData = 0
	a.data = nil
	a.crcLow = 0
	a.raw = nil
}

// Pending reports whether a frame is currently being assembled.
func (a *Assembler) Pending() bool {
	return a.state != stateIdle
}

// Feed processes one timestamped byte and returns zero or more completed or
// abandoned frames, in order. At most two frames can result from a single
// byte: a timed-out partial frame, then a frame begun (and possibly
// finished) by the byte itself.
func (a *Assembler) Feed(b byte, t time.Time) []*Frame {
	var out []*Frame

	// Gap check happens before the byte is consumed, so the byte that
	// trips the timeout starts the next frame rather than being lost.
	if a.state != stateIdle && t.Sub(a.last) > a.timeout {
		out = append(out, a.abandon(StatusTimedOut))
	}

	if f := a.accept(b, t); f != nil {
		out = append(out, f)
	}
	return out
}

// Flush abandons a partially received frame when the input stream ends.
// Returns nil if the machine is idle.
func (a *Assembler) Flush() *Frame {
	if a.state == stateIdle {
		return nil
	}
	return a.abandon(StatusTruncated)
}

// accept runs one byte through the state machine.
func (a *Assembler) accept(b byte, t time.Time) *Frame {
	if a.state == stateIdle {
		return a.begin(b, t)
	}

	a.raw = append(a.raw, b)
	a.last = t

	switch a.state {
	case stateDeviceAddr:
		a.deviceAddr = int(b)
		a.state = stateRegAddrHigh

	case stateRegAddrHigh:
		a.regAddrHigh = b
		a.state = stateRegAddrLow

	case stateRegAddrLow:
		a.regAddr = int(a.regAddrHigh)<<8 | int(b)
		if a.desc.HasLengthField {
			a.state = stateLength
		} else {
			a.state = stateData
		}

	case stateLength:
		a.expectedData = int(b)
		if a.expectedData == 0 {
			a.state = stateCRCLow
		} else {
			a.data = make([]byte, 0, a.expectedData)
			a.state = stateData
		}

	case stateData:
		a.data = append(a.data, b)
		if len(a.data) >= a.expectedData {
			a.state = stateCRCLow
		}

	case stateCRCLow:
		a.crcLow = b
		a.state = stateCRCHigh

	case stateCRCHigh:
		return a.complete(uint16(a.crcLow) | uint16(b)<<8)
	}

	return nil
}

// begin treats b as an initiator byte and opens a new in-flight frame.
// An unrecognized initiator consumes exactly one byte and is reported
// immediately, leaving the machine idle for resynchronization.
func (a *Assembler) begin(b byte, t time.Time) *Frame {
	desc, ok := Lookup(b)
	if !ok {
		return &Frame{
			start:      t,
			end:        t,
			status:     StatusUnknownCommand,
			initByte:   b,
			deviceAddr: -1,
			regAddr:    -1,
			raw:        []byte{b},
		}
	}

	a.Reset()
	a.desc = desc
	a.initByte = b
	a.start = t
	a.last = t
	a.raw = append(make([]byte, 0, 8), b)

	if !desc.HasLengthField {
		a.expectedData = desc.DataSize(b)
		a.data = make([]byte, 0, a.expectedData)
	}

	if desc.HasDeviceAddress {
		a.state = stateDeviceAddr
	} else {
		a.state = stateRegAddrHigh
	}
	return nil
}

// complete finalizes a structurally full frame and validates its CRC.
func (a *Assembler) complete(crc uint16) *Frame {
	f := &Frame{
		start:      a.start,
		end:        a.last,
		descriptor: a.desc,
		initByte:   a.initByte,
		deviceAddr: a.deviceAddr,
		regAddr:    a.regAddr,
		data:       a.data,
		crc:        crc,
		raw:        a.raw,
	}
	f.crcValid = CheckCRC(f.raw)
	if f.crcValid {
		f.status = StatusOK
	} else {
		f.status = StatusCRCError
	}
	a.Reset()
	return f
}

// abandon emits the in-flight frame as-is with the given status and returns
// the machine to idle. Fields that were never reached stay absent.
func (a *Assembler) abandon(status Status) *Frame {
	f := &Frame{
		start:      a.start,
		end:        a.last,
		status:     status,
		descriptor: a.desc,
		initByte:   a.initByte,
		deviceAddr: a.deviceAddr,
		regAddr:    a.regAddr,
		data:       a.data,
		raw:        a.raw,
	}
	a.Reset()
	return f
}
