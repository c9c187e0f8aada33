// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package bqproto

import "time"

// Frame represents one decoded (or abandoned) protocol frame. A Frame is
// immutable after the assembler emits it; ownership passes to the consumer.
type Frame struct {
	start time.Time
	end   time.Time

	status     Status
	descriptor *Descriptor

	initByte   byte
	deviceAddr int // -1 when the frame carries no device address
	regAddr    int // -1 when the register address was never completed
	data       []byte
	crc        uint16
	crcValid   bool
	raw        []byte
}

// StartTime returns the arrival time of the frame's first byte.
func (f *Frame) StartTime() time.Time {
	return f.start
}

// EndTime returns the arrival time of the frame's last byte.
func (f *Frame) EndTime() time.Time {
	return f.end
}

// Status returns the frame's decode status.
func (f *Frame) Status() Status {
	return f.status
}

// Descriptor returns the matched command descriptor, or nil for frames that
// never matched one (unknown command bytes).
func (f *Frame) Descriptor() *Descriptor {
	return f.descriptor
}

// IsCommand reports whether the frame is a host command.
func (f *Frame) IsCommand() bool {
	return f.initByte&FrameTypeMask == CommandFrame
}

// InitByte returns the raw initiator byte.
func (f *Frame) InitByte() byte {
	return f.initByte
}

// DeviceAddress returns the target/source device address. The second return
// is false for broadcast and stack frames, and for partial frames that never
// reached the address byte.
func (f *Frame) DeviceAddress() (int, bool) {
	if f.deviceAddr < 0 {
		return 0, false
	}
	return f.deviceAddr, true
}

// RegisterAddress returns the 16-bit register address. The second return is
// false for partial frames that never completed both address bytes.
func (f *Frame) RegisterAddress() (int, bool) {
	if f.regAddr < 0 {
		return 0, false
	}
	return f.regAddr, true
}

// Data returns the frame's data field bytes (partial for abandoned frames).
func (f *Frame) Data() []byte {
	return f.data
}

// CRC returns the received CRC trailer. Meaningful only when the frame
// reached full length.
func (f *Frame) CRC() uint16 {
	return f.crc
}

// CRCValid reports whether the received trailer matched the running CRC.
// StatusOK implies true; a full-length frame with a mismatch carries
// StatusCRCError and false.
func (f *Frame) CRCValid() bool {
	return f.crcValid
}

// Raw returns every byte consumed for this frame, in arrival order. No input
// byte is ever dropped: each one appears in exactly one frame's Raw.
func (f *Frame) Raw() []byte {
	return f.raw
}

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusCRCError:
		return "CRC_ERROR"
	case StatusTimedOut:
		return "TIMED_OUT"
	case StatusTruncated:
		return "TRUNCATED"
	case StatusUnknownCommand:
		return "UNKNOWN_COMMAND"
	default:
		return "INVALID"
	}
}

// String returns the addressing mode name.
func (a AddressingMode) String() string {
	switch a {
	case AddrSingleDevice:
		return "SINGLE_DEVICE"
	case AddrStack:
		return "STACK"
	case AddrBroadcast:
		return "BROADCAST"
	default:
		return "INVALID"
	}
}
