// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

// Package bqproto decodes the TI BQ79600 bridge daisy-chain UART protocol.
//
// The bridge multiplexes host commands and device responses over a single
// half-duplex byte stream with no length preamble, so framing is inferred
// from the initiator byte and from inter-byte timing. This package provides
// the per-byte decoder state machine, CRC validation, frame formatting, and
// anomaly detection used by the daisytap tooling.
package bqproto

// Initiator byte masks
const (
	FrameTypeMask    = 0x80 // bit 7: command (set) vs response (clear)
	ReqTypeMask      = 0x70 // bits 6..4: command request type
	ReqDataSizeMask  = 0x07 // bits 2..0: command data size - 1
	RespDataSizeMask = 0x7F // bits 6..0: response data size - 1
)

// Frame types
const (
	CommandFrame  = 0x80
	ResponseFrame = 0x00
)

// Command request types (initiator bits 6..4)
const (
	SingleDeviceRead  = 0x00
	SingleDeviceWrite = 0x10
	StackRead         = 0x20
	StackWrite        = 0x30
	BroadcastRead     = 0x40
	BroadcastWrite    = 0x50
	BroadcastWriteRev = 0x60
	ReservedRequest   = 0x70 // not assigned in the datasheet
)

// Field widths
const (
	RegisterAddressSize = 2
	CRCSize             = 2

	MaxCommandData  = 8   // 3 size bits
	MaxResponseData = 128 // 7 size bits
	MaxFrameSize    = 1 + 1 + RegisterAddressSize + MaxResponseData + CRCSize
)

// CRC-16-IBM configuration. The polynomial 0x8005 is applied bit-reflected,
// so the shift loop uses 0xA001. The trailer is transmitted LSB first.
const (
	crcPolynomial = 0xA001
	crcInitial    = 0xFFFF
)

// Address limits
const (
	MaxDeviceAddress   = 0x3F   // 64-device ring per bridge
	MaxRegisterAddress = 0x2FFF // documented register map ceiling
)

// Decoder states (internal)
const (
	stateIdle = iota
	stateDeviceAddr
	stateRegAddrHigh
	stateRegAddrLow
	stateLength
	stateData
	stateCRCLow
	stateCRCHigh
)

// Status classifies a decoded frame.
type Status int

// Frame status values
const (
	StatusOK Status = iota
	StatusCRCError
	StatusTimedOut
	StatusTruncated
	StatusUnknownCommand
)

// AddressingMode describes which devices a frame targets.
type AddressingMode int

// Addressing modes
const (
	AddrSingleDevice AddressingMode = iota
	AddrStack
	AddrBroadcast
)

// Direction describes whether a frame carries a read or a write.
type Direction int

// Frame directions
const (
	DirRead Direction = iota
	DirWrite
)
