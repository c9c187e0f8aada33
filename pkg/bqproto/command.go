// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package bqproto

// Descriptor describes the wire shape of one command family. Descriptors are
// static: the table below is built once and never mutated, and Lookup hands
// out pointers into it.
type Descriptor struct {
	// ReqType is the request-type value (initiator bits 6..4). Meaningful
	// for command descriptors only: SingleDeviceRead shares the value 0x00
	// with ResponseFrame, so response classification uses Response instead.
	ReqType byte

	// Response marks the response descriptor. Command descriptors leave it
	// unset.
	Response bool

	Name            string
	Addressing      AddressingMode
	Direction       Direction
	ExpectsResponse bool

	// HasDeviceAddress is true when a device address byte follows the
	// initiator (single-device commands and every response).
	HasDeviceAddress bool

	// HasLengthField is true when the data size arrives in a discrete
	// length byte after the register address rather than in the initiator.
	// No documented UART command family uses this; the bridge's SPI-slave
	// variants do, and the assembler supports it for them.
	HasLengthField bool

	// DataSizeMask extracts the size bits from the initiator byte; the
	// field data size is the masked value plus one. Ignored when
	// HasLengthField is set.
	DataSizeMask byte
}

// IsResponse reports whether the descriptor describes device responses.
func (d *Descriptor) IsResponse() bool {
	return d.Response
}

// DataSize returns the data field size encoded in an initiator byte.
func (d *Descriptor) DataSize(initByte byte) int {
	return int(initByte&d.DataSizeMask) + 1
}

// commandTable is indexed by request type >> 4. The reserved slot stays nil
// so an unassigned request type is a lookup miss, not a decode fault.
var commandTable = [8]*Descriptor{
	SingleDeviceRead >> 4: {
		ReqType:          SingleDeviceRead,
		Name:             "SINGLE_DEVICE_READ",
		Addressing:       AddrSingleDevice,
		Direction:        DirRead,
		ExpectsResponse:  true,
		HasDeviceAddress: true,
		DataSizeMask:     ReqDataSizeMask,
	},
	SingleDeviceWrite >> 4: {
		ReqType:          SingleDeviceWrite,
		Name:             "SINGLE_DEVICE_WRITE",
		Addressing:       AddrSingleDevice,
		Direction:        DirWrite,
		HasDeviceAddress: true,
		DataSizeMask:     ReqDataSizeMask,
	},
	StackRead >> 4: {
		ReqType:         StackRead,
		Name:            "STACK_READ",
		Addressing:      AddrStack,
		Direction:       DirRead,
		ExpectsResponse: true,
		DataSizeMask:    ReqDataSizeMask,
	},
	StackWrite >> 4: {
		ReqType:      StackWrite,
		Name:         "STACK_WRITE",
		Addressing:   AddrStack,
		Direction:    DirWrite,
		DataSizeMask: ReqDataSizeMask,
	},
	BroadcastRead >> 4: {
		ReqType:         BroadcastRead,
		Name:            "BROADCAST_READ",
		Addressing:      AddrBroadcast,
		Direction:       DirRead,
		ExpectsResponse: true,
		DataSizeMask:    ReqDataSizeMask,
	},
	BroadcastWrite >> 4: {
		ReqType:      BroadcastWrite,
		Name:         "BROADCAST_WRITE",
		Addressing:   AddrBroadcast,
		Direction:    DirWrite,
		DataSizeMask: ReqDataSizeMask,
	},
	BroadcastWriteRev >> 4: {
		ReqType:      BroadcastWriteRev,
		Name:         "BROADCAST_WRITE_REVERSE",
		Addressing:   AddrBroadcast,
		Direction:    DirWrite,
		DataSizeMask: ReqDataSizeMask,
	},
}

// responseDescriptor covers every response frame: the initiator carries no
// request type, only the 7-bit data size. Responses always echo the single
// responding device's address.
var responseDescriptor = Descriptor{
	ReqType:          ResponseFrame,
	Response:         true,
	Name:             "RESPONSE",
	Addressing:       AddrSingleDevice,
	Direction:        DirRead,
	HasDeviceAddress: true,
	DataSizeMask:     RespDataSizeMask,
}

// Lookup resolves an initiator byte to its frame-shape descriptor.
// A miss (reserved request type) is a normal outcome: the assembler reports
// it as an unknown command and resynchronizes on the next byte.
func Lookup(initByte byte) (*Descriptor, bool) {
	if initByte&FrameTypeMask == ResponseFrame {
		return &responseDescriptor, true
	}
	d := commandTable[(initByte&ReqTypeMask)>>4]
	if d == nil {
		return nil, false
	}
	return d, true
}
