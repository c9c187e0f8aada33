// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package bqproto

import "testing"

func TestLookup_CommandFamilies(t *testing.T) {
	tests := []struct {
		name             string
		initByte         byte
		reqType          byte
		addressing       AddressingMode
		direction        Direction
		hasDeviceAddress bool
		expectsResponse  bool
	}{
		{"single device read", 0x80, SingleDeviceRead, AddrSingleDevice, DirRead, true, true},
		{"single device write", 0x90, SingleDeviceWrite, AddrSingleDevice, DirWrite, true, false},
		{"stack read", 0xA0, StackRead, AddrStack, DirRead, false, true},
		{"stack write", 0xB0, StackWrite, AddrStack, DirWrite, false, false},
		{"broadcast read", 0xC0, BroadcastRead, AddrBroadcast, DirRead, false, true},
		{"broadcast write", 0xD0, BroadcastWrite, AddrBroadcast, DirWrite, false, false},
		{"broadcast write reverse", 0xE0, BroadcastWriteRev, AddrBroadcast, DirWrite, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Lookup(tt.initByte)
			if !ok {
				t.Fatalf("Lookup(0x%02X) should match", tt.initByte)
			}
			if d.ReqType != tt.reqType {
				t.Errorf("ReqType: expected 0x%02X, got 0x%02X", tt.reqType, d.ReqType)
			}
			if d.Addressing != tt.addressing {
				t.Errorf("Addressing: expected %v, got %v", tt.addressing, d.Addressing)
			}
			if d.Direction != tt.direction {
				t.Errorf("Direction: expected %v, got %v", tt.direction, d.Direction)
			}
			if d.HasDeviceAddress != tt.hasDeviceAddress {
				t.Errorf("HasDeviceAddress: expected %v", tt.hasDeviceAddress)
			}
			if d.ExpectsResponse != tt.expectsResponse {
				t.Errorf("ExpectsResponse: expected %v", tt.expectsResponse)
			}
			if d.IsResponse() {
				t.Error("command descriptor should not report IsResponse")
			}
		})
	}
}

func TestLookup_SizeBitsIgnored(t *testing.T) {
	// Every size-bit value of the same family resolves to the same descriptor
	base, _ := Lookup(0x90)
	for size := byte(0); size <= 7; size++ {
		d, ok := Lookup(0x90 | size)
		if !ok || d != base {
			t.Errorf("Lookup(0x%02X) should share the 0x90 descriptor", 0x90|size)
		}
	}
}

func TestLookup_ReservedRequestType(t *testing.T) {
	for size := byte(0); size <= 7; size++ {
		initByte := byte(FrameTypeMask|ReservedRequest) | size
		if _, ok := Lookup(initByte); ok {
			t.Errorf("Lookup(0x%02X) should miss: request type 0x70 is reserved", initByte)
		}
	}
}

func TestLookup_ResponseFrames(t *testing.T) {
	for _, initByte := range []byte{0x00, 0x01, 0x42, 0x7F} {
		d, ok := Lookup(initByte)
		if !ok {
			t.Fatalf("Lookup(0x%02X) should match the response descriptor", initByte)
		}
		if !d.IsResponse() {
			t.Errorf("Lookup(0x%02X) should be a response descriptor", initByte)
		}
		if !d.HasDeviceAddress {
			t.Error("responses always carry the responding device's address")
		}
	}
}

func TestDescriptor_DataSize(t *testing.T) {
	tests := []struct {
		name     string
		initByte byte
		expected int
	}{
		{"command minimum", 0x90, 1},
		{"command maximum", 0x97, 8},
		{"command ignores bit 3", 0x98, 1},
		{"response minimum", 0x00, 1},
		{"response maximum", 0x7F, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Lookup(tt.initByte)
			if !ok {
				t.Fatalf("Lookup(0x%02X) should match", tt.initByte)
			}
			if got := d.DataSize(tt.initByte); got != tt.expected {
				t.Errorf("DataSize(0x%02X): expected %d, got %d", tt.initByte, tt.expected, got)
			}
		})
	}
}
