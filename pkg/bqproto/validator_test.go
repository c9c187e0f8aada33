// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package bqproto

import (
	"testing"
	"time"
)

// decodeOne decodes a single complete frame for validator tests
func decodeOne(t *testing.T, input []byte) *Frame {
	t.Helper()
	d := newTestDecoder(t)
	frames := feedSpaced(d, input, 0, time.Millisecond)
	if len(frames) != 1 {
		t.Fatalf("Expected 1 frame, got %d", len(frames))
	}
	return frames[0]
}

func TestValidateFrame_Clean(t *testing.T) {
	f := decodeOne(t, singleDeviceWriteFrame(0x05, 0x0010, []byte{0xAA}))
	if errs := ValidateFrame(f); len(errs) != 0 {
		t.Errorf("Expected no validation errors, got %v", errs)
	}
}

func TestValidateFrame_AddressOutOfRange(t *testing.T) {
	f := decodeOne(t, singleDeviceWriteFrame(0x7E, 0x0010, []byte{0xAA}))

	errs := ValidateFrame(f)
	if len(errs) != 1 {
		t.Fatalf("Expected 1 validation error, got %d", len(errs))
	}
	if errs[0].Type != ANOMALY_ADDRESS_RANGE {
		t.Errorf("Expected ANOMALY_ADDRESS_RANGE, got %v", errs[0].Type)
	}
	if addr, ok := errs[0].Details["address"].(int); !ok || addr != 0x7E {
		t.Errorf("Details should carry the offending address, got %v", errs[0].Details)
	}
}

func TestValidateFrame_RegisterOutOfRange(t *testing.T) {
	f := decodeOne(t, singleDeviceWriteFrame(0x05, 0x7FFF, []byte{0xAA}))

	errs := ValidateFrame(f)
	if len(errs) != 1 || errs[0].Type != ANOMALY_REGISTER_RANGE {
		t.Fatalf("Expected one ANOMALY_REGISTER_RANGE, got %v", errs)
	}
}

func TestValidateFrame_ReadSize(t *testing.T) {
	tests := []struct {
		name      string
		input     []byte
		anomalies int
	}{
		{"read requesting 1 byte", stackReadFrame(0x0200, 1), 0},
		{"read requesting maximum", stackReadFrame(0x0200, MaxResponseData), 0},
		{"single-device read requesting 1 byte", singleDeviceReadFrame(0x05, 0x0010, 1), 0},
		{
			// 0xFF in the return-size byte asks for 256 bytes, double the
			// wire maximum a response can carry
			name:      "single-device read requesting 256 bytes",
			input:     singleDeviceReadFrame(0x05, 0x0010, 256),
			anomalies: 1,
		},
		{
			// A read whose single data byte is fine structurally but whose
			// initiator declares more than one data byte
			name: "read with oversized data field",
			input: AppendCRC([]byte{
				CommandFrame | StackRead | 1, 0x02, 0x00, 0x01, 0x00,
			}),
			anomalies: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := decodeOne(t, tt.input)
			errs := ValidateFrame(f)
			if len(errs) != tt.anomalies {
				t.Errorf("Expected %d anomalies, got %v", tt.anomalies, errs)
			}
			for _, e := range errs {
				if e.Type != ANOMALY_READ_SIZE {
					t.Errorf("Expected ANOMALY_READ_SIZE, got %v", e.Type)
				}
			}
		})
	}
}

func TestValidateFrame_CRCErrorStillChecked(t *testing.T) {
	input := singleDeviceWriteFrame(0x7E, 0x0010, []byte{0xAA})
	input[4] ^= 0xFF

	f := decodeOne(t, input)
	if f.Status() != StatusCRCError {
		t.Fatalf("Expected StatusCRCError, got %v", f.Status())
	}
	if errs := ValidateFrame(f); len(errs) != 1 {
		t.Errorf("CRC-error frames still get field validation, got %v", errs)
	}
}

func TestValidateFrame_SkipsPartialFrames(t *testing.T) {
	d := newTestDecoder(t)
	d.Feed(0x90, at(0))
	d.Feed(0x7E, at(time.Millisecond)) // out-of-range address, but partial

	f := d.Flush()
	if f == nil || f.Status() != StatusTruncated {
		t.Fatal("Expected a truncated frame")
	}
	if errs := ValidateFrame(f); len(errs) != 0 {
		t.Errorf("Partial frames are not validated, got %v", errs)
	}
}

func TestValidationError_Error(t *testing.T) {
	e := &ValidationError{Message: "boom"}
	if e.Error() != "boom" {
		t.Errorf("Error() should return the message, got %q", e.Error())
	}
}
