// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package bqproto

import "fmt"

// AnomalyType represents different types of frame anomalies
type AnomalyType int

const (
	ANOMALY_ADDRESS_RANGE AnomalyType = iota
	ANOMALY_REGISTER_RANGE
	ANOMALY_READ_SIZE
	ANOMALY_RESPONSE_LENGTH
)

// ValidationError represents a frame validation failure
type ValidationError struct {
	Type    AnomalyType
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidateFrame inspects a structurally complete frame for values the
// datasheet rules out: addresses beyond the 64-device ring, register
// addresses past the documented map, read requests asking for more than a
// response can carry. CRC failures and framing faults are frame statuses,
// not validation errors, so only OK and CRC_ERROR frames are worth checking.
// Returns a slice of validation errors (empty if the frame is clean).
func ValidateFrame(f *Frame) []ValidationError {
	errors := []ValidationError{}

	if f.Status() != StatusOK && f.Status() != StatusCRCError {
		return errors
	}

	if addr, ok := f.DeviceAddress(); ok && addr > MaxDeviceAddress {
		errors = append(errors, ValidationError{
			Type:    ANOMALY_ADDRESS_RANGE,
			Message: fmt.Sprintf("Device address 0x%02X beyond ring maximum 0x%02X", addr, MaxDeviceAddress),
			Details: map[string]interface{}{"address": addr, "max": MaxDeviceAddress},
		})
	}

	if reg, ok := f.RegisterAddress(); ok && reg > MaxRegisterAddress {
		errors = append(errors, ValidationError{
			Type:    ANOMALY_REGISTER_RANGE,
			Message: fmt.Sprintf("Register address 0x%04X beyond documented map 0x%04X", reg, MaxRegisterAddress),
			Details: map[string]interface{}{"register": reg, "max": MaxRegisterAddress},
		})
	}

	errors = append(errors, validateReadSize(f)...)
	errors = append(errors, validateResponseLength(f)...)

	return errors
}

// validateReadSize checks read commands: their single data byte encodes the
// requested return size minus one, which must fit in a response data field.
func validateReadSize(f *Frame) []ValidationError {
	d := f.Descriptor()
	if d == nil || d.IsResponse() || d.Direction != DirRead {
		return nil
	}

	errors := []ValidationError{}

	if len(f.Data()) != 1 {
		errors = append(errors, ValidationError{
			Type:    ANOMALY_READ_SIZE,
			Message: fmt.Sprintf("%s carries %d data bytes, expected 1 (return size)", d.Name, len(f.Data())),
			Details: map[string]interface{}{"length": len(f.Data()), "expected": 1},
		})
		return errors
	}

	requested := int(f.Data()[0]) + 1
	if requested > MaxResponseData {
		errors = append(errors, ValidationError{
			Type:    ANOMALY_READ_SIZE,
			Message: fmt.Sprintf("%s requests %d return bytes, response maximum is %d", d.Name, requested, MaxResponseData),
			Details: map[string]interface{}{"requested": requested, "max": MaxResponseData},
		})
	}
	return errors
}

// validateResponseLength checks that a response's data field stays within
// the 128-byte wire maximum. The initiator can't encode more, so a longer
// field means the assembler and the table disagree.
func validateResponseLength(f *Frame) []ValidationError {
	d := f.Descriptor()
	if d == nil || !d.IsResponse() {
		return nil
	}
	if len(f.Data()) <= MaxResponseData {
		return nil
	}
	return []ValidationError{{
		Type:    ANOMALY_RESPONSE_LENGTH,
		Message: fmt.Sprintf("Response data field %d bytes exceeds wire maximum %d", len(f.Data()), MaxResponseData),
		Details: map[string]interface{}{"length": len(f.Data()), "max": MaxResponseData},
	}}
}
