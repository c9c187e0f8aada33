// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package bqproto

import (
	"fmt"
	"strings"
)

// FormatFrame formats a decoded frame into a human-readable string
func FormatFrame(f *Frame) string {
	timestamp := f.StartTime().Format("15:04:05.000000")

	switch f.Status() {
	case StatusUnknownCommand:
		return fmt.Sprintf("[%s] UNKNOWN_COMMAND init=0x%02X\n", timestamp, f.InitByte())

	case StatusTimedOut, StatusTruncated:
		result := fmt.Sprintf("[%s] %s %s after %d byte(s)\n",
			timestamp, f.Status(), describeFrame(f), len(f.Raw()))
		if len(f.Raw()) > 0 {
			result += fmt.Sprintf("  Raw: %s\n", FormatHex(f.Raw()))
		}
		return result
	}

	result := fmt.Sprintf("[%s] %s", timestamp, describeFrame(f))

	if addr, ok := f.DeviceAddress(); ok {
		result += fmt.Sprintf(" Device: 0x%02X", addr)
	}
	if reg, ok := f.RegisterAddress(); ok {
		result += fmt.Sprintf(" Register: 0x%04X", reg)
	}
	result += fmt.Sprintf(" Data: %s", FormatHex(f.Data()))

	if f.Status() == StatusCRCError {
		result += fmt.Sprintf(" [CRC ERROR: got 0x%04X, expected 0x%04X]",
			f.CRC(), CalculateCRC(f.Raw()[:len(f.Raw())-CRCSize]))
	}
	result += "\n"
	return result
}

// describeFrame returns the frame-type label: the command family name for
// commands, "Response" for responses, "(no descriptor)" for bytes that never
// matched one.
func describeFrame(f *Frame) string {
	d := f.Descriptor()
	if d == nil {
		return "(no descriptor)"
	}
	if d.IsResponse() {
		return "Response"
	}
	return "Command - " + d.Name
}

// FormatStatus returns the human-readable name for a frame status
func FormatStatus(s Status) string {
	return s.String()
}

// FormatHex renders bytes as space-separated 0xNN values
func FormatHex(data []byte) string {
	if len(data) == 0 {
		return "(none)"
	}
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return strings.Join(parts, " ")
}
