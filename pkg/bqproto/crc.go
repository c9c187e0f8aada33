// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package bqproto

// CalculateCRC computes the CRC-16-IBM checksum for the given data
func CalculateCRC(data []byte) uint16 {
	crc := uint16(crcInitial)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&0x0001 != 0 {
				crc = (crc >> 1) ^ crcPolynomial
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// CheckCRC validates a complete frame including its 2-byte trailer.
// The trailer is little-endian; the checksum covers every preceding byte.
func CheckCRC(frame []byte) bool {
	if len(frame) < CRCSize+1 {
		return false
	}
	body := frame[:len(frame)-CRCSize]
	received := uint16(frame[len(frame)-2]) | uint16(frame[len(frame)-1])<<8
	return CalculateCRC(body) == received
}

// AppendCRC appends the little-endian CRC-16-IBM trailer to body.
// Used by tests and capture tooling to build byte-correct frames.
func AppendCRC(body []byte) []byte {
	crc := CalculateCRC(body)
	return append(body, byte(crc), byte(crc>>8))
}
