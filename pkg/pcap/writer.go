// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

// Package pcap writes decoded frames into libpcap capture files so a replay
// session can be inspected in Wireshark. Frames go out on DLT_USER0 with
// nanosecond timestamps, one packet per protocol frame.
package pcap

import (
	"encoding/binary"
	"io"
	"time"
)

const (
	magicNanos   uint32 = 0xa1b23c4d // nanosecond-resolution pcap
	versionMajor uint16 = 2
	versionMinor uint16 = 4
	snapLen      uint32 = 65535
	dltUser0     uint32 = 147
)

// Writer writes frames in libpcap format.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer and writes the 24-byte pcap global header.
func NewWriter(w io.Writer) (*Writer, error) {
	hdr := struct {
		Magic        uint32
		VersionMajor uint16
		VersionMinor uint16
		ThisZone     int32
		SigFigs      uint32
		SnapLen      uint32
		LinkType     uint32
	}{
		Magic:        magicNanos,
		VersionMajor: versionMajor,
		VersionMinor: versionMinor,
		SnapLen:      snapLen,
		LinkType:     dltUser0,
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	return &Writer{w: w}, nil
}

// WriteFrame writes one frame's raw bytes as a single packet. The timestamp
// is the frame's first-byte arrival time.
func (pw *Writer) WriteFrame(ts time.Time, raw []byte) error {
	length := uint32(len(raw))
	hdr := struct {
		TsSec   uint32
		TsNsec  uint32
		CapLen  uint32
		OrigLen uint32
	}{
		TsSec:   uint32(ts.Unix()),
		TsNsec:  uint32(ts.Nanosecond()),
		CapLen:  length,
		OrigLen: length,
	}
	if err := binary.Write(pw.w, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	_, err := pw.w.Write(raw)
	return err
}
