// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

// Package framelog persists decoded frames as a compact CBOR stream.
// Records are appended one per frame and read back in order, so a decode
// session can be archived and re-examined without re-running the decoder.
package framelog

import (
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/openbms/daisytap/pkg/bqproto"
)

// Record is the serialized form of one decoded frame. Integer keys keep the
// stream small; Device and Register are -1 when the frame never carried or
// never completed them.
type Record struct {
	StartNs  int64  `cbor:"1,keyasint"`
	EndNs    int64  `cbor:"2,keyasint"`
	Status   int    `cbor:"3,keyasint"`
	Init     byte   `cbor:"4,keyasint"`
	Device   int    `cbor:"5,keyasint"`
	Register int    `cbor:"6,keyasint"`
	Data     []byte `cbor:"7,keyasint,omitempty"`
	CRC      uint16 `cbor:"8,keyasint"`
	CRCValid bool   `cbor:"9,keyasint"`
	Raw      []byte `cbor:"10,keyasint"`
}

// FromFrame converts a decoded frame into its log record.
func FromFrame(f *bqproto.Frame) Record {
	r := Record{
		StartNs:  f.StartTime().UnixNano(),
		EndNs:    f.EndTime().UnixNano(),
		Status:   int(f.Status()),
		Init:     f.InitByte(),
		Device:   -1,
		Register: -1,
		Data:     f.Data(),
		CRC:      f.CRC(),
		CRCValid: f.CRCValid(),
		Raw:      f.Raw(),
	}
	if addr, ok := f.DeviceAddress(); ok {
		r.Device = addr
	}
	if reg, ok := f.RegisterAddress(); ok {
		r.Register = reg
	}
	return r
}

// StartTime returns the record's first-byte arrival time.
func (r Record) StartTime() time.Time {
	return time.Unix(0, r.StartNs)
}

// EndTime returns the record's last-byte arrival time.
func (r Record) EndTime() time.Time {
	return time.Unix(0, r.EndNs)
}

// FrameStatus returns the record's status as the decoder enum.
func (r Record) FrameStatus() bqproto.Status {
	return bqproto.Status(r.Status)
}

// Writer appends frame records to a CBOR stream.
type Writer struct {
	enc *cbor.Encoder
}

// NewWriter creates a frame log writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: cbor.NewEncoder(w)}
}

// Write appends one decoded frame.
func (w *Writer) Write(f *bqproto.Frame) error {
	return w.enc.Encode(FromFrame(f))
}

// Reader reads frame records back in order.
type Reader struct {
	dec *cbor.Decoder
}

// NewReader creates a frame log reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

// Next returns the next record, or io.EOF when the log is exhausted.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ReadAll drains the log into a slice.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}
