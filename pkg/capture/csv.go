// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

// Package capture reads timestamped byte streams recorded by logic-analyzer
// exports, so captures can be replayed through the decoder deterministically.
package capture

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Sample is one observed byte with its arrival time.
type Sample struct {
	Byte byte
	Time time.Time
}

// CSVReader parses analyzer CSV exports with rows of the form
// "<seconds>,<value>", e.g. "0.000014750,0x90". The value may be hex
// (0x-prefixed) or decimal; extra trailing columns are ignored. A header
// row is skipped when present.
type CSVReader struct {
	r       *csv.Reader
	base    time.Time
	records int
}

// NewCSVReader creates a reader over a CSV capture export. Timestamps are
// offsets from the Unix epoch: only the deltas matter to the decoder.
func NewCSVReader(r io.Reader) *CSVReader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &CSVReader{
		r:    cr,
		base: time.Unix(0, 0).UTC(),
	}
}

// Next returns the next sample, or io.EOF when the capture is exhausted.
// Malformed rows are reported with their line number rather than skipped.
func (c *CSVReader) Next() (Sample, error) {
	for {
		record, err := c.r.Read()
		if err != nil {
			return Sample{}, err
		}
		c.records++

		// Physical line of the record, not its ordinal: encoding/csv
		// skips blank lines, so the two drift apart
		line, _ := c.r.FieldPos(0)

		if len(record) < 2 {
			return Sample{}, fmt.Errorf("line %d: expected at least 2 fields, got %d", line, len(record))
		}

		seconds, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			// A non-numeric first field in the first record is the header
			if c.records == 1 {
				continue
			}
			return Sample{}, fmt.Errorf("line %d: bad timestamp %q: %v", line, record[0], err)
		}

		value, err := parseByte(record[1])
		if err != nil {
			return Sample{}, fmt.Errorf("line %d: %v", line, err)
		}

		return Sample{
			Byte: value,
			Time: c.base.Add(time.Duration(seconds * float64(time.Second))),
		}, nil
	}
}

// ReadAll drains the capture into a slice.
func (c *CSVReader) ReadAll() ([]Sample, error) {
	var samples []Sample
	for {
		s, err := c.Next()
		if err == io.EOF {
			return samples, nil
		}
		if err != nil {
			return samples, err
		}
		samples = append(samples, s)
	}
}

// parseByte parses a hex (0x-prefixed) or decimal byte value
func parseByte(field string) (byte, error) {
	s := strings.TrimSpace(field)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 8)
	if err != nil {
		return 0, fmt.Errorf("bad byte value %q: %v", field, err)
	}
	return byte(v), nil
}
