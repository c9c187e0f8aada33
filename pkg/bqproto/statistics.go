// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package bqproto

import (
	"fmt"
	"time"
)

// Statistics tracks frame counts and error rates for a decode session
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames     uint64
	ValidFrames     uint64
	CommandFrames   uint64
	ResponseFrames  uint64
	CRCErrors       uint64
	Timeouts        uint64
	Truncated       uint64
	UnknownCommands uint64
	AnomalousFrames uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update updates statistics for an emitted frame and its validation errors
func (s *Statistics) Update(frame *Frame, validationErrors []ValidationError) {
	if frame == nil {
		return
	}
	s.TotalFrames++

	if d := frame.Descriptor(); d != nil {
		if d.IsResponse() {
			s.ResponseFrames++
		} else {
			s.CommandFrames++
		}
	}

	switch frame.Status() {
	case StatusOK:
		if len(validationErrors) > 0 {
			s.AnomalousFrames++
		} else {
			s.ValidFrames++
		}
	case StatusCRCError:
		s.CRCErrors++
	case StatusTimedOut:
		s.Timeouts++
	case StatusTruncated:
		s.Truncated++
	case StatusUnknownCommand:
		s.UnknownCommands++
	}

	s.LastUpdateTime = time.Now()
}

// ErrorCount returns the total number of non-OK outcomes
func (s *Statistics) ErrorCount() uint64 {
	return s.CRCErrors + s.Timeouts + s.Truncated + s.UnknownCommands + s.AnomalousFrames
}

// CalculateRates calculates frame and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		s.ErrorRate = float64(s.ErrorCount()) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	var validPercent float64
	if s.TotalFrames > 0 {
		validPercent = float64(s.ValidFrames) * 100.0 / float64(s.TotalFrames)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Valid Frames:    %8d (%.1f%%)\n", s.ValidFrames, validPercent)
	result += fmt.Sprintf("Commands:        %8d\n", s.CommandFrames)
	result += fmt.Sprintf("Responses:       %8d\n", s.ResponseFrames)

	if s.CRCErrors > 0 {
		result += fmt.Sprintf("CRC Errors:      %8d\n", s.CRCErrors)
	}
	if s.Timeouts > 0 {
		result += fmt.Sprintf("Timeouts:        %8d\n", s.Timeouts)
	}
	if s.Truncated > 0 {
		result += fmt.Sprintf("Truncated:       %8d\n", s.Truncated)
	}
	if s.UnknownCommands > 0 {
		result += fmt.Sprintf("Unknown Cmds:    %8d\n", s.UnknownCommands)
	}
	if s.AnomalousFrames > 0 {
		result += fmt.Sprintf("Anomalous:       %8d\n", s.AnomalousFrames)
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	now := time.Now()
	*s = Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}
