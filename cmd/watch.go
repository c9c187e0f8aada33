// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package cmd

import (
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/openbms/daisytap/pkg/bqproto"
	"github.com/spf13/cobra"
)

var (
	showAll       bool
	statsInterval int
	useTUI        bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor the bus with live statistics and error highlighting",
	Long: `Track frame anomalies and bus health with live statistics.

This command decodes every frame on the tap and detects:
  - CRC errors and inter-byte timeouts
  - Unknown initiator bytes and truncated frames
  - Out-of-range device or register addresses
  - Statistics and trends (frame rate, error rate, valid percentage)

By default, only anomalies are displayed. Use --show-all to display valid
frames too.

Frames are validated in real-time, with errors highlighted immediately and
periodic statistics summaries displayed at configurable intervals.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&showAll, "show-all", false, "Show all frames (not just anomalies)")
	watchCmd.Flags().IntVar(&statsInterval, "stats-interval", 10, "Statistics update interval (seconds)")
	watchCmd.Flags().BoolVar(&useTUI, "tui", true, "Use terminal UI (false for text mode)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	if useTUI {
		return runWatchTUI(conn, connInfo)
	}
	return runWatchText(conn, connInfo)
}

// runWatchTUI runs bus monitoring in TUI mode
func runWatchTUI(conn Connection, connInfo string) error {
	decoder, err := bqproto.NewDecoder(frameTimeout())
	if err != nil {
		return err
	}
	synchronized := false
	anomalousBeforeSync := 0

	// Create TUI program
	m := initialModel(connInfo, statsInterval, showAll)
	p := tea.NewProgram(m)

	// Reader goroutine
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				if err == ErrConnectionClosed {
					p.Send(connClosedMsg{err: nil})
					return
				}
				p.Send(connClosedMsg{err: err})
				return
			}

			now := time.Now()
			for i := 0; i < n; i++ {
				for _, frame := range decoder.Feed(buf[i], now) {
					if frame.Status() != bqproto.StatusOK && !synchronized {
						// Not synced yet, count anomalous frames quietly
						anomalousBeforeSync++
						continue
					}

					if !synchronized {
						// First valid frame, the tap is aligned with the bus
						synchronized = true
						p.Send(syncMsg{anomalousFrames: anomalousBeforeSync})
					}

					p.Send(frameMsg{
						frame:            frame,
						validationErrors: bqproto.ValidateFrame(frame),
					})
				}
			}
		}
	}()

	// Run TUI
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}

	return nil
}

// runWatchText runs bus monitoring in text mode
func runWatchText(conn Connection, connInfo string) error {
	fmt.Printf("Daisytap - Bus Watch\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Statistics interval: %d seconds\n", statsInterval)
	if showAll {
		fmt.Printf("Mode: All frames\n")
	} else {
		fmt.Printf("Mode: Errors only\n")
	}
	fmt.Printf("Press Ctrl+C to exit\n\n")

	decoder, err := bqproto.NewDecoder(frameTimeout())
	if err != nil {
		return err
	}
	stats := bqproto.NewStatistics()

	// Sync tracking - ignore anomalous frames until first valid frame
	synchronized := false
	anomalousBeforeSync := 0

	// Statistics ticker
	statsTicker := time.NewTicker(time.Duration(statsInterval) * time.Second)
	defer statsTicker.Stop()

	// Channel for non-blocking reads
	readBuf := make(chan []byte, 10)
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				if err == ErrConnectionClosed {
					close(readBuf)
					return
				}
				log.Printf("Read error: %v", err)
				continue
			}
			data := make([]byte, n)
			copy(data, buf[:n])
			readBuf <- data
		}
	}()

	for {
		select {
		case data, ok := <-readBuf:
			if !ok {
				fmt.Printf("\nConnection closed\n%s", stats.String())
				return nil
			}
			now := time.Now()
			for _, b := range data {
				for _, frame := range decoder.Feed(b, now) {
					if frame.Status() != bqproto.StatusOK && !synchronized {
						anomalousBeforeSync++
						continue
					}

					if !synchronized {
						synchronized = true
						if anomalousBeforeSync > 0 {
							fmt.Printf("[SYNC] Synchronized after %d anomalous frames\n\n", anomalousBeforeSync)
						} else {
							fmt.Printf("[SYNC] Synchronized\n\n")
						}
					}

					validationErrors := bqproto.ValidateFrame(frame)
					stats.Update(frame, validationErrors)

					if frame.Status() != bqproto.StatusOK {
						printAnomalousFrame(frame)
					} else if len(validationErrors) > 0 {
						printValidationErrors(frame, validationErrors)
					} else if showAll {
						fmt.Print(bqproto.FormatFrame(frame))
					}
				}
			}

		case <-statsTicker.C:
			// Print statistics
			fmt.Println()
			fmt.Print(stats.String())
			fmt.Println()
		}
	}
}

// printAnomalousFrame prints a non-OK frame in highlighted format
func printAnomalousFrame(frame *bqproto.Frame) {
	timestamp := frame.StartTime().Format("15:04:05.000")
	fmt.Printf("[%s] \033[1;31m%s:\033[0m %s\n", timestamp,
		frame.Status().String(), describeAnomaly(frame))
	fmt.Printf("  Raw: %s\n", bqproto.FormatHex(frame.Raw()))
	fmt.Printf("  >>> FRAME REJECTED <<<\n\n")
}

// printValidationErrors prints validation errors for a CRC-valid frame
func printValidationErrors(frame *bqproto.Frame, errors []bqproto.ValidationError) {
	timestamp := frame.StartTime().Format("15:04:05.000")

	fmt.Printf("[%s] \033[1;33mVALIDATION ERROR:\033[0m %s (0x%02X)\n",
		timestamp, frameName(frame), frame.InitByte())
	fmt.Printf("  CRC: \033[1;32mOK\033[0m\n")

	for i, err := range errors {
		switch err.Type {
		case bqproto.ANOMALY_ADDRESS_RANGE:
			fmt.Printf("  Issue %d: \033[1;31m%s\033[0m\n", i+1, err.Message)
			if addr, ok := err.Details["address"].(int); ok {
				fmt.Printf("    address=0x%02X (max 0x%02X)\n", addr, bqproto.MaxDeviceAddress)
			}

		case bqproto.ANOMALY_REGISTER_RANGE:
			fmt.Printf("  Issue %d: \033[1;31m%s\033[0m\n", i+1, err.Message)
			if reg, ok := err.Details["register"].(int); ok {
				fmt.Printf("    register=0x%04X (max 0x%04X)\n", reg, bqproto.MaxRegisterAddress)
			}

		case bqproto.ANOMALY_READ_SIZE:
			fmt.Printf("  Issue %d: \033[1;33m%s\033[0m\n", i+1, err.Message)
			if requested, ok := err.Details["requested"].(int); ok {
				fmt.Printf("    requested=%d (max %d)\n", requested, bqproto.MaxResponseData)
			}

		case bqproto.ANOMALY_RESPONSE_LENGTH:
			fmt.Printf("  Issue %d: \033[1;33m%s\033[0m\n", i+1, err.Message)
			if length, ok := err.Details["length"].(int); ok {
				fmt.Printf("    length=%d (max %d)\n", length, bqproto.MaxResponseData)
			}

		default:
			fmt.Printf("  Issue %d: %s\n", i+1, err.Message)
		}
	}

	fmt.Printf("  >>> FRAME FLAGGED <<<\n\n")
}
