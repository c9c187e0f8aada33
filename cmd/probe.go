// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 OpenBMS

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/openbms/daisytap/pkg/bqproto"
	"github.com/spf13/cobra"
)

var (
	probeTimeout int
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Test connection by waiting for a CRC-valid frame",
	Long: `Wait for a CRC-valid BQ79600 frame on the connection until timeout.

This command connects to a serial port or WebSocket and waits for any
complete frame that passes its CRC check. Anomalous frames (CRC errors,
timeouts, unknown initiators) are counted but do not satisfy the probe.

Exit codes:
  0 - CRC-valid frame received before timeout
  1 - Timeout reached without receiving a valid frame
  2 - Connection error

Useful for verifying a tap is wired to a live daisy chain.`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().IntVar(&probeTimeout, "timeout", 10, "Timeout in seconds to wait for a frame")
}

func runProbe(cmd *cobra.Command, args []string) error {
	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Daisytap - Probe\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n", probeTimeout)
	fmt.Printf("Waiting for CRC-valid frame...\n\n")

	decoder, err := bqproto.NewDecoder(frameTimeout())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decoder error: %v\n", err)
		os.Exit(2)
	}
	buf := make([]byte, 256)

	// Channel for frame reception
	frameChan := make(chan *bqproto.Frame, 1)
	errChan := make(chan error, 1)

	// Reader goroutine
	go func() {
		anomalous := 0
		for {
			n, err := conn.Read(buf)
			if err != nil {
				errChan <- err
				return
			}

			now := time.Now()
			for i := 0; i < n; i++ {
				for _, frame := range decoder.Feed(buf[i], now) {
					if frame.Status() != bqproto.StatusOK {
						// Count anomalous frames while hunting for sync
						anomalous++
						continue
					}
					if anomalous > 0 {
						fmt.Printf("(skipped %d anomalous frames before sync)\n", anomalous)
					}
					frameChan <- frame
					return
				}
			}
		}
	}()

	// Wait for frame or timeout
	select {
	case frame := <-frameChan:
		fmt.Printf("SUCCESS: Received CRC-valid frame\n")
		fmt.Printf("  Type: %s (0x%02X)\n", frame.Descriptor().Name, frame.InitByte())
		if addr, ok := frame.DeviceAddress(); ok {
			fmt.Printf("  Device: 0x%02X\n", addr)
		}
		if reg, ok := frame.RegisterAddress(); ok {
			fmt.Printf("  Register: 0x%04X\n", reg)
		}
		fmt.Printf("  Data: %d bytes\n", len(frame.Data()))
		fmt.Printf("  CRC: 0x%04X\n", frame.CRC())
		os.Exit(0)

	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
		os.Exit(2)

	case <-time.After(time.Duration(probeTimeout) * time.Second):
		fmt.Fprintf(os.Stderr, "TIMEOUT: No CRC-valid frame received within %d seconds\n", probeTimeout)
		os.Exit(1)
	}

	return nil
}
