// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 OpenBMS

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/openbms/daisytap/pkg/bqproto"
	"github.com/spf13/cobra"
)

var sniffCmd = &cobra.Command{
	Use:   "sniff",
	Short: "Decode and display bus frames in human-readable format",
	Long: `Continuously decode and display BQ79600 daisy-chain frames as they arrive.

Each frame is shown with its timestamp, command or response type, device and
register addresses where present, payload data, and CRC status. Frames that
fail CRC, time out mid-reception, or start with an unknown initiator byte are
printed with their anomaly status rather than dropped.

Supports both serial and WebSocket connections.`,
	RunE: runSniff,
}

func init() {
	rootCmd.AddCommand(sniffCmd)
}

func runSniff(cmd *cobra.Command, args []string) error {
	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Daisytap - Frame Log\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Frame timeout: %v\n", frameTimeout())
	fmt.Printf("Press Ctrl+C to exit\n\n")

	decoder, err := bqproto.NewDecoder(frameTimeout())
	if err != nil {
		return err
	}
	buf := make([]byte, 256)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			// For WebSocket connections, a read error usually means
			// the connection is permanently closed - exit gracefully
			if err == ErrConnectionClosed {
				if f := decoder.Flush(); f != nil {
					fmt.Print(bqproto.FormatFrame(f))
				}
				log.Printf("Connection closed")
				return nil
			}
			log.Printf("Read error: %v", err)
			continue
		}

		now := time.Now()
		for i := 0; i < n; i++ {
			for _, frame := range decoder.Feed(buf[i], now) {
				fmt.Print(bqproto.FormatFrame(frame))
			}
		}
	}
}
