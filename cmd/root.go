// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 OpenBMS

package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Decoder configuration
	frameTimeoutMs float64
)

var rootCmd = &cobra.Command{
	Use:   "daisytap",
	Short: "BQ79600 Daisy-Chain Protocol Analyzer",
	Long: `Daisytap - A CLI tool for decoding the TI BQ79600 bridge daisy-chain UART
protocol from live taps and recorded captures.

Provides commands for live frame sniffing, deterministic capture replay with
pcap/frame-log export, error monitoring, and connectivity probing.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 1000000]
  WebSocket: --url ws://host/path [--username user]
  Capture:   replay <capture.csv> (no connection needed)

For WebSocket authentication, the password is read from the DAISYTAP_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version: "1.2.0",
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 1000000, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Decoder flags
	rootCmd.PersistentFlags().Float64Var(&frameTimeoutMs, "timeout-ms", 10, "Inter-byte frame timeout in milliseconds")
}

// frameTimeout converts the --timeout-ms flag to a duration. Validation
// happens in bqproto.NewDecoder, once, at command start.
func frameTimeout() time.Duration {
	return time.Duration(frameTimeoutMs * float64(time.Millisecond))
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
