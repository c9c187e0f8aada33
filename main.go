// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS
//
// Daisytap - BQ79600 Daisy-Chain Protocol Analyzer
//
// A CLI tool for tapping, decoding, and analyzing BQ79600 battery-monitor
// daisy-chain traffic in human-readable format.

package main

import (
	"os"

	"github.com/openbms/daisytap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
