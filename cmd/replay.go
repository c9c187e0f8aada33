// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 OpenBMS

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/openbms/daisytap/pkg/bqproto"
	"github.com/openbms/daisytap/pkg/capture"
	"github.com/openbms/daisytap/pkg/framelog"
	"github.com/openbms/daisytap/pkg/pcap"
	"github.com/spf13/cobra"
)

var (
	replayPcapPath     string
	replayFramelogPath string
	replayQuiet        bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <capture.csv>",
	Short: "Decode a logic-analyzer CSV capture offline",
	Long: `Decode a CSV capture of raw bus bytes and print every frame.

The capture format is one sample per row: a timestamp in seconds followed by
a byte value (hex 0x-prefixed or decimal), as exported by common logic
analyzers. Timestamps drive the inter-byte timeout, so a replay reproduces
exactly the frames a live tap would have seen.

Decoded frames can be exported to a pcap file for Wireshark (--pcap) or to
a compact CBOR frame log (--framelog). A statistics summary is printed at
the end of the capture.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVar(&replayPcapPath, "pcap", "", "Write decoded frames to a pcap file")
	replayCmd.Flags().StringVar(&replayFramelogPath, "framelog", "", "Write decoded frames to a CBOR frame log")
	replayCmd.Flags().BoolVarP(&replayQuiet, "quiet", "q", false, "Suppress per-frame output, print only the summary")
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open capture: %v", err)
	}
	defer f.Close()

	// Optional exports
	var pcapWriter *pcap.Writer
	if replayPcapPath != "" {
		pf, err := os.Create(replayPcapPath)
		if err != nil {
			return fmt.Errorf("failed to create pcap file: %v", err)
		}
		defer pf.Close()
		pcapWriter, err = pcap.NewWriter(pf)
		if err != nil {
			return fmt.Errorf("failed to write pcap header: %v", err)
		}
	}

	var logWriter *framelog.Writer
	if replayFramelogPath != "" {
		lf, err := os.Create(replayFramelogPath)
		if err != nil {
			return fmt.Errorf("failed to create frame log: %v", err)
		}
		defer lf.Close()
		logWriter = framelog.NewWriter(lf)
	}

	decoder, err := bqproto.NewDecoder(frameTimeout())
	if err != nil {
		return err
	}
	stats := bqproto.NewStatistics()

	emit := func(frame *bqproto.Frame) error {
		errors := bqproto.ValidateFrame(frame)
		stats.Update(frame, errors)
		if !replayQuiet {
			fmt.Print(bqproto.FormatFrame(frame))
			for _, e := range errors {
				fmt.Printf("  [ANOMALY] %s\n", e.Message)
			}
		}
		if pcapWriter != nil {
			if err := pcapWriter.WriteFrame(frame.StartTime(), frame.Raw()); err != nil {
				return fmt.Errorf("pcap write failed: %v", err)
			}
		}
		if logWriter != nil {
			if err := logWriter.Write(frame); err != nil {
				return fmt.Errorf("frame log write failed: %v", err)
			}
		}
		return nil
	}

	reader := capture.NewCSVReader(f)
	for {
		sample, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		for _, frame := range decoder.Feed(sample.Byte, sample.Time) {
			if err := emit(frame); err != nil {
				return err
			}
		}
	}

	// End of capture: a partial frame becomes a Truncated frame
	if frame := decoder.Flush(); frame != nil {
		if err := emit(frame); err != nil {
			return err
		}
	}

	fmt.Printf("\n%s", stats.String())
	return nil
}
