// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 OpenBMS

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/openbms/daisytap/pkg/bqproto"
)

// Event log entry
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool // true for errors, false for informational
}

// TUI model
type model struct {
	connInfo      string
	statsInterval int
	showAll       bool
	stats         *bqproto.Statistics
	frameTable    table.Model
	eventLog      []eventLogEntry
	maxLogEntries int
	maxTableRows  int
	synchronized  bool
	anomalousPre  int
	width         int
	height        int
	quitting      bool
}

// Messages
type tickMsg time.Time
type frameMsg struct {
	frame            *bqproto.Frame
	validationErrors []bqproto.ValidationError
}
type syncMsg struct {
	anomalousFrames int
}
type connClosedMsg struct {
	err error
}

func newFrameTable() table.Model {
	columns := []table.Column{
		{Title: "Time", Width: 12},
		{Title: "Type", Width: 22},
		{Title: "Dev", Width: 5},
		{Title: "Reg", Width: 7},
		{Title: "Data", Width: 24},
		{Title: "Status", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(8),
		table.WithFocused(false),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)

	return t
}

func initialModel(connInfo string, statsInterval int, showAll bool) model {
	return model{
		connInfo:      connInfo,
		statsInterval: statsInterval,
		showAll:       showAll,
		stats:         bqproto.NewStatistics(),
		frameTable:    newFrameTable(),
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: 100,
		maxTableRows:  8,
		synchronized:  false,
		width:         80,
		height:        24,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		tea.EnterAltScreen,
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		// Update statistics rates
		m.stats.CalculateRates()
		return m, tickCmd()

	case syncMsg:
		m.synchronized = true
		m.anomalousPre = msg.anomalousFrames
		if msg.anomalousFrames > 0 {
			m.addLogEntry(fmt.Sprintf("Synchronized after %d anomalous frames", msg.anomalousFrames), false)
		} else {
			m.addLogEntry("Synchronized", false)
		}

	case connClosedMsg:
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("Connection closed: %v", msg.err), true)
		} else {
			m.addLogEntry("Connection closed", true)
		}

	case frameMsg:
		if msg.frame != nil {
			m.stats.Update(msg.frame, msg.validationErrors)
			m.addTableRow(msg.frame)

			if msg.frame.Status() != bqproto.StatusOK {
				m.addLogEntry(describeAnomaly(msg.frame), true)
			} else if len(msg.validationErrors) > 0 {
				name := frameName(msg.frame)
				for _, err := range msg.validationErrors {
					m.addLogEntry(fmt.Sprintf("%s: %s", name, err.Message), true)
				}
			} else if m.showAll {
				m.addLogEntry(fmt.Sprintf("%s (valid)", frameName(msg.frame)), false)
			}
		}
	}

	return m, nil
}

func (m *model) addLogEntry(message string, isError bool) {
	entry := eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

// addTableRow appends a decoded frame to the recent-frames table
func (m *model) addTableRow(f *bqproto.Frame) {
	dev := "-"
	if addr, ok := f.DeviceAddress(); ok {
		dev = fmt.Sprintf("0x%02X", addr)
	}
	reg := "-"
	if r, ok := f.RegisterAddress(); ok {
		reg = fmt.Sprintf("0x%04X", r)
	}
	data := bqproto.FormatHex(f.Data())
	if len(data) > 24 {
		data = data[:21] + "..."
	}

	row := table.Row{
		f.StartTime().Format("15:04:05.000"),
		frameName(f),
		dev,
		reg,
		data,
		f.Status().String(),
	}

	rows := append(m.frameTable.Rows(), row)
	if len(rows) > m.maxTableRows {
		rows = rows[len(rows)-m.maxTableRows:]
	}
	m.frameTable.SetRows(rows)
}

// frameName returns the short command family name for a frame
func frameName(f *bqproto.Frame) string {
	if d := f.Descriptor(); d != nil {
		return d.Name
	}
	return fmt.Sprintf("Unknown (0x%02X)", f.InitByte())
}

// describeAnomaly summarizes a non-OK frame for the event log
func describeAnomaly(f *bqproto.Frame) string {
	switch f.Status() {
	case bqproto.StatusCRCError:
		return fmt.Sprintf("CRC ERROR: %s, received 0x%04X", frameName(f), f.CRC())
	case bqproto.StatusTimedOut:
		return fmt.Sprintf("TIMEOUT: %s abandoned after %d bytes", frameName(f), len(f.Raw()))
	case bqproto.StatusTruncated:
		return fmt.Sprintf("TRUNCATED: %s, %d bytes at end of stream", frameName(f), len(f.Raw()))
	case bqproto.StatusUnknownCommand:
		return fmt.Sprintf("UNKNOWN INITIATOR: 0x%02X", f.InitByte())
	}
	return frameName(f)
}

func (m model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	var s strings.Builder
	s.WriteString(titleStyle.Render("DAISYTAP - BUS WATCH"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Mode: %s | Press 'q' to quit",
		m.connInfo, func() string {
			if m.showAll {
				return "All frames"
			}
			return "Errors only"
		}())))
	s.WriteString("\n\n")

	// Sync status
	if !m.synchronized {
		s.WriteString(warningStyle.Render("⏳ Waiting for first valid frame..."))
		s.WriteString("\n\n")
	} else {
		s.WriteString(statsValueStyle.Render("✓ Synchronized"))
		if m.anomalousPre > 0 {
			s.WriteString(headerStyle.Render(fmt.Sprintf(" (%d anomalous frames before sync)", m.anomalousPre)))
		}
		s.WriteString("\n\n")
	}

	// Statistics
	m.stats.CalculateRates()
	var validPercent, errorPercent float64
	if m.stats.TotalFrames > 0 {
		validPercent = float64(m.stats.ValidFrames) * 100.0 / float64(m.stats.TotalFrames)
		errorPercent = float64(m.stats.ErrorCount()) * 100.0 / float64(m.stats.TotalFrames)
	}

	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		statsLabelStyle.Render("Total:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalFrames)),
		statsLabelStyle.Render("Valid:"), statsValueStyle.Render(fmt.Sprintf("%d (%.1f%%)", m.stats.ValidFrames, validPercent)),
		statsLabelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d (%.1f%%)", m.stats.ErrorCount(), errorPercent)),
	))

	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		statsLabelStyle.Render("Commands:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.CommandFrames)),
		statsLabelStyle.Render("Responses:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.ResponseFrames)),
	))

	if m.stats.CRCErrors > 0 || m.stats.Timeouts > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			statsLabelStyle.Render("CRC Errors:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.CRCErrors)),
			statsLabelStyle.Render("Timeouts:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.Timeouts)),
		))
	}

	if m.stats.UnknownCommands > 0 || m.stats.Truncated > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			statsLabelStyle.Render("Unknown:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.UnknownCommands)),
			statsLabelStyle.Render("Truncated:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.Truncated)),
		))
	}

	if m.stats.AnomalousFrames > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s\n",
			statsLabelStyle.Render("Anomalous:"), warningStyle.Render(fmt.Sprintf("%d", m.stats.AnomalousFrames)),
		))
	}

	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		statsLabelStyle.Render("Frame Rate:"), statsValueStyle.Render(fmt.Sprintf("%.1f frames/s", m.stats.FrameRate)),
		statsLabelStyle.Render("Error Rate:"), func() string {
			if m.stats.ErrorRate > 0 {
				return errorStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
			}
			return statsValueStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
		}(),
	))

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Recent frames table
	s.WriteString(statsLabelStyle.Render("Recent Frames:"))
	s.WriteString("\n")
	s.WriteString(boxStyle.Render(m.frameTable.View()))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(statsLabelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	// Calculate how many log entries we can show
	logHeight := m.height - 28 // Reserve space for header, stats, and table
	if logHeight < 5 {
		logHeight = 5
	}

	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("01/02/06 15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					warningStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}
