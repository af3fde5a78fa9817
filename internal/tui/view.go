package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/captains-log/internal/transcript"
)

const transcriptTimeLayout = "3:04:05 PM"

// View renders the screen.
func (m Model) View() string {
	if !m.state.Supported {
		return TitleStyle.Render("CAPTAIN'S LOG") + "\n\n" +
			ErrorStyle.Render(unsupportedText) + "\n\n" +
			footerItem("Q", "quit")
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderSignal())
	sections = append(sections, DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderTranscript())
	sections = append(sections, DividerStyle.Render(strings.Repeat("─", m.width)))

	if m.state.Error != "" {
		sections = append(sections, ErrorStyle.Render("ERROR: "+m.state.Error))
	}
	if m.message != "" {
		style := MessageStyle
		if m.messageErr {
			style = ErrorStyle
		}
		sections = append(sections, style.Render(m.message))
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("CAPTAIN'S LOG")

	var dot string
	if m.state.Listening {
		dot = RecordingDotStyle.Render("● REC")
	} else {
		dot = IdleDotStyle.Render("○ IDLE")
	}

	status := StatusStyle.Render("STATUS: " + strings.ToUpper(string(m.state.Status)))
	return title + "  " + dot + "  " + status + "  " + renderTimer(m.state.Listening, m.state.Remaining)
}

func renderTimer(listening bool, remaining int) string {
	text := fmt.Sprintf("T-%02d:%02d", remaining/60, remaining%60)
	switch transcript.TimerWarning(listening, remaining) {
	case transcript.WarnRed:
		return TimerRedStyle.Render(text)
	case transcript.WarnYellow:
		return TimerYellowStyle.Render(text)
	}
	return TimerStyle.Render(text)
}

func (m Model) renderSignal() string {
	if !m.state.Listening {
		return DimStyle.Render("SIGNAL ") + strings.Repeat(SignalOffStyle.Render("▯"), 10)
	}
	var bar strings.Builder
	for i := 0; i < 10; i++ {
		switch transcript.SignalBand(i, m.state.SignalStrength) {
		case 1:
			bar.WriteString(SignalLowStyle.Render("▮"))
		case 2:
			bar.WriteString(SignalMediumStyle.Render("▮"))
		case 3:
			bar.WriteString(SignalHighStyle.Render("▮"))
		default:
			bar.WriteString(SignalOffStyle.Render("▯"))
		}
	}
	return DimStyle.Render("SIGNAL ") + bar.String()
}

// transcriptLines is the space left for the transcript between the fixed rows.
func (m Model) transcriptLines() int {
	n := m.height - 7
	if n < 3 {
		n = 3
	}
	return n
}

func (m Model) renderTranscript() string {
	var lines []string
	for _, r := range m.state.Transcript {
		ts := "[" + r.Time().Format(transcriptTimeLayout) + "] "
		text := truncateToWidth(r.Text, m.width-len(ts))
		lines = append(lines, TimestampStyle.Render(ts)+TranscriptStyle.Render(text))
	}
	if m.state.Interim != "" {
		lines = append(lines, InterimStyle.Render(truncateToWidth(m.state.Interim, m.width)))
	}
	if m.prompting {
		lines = append(lines, MessageStyle.Render("TITLE: ")+m.title+"█")
	} else {
		lines = append(lines, TranscriptStyle.Render("█"))
	}

	// Follow the tail.
	if limit := m.transcriptLines(); len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	if m.prompting {
		return footerItem("ENTER", "save") + "  " + footerItem("ESC", "cancel")
	}
	action := "start"
	if m.state.Listening {
		action = "stop"
	}
	return strings.Join([]string{
		footerItem("SPACE", action),
		footerItem("C", "clear"),
		footerItem("E", "export"),
		footerItem("S", "save"),
		footerItem("Q", "quit"),
	}, "  ")
}

func footerItem(key, desc string) string {
	return FooterKeyStyle.Render(key) + " " + FooterDescStyle.Render(desc)
}

// truncateToWidth shortens unstyled text to fit width cells.
func truncateToWidth(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
