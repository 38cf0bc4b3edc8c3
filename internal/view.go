package internal

import (
	"fmt"
	"strings"
	"time"

	"pomodoro_tui/internal/phase"
	"pomodoro_tui/internal/timelog"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center)

	focusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	breakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	inputInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	logHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	logTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// formatSeconds renders a countdown as mm:ss. Minutes are not wrapped into
// hours, so two hours shows as 120:00.
func formatSeconds(total int) string {
	total = max(total, 0)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func phaseStyle(p phase.Phase) lipgloss.Style {
	if p == phase.Focus {
		return focusStyle
	}
	return breakStyle
}

func (m *Model) screenWidth() int {
	if m.width > 0 {
		return m.width
	}
	return 60
}

func (m *Model) mainView() string {
	var sb strings.Builder
	width := min(m.screenWidth(), 60)

	sb.WriteString(titleStyle.Width(width).Render("Pomodoro"))
	sb.WriteString("\n")
	sb.WriteString(clockStyle.Width(width).Render(m.Now.Format(time.TimeOnly)))
	sb.WriteString("\n\n")

	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.timerView(),
		"  ",
		m.todayView(),
	)
	sb.WriteString(boxes)
	sb.WriteString("\n")

	if m.Message != "" {
		sb.WriteString(messageStyle.Render(m.Message))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(m.keys))

	return sb.String()
}

func (m *Model) timerView() string {
	snap := m.Machine.Snapshot()

	countdown := timerDisplayStyle.Render(formatSeconds(snap.RemainingSeconds))
	status := inactiveStyle.Render("Paused")
	if snap.Running {
		countdown = timerRunningStyle.Render(formatSeconds(snap.RemainingSeconds))
		status = timerRunningStyle.Render("Running")
	}

	var sb strings.Builder
	sb.WriteString(phaseStyle(snap.Mode).Render(snap.Mode.Label() + " mode"))
	sb.WriteString("\n\n")
	sb.WriteString(countdown)
	sb.WriteString("\n\n")
	sb.WriteString(status)

	return boxStyle.Width(24).Height(7).Render(sb.String())
}

func (m *Model) todayView() string {
	s := m.Stats.Summary()

	var sb strings.Builder
	sb.WriteString(logHeaderStyle.Render("Today"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Focus   %d min\n", s.FocusMinutes()))
	sb.WriteString(fmt.Sprintf("Break   %d min\n", s.BreakMinutes()))
	sb.WriteString(fmt.Sprintf("Cycles  %d\n", s.Cycles))

	return boxStyle.Width(24).Height(7).Render(sb.String())
}

func (m *Model) ackView() string {
	ack := m.Machine.Snapshot().Pending

	body := fmt.Sprintf("%s\n\nLogged %s.\n\n%s",
		phaseStyle(ack.Completed).Render(ack.Completed.Label()+" finished."),
		formatSeconds(ack.Record.DurationSeconds),
		helpStyle.Render(fmt.Sprintf("Enter: start %s", strings.ToLower(ack.Next.Label()))),
	)

	return lipgloss.Place(
		m.screenWidth(), 16,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Width(40).Render(body),
	)
}

func (m *Model) confirmView() string {
	question := "Delete today's log?"
	if m.Confirm == confirmClearAll {
		question = "Delete every log? This cannot be undone."
	}

	body := fmt.Sprintf("%s\n\n%s", question, helpStyle.Render("y: delete | n: cancel"))
	return lipgloss.Place(
		m.screenWidth(), 16,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Width(46).Render(body),
	)
}

func (m *Model) settingsFormView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(40).Render("Phase Lengths"))
	sb.WriteString("\n\n")

	fields := []struct {
		label string
		value string
	}{
		{"Focus (min): ", m.FocusInput},
		{"Break (min): ", m.BreakInput},
	}
	for i, f := range fields {
		marker := "  "
		label := inputInactiveStyle.Render(marker + f.label)
		value := f.value
		if m.InputFocus == i {
			marker = "→ "
			label = inputStyle.Render(marker + f.label)
			value = inputStyle.Render(f.value + "█")
		}
		sb.WriteString(label)
		sb.WriteString(value)
		sb.WriteString("\n\n")
	}

	sb.WriteString(helpStyle.Render("Tab: Switch | Enter: Save | Esc: Cancel"))

	return lipgloss.Place(
		m.screenWidth(), 16,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Width(44).Render(sb.String()),
	)
}

func (m *Model) todayLogView() string {
	var sb strings.Builder
	sb.WriteString(logHeaderStyle.Render("Sessions " + m.Stats.Day()))
	sb.WriteString("\n\n")

	if len(m.TodayLogs) == 0 {
		sb.WriteString(inactiveStyle.Render("Nothing logged yet today."))
	}

	const visible = 10
	end := min(m.LogViewScroll+visible, len(m.TodayLogs))
	for _, rec := range m.TodayLogs[m.LogViewScroll:end] {
		sb.WriteString(formatLogEntry(rec))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Up/Down: Scroll | Esc: Back"))
	return boxStyle.Width(48).Render(sb.String())
}

func formatLogEntry(rec timelog.Record) string {
	span := logTimeStyle.Render(fmt.Sprintf("%s-%s", hourMinute(rec.Start), hourMinute(rec.End)))
	mode := phaseStyle(rec.Mode).Render(fmt.Sprintf("%-5s", rec.Mode))
	return fmt.Sprintf("  %s  %s  %s", span, mode, formatSeconds(rec.DurationSeconds))
}

func hourMinute(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.Local().Format("15:04")
}
