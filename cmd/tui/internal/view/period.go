package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/teamspend/internal/export"
)

// Period is a predefined or custom reporting window.
type Period int

const (
	PeriodThisMonth Period = iota
	PeriodLastMonth
	PeriodThisQuarter
	PeriodThisYear
	PeriodAll
	PeriodCustom
)

func (p Period) String() string {
	switch p {
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodThisQuarter:
		return "This Quarter"
	case PeriodThisYear:
		return "This Year"
	case PeriodAll:
		return "All Time"
	case PeriodCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// periodRange returns the window for p relative to now. Start is inclusive and
// End is the last nanosecond of the window. PeriodAll and PeriodCustom return
// an open period.
func periodRange(p Period, now time.Time) export.Period {
	var start time.Time

	switch p {
	case PeriodThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PeriodLastMonth:
		start = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)

		return closedPeriod(start, start.AddDate(0, 1, 0))
	case PeriodThisQuarter:
		q := (int(now.Month()) - 1) / 3
		start = time.Date(now.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
	case PeriodThisYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return export.Period{}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	return closedPeriod(start, today.AddDate(0, 0, 1))
}

// closedPeriod covers [start, next).
func closedPeriod(start, next time.Time) export.Period {
	return export.Period{Start: &start, End: new(next.Add(-time.Nanosecond))}
}

// PeriodSelectedMsg is emitted once the user has chosen a window.
type PeriodSelectedMsg struct {
	Label  string
	Period export.Period
}

// PeriodPicker selects a reporting window.
type PeriodPicker struct {
	selected Period
	custom   bool

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewPeriodPicker() PeriodPicker {
	si := textinput.New()
	si.Placeholder = "YYYY-MM-DD"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "Start Date: "

	ei := textinput.New()
	ei.Placeholder = "YYYY-MM-DD"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "End Date:   "

	return PeriodPicker{startInput: si, endInput: ei}
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)

	switch {
	case ok && m.custom:
		return m.updateCustom(keyMsg)
	case ok:
		return m.updateSelect(keyMsg)
	case m.custom:
		var c1, c2 tea.Cmd
		m.startInput, c1 = m.startInput.Update(msg)
		m.endInput, c2 = m.endInput.Update(msg)

		return m, tea.Batch(c1, c2)
	}

	return m, nil
}

func (m PeriodPicker) updateSelect(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.selected = max(PeriodThisMonth, m.selected-1)
	case tea.KeyDown:
		m.selected = min(PeriodCustom, m.selected+1)
	case tea.KeyEnter:
		if m.selected == PeriodCustom {
			m.custom = true
			m.focusIndex = 0
			m.startInput.Focus()

			return m, textinput.Blink
		}

		sel := PeriodSelectedMsg{Label: m.selected.String(), Period: periodRange(m.selected, time.Now())}

		return m, func() tea.Msg { return sel }
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink

	case "enter":
		sel, err := customPeriod(m.startInput.Value(), m.endInput.Value())
		if err != nil {
			m.err = err
			return m, nil
		}

		m.err = nil

		return m, func() tea.Msg { return sel }

	case "esc":
		m.custom = false
		m.err = nil

		return m, nil
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.startInput, cmd = m.startInput.Update(msg)
	} else {
		m.endInput, cmd = m.endInput.Update(msg)
	}

	return m, cmd
}

func customPeriod(rawStart, rawEnd string) (PeriodSelectedMsg, error) {
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(rawStart))
	if err != nil {
		return PeriodSelectedMsg{}, errors.New("invalid start date (YYYY-MM-DD)")
	}

	end, err := time.Parse(time.DateOnly, strings.TrimSpace(rawEnd))
	if err != nil {
		return PeriodSelectedMsg{}, errors.New("invalid end date (YYYY-MM-DD)")
	}

	if end.Before(start) {
		return PeriodSelectedMsg{}, errors.New("end date is before start date")
	}

	return PeriodSelectedMsg{
		Label:  fmt.Sprintf("%s to %s", FormatDate(start), FormatDate(end)),
		Period: closedPeriod(start, end.AddDate(0, 0, 1)),
	}, nil
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.custom {
		return fmt.Sprintf(
			"Enter Custom Range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	var b strings.Builder

	b.WriteString("Select Period:\n\n")

	for p := PeriodThisMonth; p <= PeriodCustom; p++ {
		cursor := " "
		if m.selected == p {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %s\n", cursor, p)
	}

	b.WriteString("\n(Enter to select, Esc to back)")

	return b.String() + errStr
}

// IsSelecting reports whether the picker is on the preset list.
func (m PeriodPicker) IsSelecting() bool {
	return !m.custom
}
