package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// menuChoice is one entry of the main menu.
type menuChoice int

const (
	choiceWordDrill menuChoice = iota
	choiceSentenceDrill
	choiceAddWords
	choiceAddSentences
	choiceBrowse
	choiceReport
	choiceHelp
	choiceQuit
)

type (
	// menuSelectionMsg asks the top-level model to open a screen.
	menuSelectionMsg struct{ choice menuChoice }

	// backToMenuMsg returns from a screen, optionally flashing a status.
	backToMenuMsg struct{ status string }
)

func selectMenuEntry(c menuChoice) tea.Cmd {
	return func() tea.Msg { return menuSelectionMsg{choice: c} }
}

func backToMenu(status string) tea.Cmd {
	return func() tea.Msg { return backToMenuMsg{status: status} }
}

var menuEntries = []struct {
	choice menuChoice
	label  string
}{
	{choiceWordDrill, "Dictation"},
	{choiceSentenceDrill, "Dictation Pro"},
	{choiceAddWords, "Add Words"},
	{choiceAddSentences, "Add Sentences"},
	{choiceBrowse, "Browse Vocabulary"},
	{choiceReport, "Cache Report"},
	{choiceHelp, "Help"},
	{choiceQuit, "Quit"},
}

type menuModel struct {
	common  *commonModel
	cursor  int
	spinner spinner.Model

	statusMessage      string
	statusMessageTimer *time.Timer
}

func newMenuModel(common *commonModel) menuModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	return menuModel{
		common:  common,
		spinner: sp,
	}
}

// showStatusMessage flashes a note in the status bar for a few seconds.
func (m *menuModel) showStatusMessage(statusMessage string) tea.Cmd {
	m.statusMessage = statusMessage
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(menuContext, m.statusMessageTimer)
}

func (m *menuModel) hideStatusMessage() {
	m.statusMessage = ""
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
}

func (m menuModel) update(msg tea.Msg) (menuModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "up", "k":
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(menuEntries) - 1
			}
		case "down", "j":
			m.cursor++
			if m.cursor >= len(menuEntries) {
				m.cursor = 0
			}
		case "enter":
			return m, selectMenuEntry(menuEntries[m.cursor].choice)
		}

	case spinner.TickMsg:
		if !m.common.sweepDone {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case sweepDoneMsg:
		return m, m.showStatusMessage(sweepSummary(msg))
	}

	return m, nil
}

func sweepSummary(msg sweepDoneMsg) string {
	total := msg.words.Merge(msg.sentences)
	if total.Generated == 0 && total.Failed == 0 {
		return "audio cache complete"
	}
	s := fmt.Sprintf("audio cache: %d file(s) generated", total.Generated)
	if total.Failed > 0 {
		s += fmt.Sprintf(", %d failed", total.Failed)
	}
	return s
}

func (m menuModel) view() string {
	var b strings.Builder

	b.WriteString("\n" + logoStyle.Render("老师 laoshi") + "\n\n")

	for i, e := range menuEntries {
		if i == m.cursor {
			b.WriteString(selectedMenuItemStyle.Render("> " + e.label))
		} else {
			b.WriteString(menuItemStyle.Render(e.label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + m.statusBarView() + "\n\n")
	b.WriteString(subtleStyle.Render("j/k: move") + dividerDot +
		subtleStyle.Render("enter: select") + dividerDot +
		subtleStyle.Render("q: quit") + "\n")

	return indent(b.String(), 2)
}

func (m menuModel) statusBarView() string {
	counts := fmt.Sprintf("%d words%s%d sentences",
		len(m.common.words), dividerDot, len(m.common.sentences))

	switch {
	case m.statusMessage != "":
		return statusBarStyle.Render(counts) + dividerDot +
			statusMessageStyle.Render(m.statusMessage)
	case !m.common.sweepDone:
		return statusBarStyle.Render(counts) + dividerDot +
			m.spinner.View() + statusBarStyle.Render("checking audio cache"+ellipsis)
	default:
		return statusBarStyle.Render(counts)
	}
}
