package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"
)

const browsePageSize = 12

// browseEntry is one row of the vocabulary listing.
type browseEntry struct {
	label string // rendered row
	text  string // what a copy puts on the clipboard
}

// browseEntries implements fuzzy.Source over the rendered rows.
type browseEntries []browseEntry

func (b browseEntries) String(i int) string { return b[i].label }
func (b browseEntries) Len() int            { return len(b) }

type browseModel struct {
	common  *commonModel
	input   textinput.Model
	entries browseEntries
	matches fuzzy.Matches
	cursor  int

	statusMessage      string
	statusMessageTimer *time.Timer
}

func newBrowseModel(common *commonModel) browseModel {
	input := textinput.New()
	input.Prompt = "Filter: "
	input.PromptStyle = lipgloss.NewStyle().Foreground(fuchsiaFg)
	input.Focus()

	m := browseModel{
		common:  common,
		input:   input,
		entries: buildBrowseEntries(common),
	}
	m.refilter()
	return m
}

// buildBrowseEntries renders words as aligned columns and sentences as
// plain rows. Column widths account for double-width CJK characters.
func buildBrowseEntries(c *commonModel) browseEntries {
	charWidth, pinyinWidth := 0, 0
	for _, w := range c.words {
		if n := runewidth.StringWidth(w.Character); n > charWidth {
			charWidth = n
		}
		if n := runewidth.StringWidth(w.Pinyin); n > pinyinWidth {
			pinyinWidth = n
		}
	}

	var entries browseEntries
	for _, w := range c.words {
		label := fmt.Sprintf("%s  %s  %s",
			padRight(w.Character, charWidth),
			padRight(w.Pinyin, pinyinWidth),
			w.Meaning,
		)
		entries = append(entries, browseEntry{label: label, text: w.Character})
	}
	for _, s := range c.sentences {
		entries = append(entries, browseEntry{label: s.Text, text: s.Text})
	}
	return entries
}

func padRight(s string, width int) string {
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// refilter recomputes the visible rows. The vocabulary is small enough to
// rank synchronously on every keystroke.
func (m *browseModel) refilter() {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		all := make(fuzzy.Matches, len(m.entries))
		for i := range m.entries {
			all[i] = fuzzy.Match{Str: m.entries[i].label, Index: i}
		}
		m.matches = all
	} else {
		m.matches = fuzzy.FindFrom(query, m.entries)
	}
	if m.cursor >= len(m.matches) {
		m.cursor = max(0, len(m.matches)-1)
	}
}

func (m *browseModel) showStatusMessage(statusMessage string) tea.Cmd {
	m.statusMessage = statusMessage
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(browseContext, m.statusMessageTimer)
}

func (m browseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m browseModel) update(msg tea.Msg) (browseModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.input.Value() != "" {
				m.input.SetValue("")
				m.refilter()
				return m, nil
			}
			return m, backToMenu("")

		case "up", "ctrl+k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+j":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil

		case "enter", "ctrl+y":
			if len(m.matches) == 0 {
				return m, nil
			}
			entry := m.entries[m.matches[m.cursor].Index]
			if err := clipboard.WriteAll(entry.text); err != nil {
				return m, m.showStatusMessage("copy failed: " + err.Error())
			}
			return m, m.showStatusMessage(fmt.Sprintf("copied %q", entry.text))
		}

	case statusMessageTimeoutMsg:
		if applicationContext(msg) == browseContext {
			m.statusMessage = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refilter()
	return m, cmd
}

func (m browseModel) view() string {
	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render("Browse Vocabulary") + "\n\n")
	b.WriteString(m.input.View() + "\n\n")

	if len(m.matches) == 0 {
		b.WriteString(subtleStyle.Render("nothing matches") + "\n")
	} else {
		start, end := visibleWindow(m.cursor, len(m.matches), browsePageSize)
		for i := start; i < end; i++ {
			match := m.matches[i]
			row := styleMatchedRow(match, i == m.cursor)
			if i == m.cursor {
				b.WriteString(selectedMenuItemStyle.Render("> ") + row)
			} else {
				b.WriteString("  " + row)
			}
			b.WriteString("\n")
		}
		if len(m.matches) > browsePageSize {
			fmt.Fprintf(&b, "\n%s\n",
				subtleStyle.Render(fmt.Sprintf("%d/%d", m.cursor+1, len(m.matches))))
		}
	}

	b.WriteString("\n")
	if m.statusMessage != "" {
		b.WriteString(statusMessageStyle.Render(m.statusMessage) + "\n")
	}
	b.WriteString(subtleStyle.Render("↑/↓: move") + dividerDot +
		subtleStyle.Render("enter: copy") + dividerDot +
		subtleStyle.Render("esc: back") + "\n")

	return indent(b.String(), 2)
}

// visibleWindow keeps the cursor inside a fixed-height slice of the rows.
func visibleWindow(cursor, total, size int) (start, end int) {
	if total <= size {
		return 0, total
	}
	start = cursor - size/2
	if start < 0 {
		start = 0
	}
	end = start + size
	if end > total {
		end = total
		start = end - size
	}
	return start, end
}

// styleMatchedRow renders a row, underlining the runes the filter matched.
func styleMatchedRow(match fuzzy.Match, selected bool) string {
	base := lipgloss.NewStyle().Foreground(normalFg)
	if selected {
		base = lipgloss.NewStyle().Foreground(fuchsiaFg)
	}
	if len(match.MatchedIndexes) == 0 {
		return base.Render(match.Str)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder
	for i, r := range []rune(match.Str) {
		if matched[i] {
			b.WriteString(matchedCharStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}
