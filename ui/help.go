package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	te "github.com/muesli/termenv"
)

const helpText = `# laoshi

Listen-and-write practice for Mandarin, built on your own vocabulary.
Audio is synthesized once per entry at three speeds and cached under the
data directory, so drills play instantly and work offline.

## Dictation

Plays a word at normal speed. Write down what you hear, then check
yourself.

* **space** replay
* **enter** reveal, then next
* **q** back to the menu

## Dictation Pro

Plays a full sentence. Arrow keys switch between x0.5, x0.7, and x1.0
playback; the choice sticks until you leave the drill.

* **←/→** slower / faster
* **space** replay
* **enter** reveal, then next

## Adding entries

New entries are synthesized at every speed before they are saved, so a
record never exists without its audio. If the speech server is down the
entry is not persisted; fix the server and submit again.

## Files

Everything lives in the data directory: vocabulary.csv, sentences.csv,
and audio/. The CSVs are plain text; edits made outside the program are
picked up while it runs, and missing audio is regenerated on the next
start.
`

type helpModel struct {
	common   *commonModel
	rendered string
	width    int
}

func newHelpModel(common *commonModel) helpModel {
	m := helpModel{common: common}
	m.render()
	return m
}

func (m *helpModel) render() {
	width := m.common.width - 4
	if width < 20 || width > 80 {
		width = 80
	}
	m.width = width

	style := styles.LightStyle
	if te.HasDarkBackground() {
		style = styles.DarkStyle
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.rendered = helpText
		return
	}
	out, err := r.Render(helpText)
	if err != nil {
		m.rendered = helpText
		return
	}
	m.rendered = out
}

func (m helpModel) update(msg tea.Msg) (helpModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "enter":
			return m, backToMenu("")
		}

	case tea.WindowSizeMsg:
		if msg.Width-4 != m.width {
			m.render()
		}
	}

	return m, nil
}

func (m helpModel) view() string {
	var b strings.Builder
	b.WriteString(m.rendered)
	b.WriteString(subtleStyle.Render("esc: back") + "\n")
	return b.String()
}
