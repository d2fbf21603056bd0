package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dgnsrekt/laoshi/internal/cache"
	"github.com/dgnsrekt/laoshi/internal/session"
	"github.com/dgnsrekt/laoshi/internal/vocab"
)

// drillKind selects between the word and sentence dictation screens.
type drillKind int

const (
	drillWords drillKind = iota
	drillSentences
)

func (k drillKind) title() string {
	if k == drillSentences {
		return "Dictation Pro"
	}
	return "Dictation"
}

func (k drillKind) noun() string {
	if k == drillSentences {
		return "sentences"
	}
	return "words"
}

func (k drillKind) dir(dataDir string) string {
	if k == drillSentences {
		return cache.SentenceDir(dataDir)
	}
	return cache.WordDir(dataDir)
}

// playbackDoneMsg reports the end of one clip. seq ties it to the play
// request so a replay can't be confused with the clip it interrupted.
type playbackDoneMsg struct {
	seq      int
	err      error
	fellBack bool
}

type drillModel struct {
	common *commonModel
	kind   drillKind
	engine *session.Engine
	speed  *session.Selector

	playSeq int
	playing bool

	// Per-item notes, cleared on advance.
	missing  bool
	fellBack bool
	lastErr  error
	note     string
}

// wordDrillItems converts words into quiz items, dropping records with
// missing fields.
func wordDrillItems(words []vocab.Word) []session.Item {
	var items []session.Item
	for _, w := range words {
		if !w.Complete() {
			continue
		}
		items = append(items, session.Item{
			Base:   w.AudioFile,
			Hint:   w.Meaning,
			Answer: w.Character,
			Notes:  []string{w.Pinyin, w.Meaning},
		})
	}
	return items
}

func sentenceDrillItems(sentences []vocab.Sentence) []session.Item {
	var items []session.Item
	for _, s := range sentences {
		if !s.Complete() {
			continue
		}
		items = append(items, session.Item{
			Base:   s.AudioFile,
			Answer: s.Text,
		})
	}
	return items
}

func newDrillModel(common *commonModel, kind drillKind, items []session.Item) drillModel {
	return drillModel{
		common: common,
		kind:   kind,
		engine: session.New(items),
		speed:  session.NewSelector(),
	}
}

func (m *drillModel) abort() {
	if m.engine != nil {
		m.engine.Abort()
	}
}

func (m drillModel) update(msg tea.Msg) (drillModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case playbackDoneMsg:
		if msg.seq != m.playSeq {
			// A stale message from a clip we interrupted.
			return m, nil
		}
		m.playing = false
		if msg.err != nil {
			var missingErr *cache.MissingArtifactError
			if errors.As(msg.err, &missingErr) {
				if m.kind == drillWords {
					item, _, _ := m.engine.Current()
					m.note = fmt.Sprintf("no audio for %s, skipping", item.Answer)
					return m.advance()
				}
				m.missing = true
				m.lastErr = msg.err
				return m, nil
			}
			m.lastErr = msg.err
			return m, nil
		}
		m.note = ""
		m.fellBack = msg.fellBack
		return m, nil
	}

	return m, nil
}

func (m drillModel) handleKey(msg tea.KeyMsg) (drillModel, tea.Cmd) {
	switch m.engine.Status() {
	case session.StatusNotStarted:
		switch msg.String() {
		case "enter", "y":
			if err := m.engine.Confirm(); err != nil {
				return m, backToMenu("nothing to practice yet")
			}
			m.engine.Advance()
			return m, m.playCurrent()
		case "esc", "n", "q":
			m.engine.Decline()
			return m, backToMenu("")
		}

	case session.StatusPresenting, session.StatusRevealed:
		switch msg.String() {
		case " ":
			return m, m.playCurrent()
		case "enter":
			if m.engine.Status() == session.StatusPresenting {
				m.engine.Reveal()
				return m, nil
			}
			return m.advance()
		case "left":
			if m.kind == drillSentences {
				m.speed.Slower()
				return m, m.playCurrent()
			}
		case "right":
			if m.kind == drillSentences {
				m.speed.Faster()
				return m, m.playCurrent()
			}
		case "q", "esc":
			m.engine.Abort()
			return m, backToMenu("")
		}

	case session.StatusCompleted:
		switch msg.String() {
		case "y", "enter":
			if err := m.engine.Restart(); err != nil {
				return m, backToMenu("")
			}
			m.clearItemNotes()
			m.note = ""
			m.engine.Advance()
			return m, m.playCurrent()
		case "n", "q", "esc":
			m.engine.Abort()
			return m, backToMenu("practice finished")
		}
	}

	return m, nil
}

// advance moves to the next item, or lets the end prompt take over.
func (m drillModel) advance() (drillModel, tea.Cmd) {
	m.clearItemNotes()
	if m.engine.Advance() {
		return m, m.playCurrent()
	}
	m.playing = false
	return m, nil
}

func (m *drillModel) clearItemNotes() {
	m.missing = false
	m.fellBack = false
	m.lastErr = nil
}

// playCurrent interrupts any clip in flight and plays the current item at
// the drill's speed.
func (m *drillModel) playCurrent() tea.Cmd {
	item, _, _ := m.engine.Current()
	if item.Base == "" {
		return nil
	}
	m.common.player.Stop()
	m.playSeq++
	m.playing = true

	variant := cache.DefaultVariant()
	if m.kind == drillSentences {
		variant = m.speed.Current()
	}
	return playClipCmd(m.common, m.playSeq, m.kind.dir(m.common.cfg.DataDir), item.Base, variant)
}

// playClipCmd resolves, reads, and plays one cached clip.
func playClipCmd(c *commonModel, seq int, dir, base string, v cache.Variant) tea.Cmd {
	return func() tea.Msg {
		path, err := cache.Resolve(dir, base, v)
		if err != nil {
			return playbackDoneMsg{seq: seq, err: err}
		}
		fellBack := path != cache.VariantPath(dir, base, v)

		clip, err := os.ReadFile(path)
		if err != nil {
			return playbackDoneMsg{seq: seq, err: err}
		}
		if err := c.player.Play(context.Background(), clip); err != nil {
			return playbackDoneMsg{seq: seq, err: err, fellBack: fellBack}
		}
		return playbackDoneMsg{seq: seq, fellBack: fellBack}
	}
}

func (m drillModel) view() string {
	var b strings.Builder

	switch m.engine.Status() {
	case session.StatusNotStarted:
		b.WriteString("\n" + titleStyle.Render(m.kind.title()) + "\n\n")
		fmt.Fprintf(&b, "Ready to practice %d %s.\n\n", m.engine.Len(), m.kind.noun())
		b.WriteString(subtleStyle.Render("enter: start") + dividerDot +
			subtleStyle.Render("esc: cancel") + "\n")

	case session.StatusPresenting, session.StatusRevealed:
		b.WriteString("\n" + m.headerView() + "\n\n")
		b.WriteString(m.itemView())
		b.WriteString("\n" + m.footerView() + "\n")

	case session.StatusCompleted:
		b.WriteString("\n" + titleStyle.Render(m.kind.title()) + "\n\n")
		b.WriteString("Pass complete!\n\n")
		b.WriteString("Practice again? " + subtleStyle.Render("(y/n)") + "\n")
	}

	return indent(b.String(), 2)
}

func (m drillModel) headerView() string {
	_, pos, total := m.engine.Current()
	header := titleStyle.Render(m.kind.title()) + "  " +
		subtleStyle.Render(fmt.Sprintf("%d/%d", pos, total))
	if m.kind == drillSentences {
		header += "  " + speedBadgeStyle.Render(m.speed.Current().Label)
	}
	return header
}

func (m drillModel) itemView() string {
	item, _, _ := m.engine.Current()
	var b strings.Builder

	if m.playing {
		b.WriteString(subtleStyle.Render("♪ playing"+ellipsis) + "\n")
	} else {
		b.WriteString(subtleStyle.Render("♪") + "\n")
	}

	if m.kind == drillWords && item.Hint != "" {
		b.WriteString(hintStyle.Render("meaning: "+item.Hint) + "\n")
	}

	if m.engine.Status() == session.StatusRevealed {
		b.WriteString("\n" + revealStyle.Render(m.wrap(item.Answer)) + "\n")
		for _, note := range item.Notes {
			b.WriteString(note + "\n")
		}
	}

	if m.fellBack {
		b.WriteString(faintWarningStyle.Render("selected speed missing, played the default file") + "\n")
	}
	if m.lastErr != nil {
		b.WriteString(warningStyle.Render(playbackNote(m.lastErr)) + "\n")
	}
	if m.note != "" {
		b.WriteString(warningStyle.Render(m.note) + "\n")
	}

	return b.String()
}

func (m drillModel) footerView() string {
	keys := []string{"space: replay"}
	if m.engine.Status() == session.StatusPresenting {
		keys = append(keys, "enter: reveal")
	} else {
		keys = append(keys, "enter: next")
	}
	if m.kind == drillSentences {
		keys = append(keys, "←/→: speed")
	}
	keys = append(keys, "q: menu")

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = subtleStyle.Render(k)
	}
	return strings.Join(parts, dividerDot)
}

func (m drillModel) wrap(s string) string {
	width := m.common.width - 6
	if width < 20 {
		width = 76
	}
	return wordwrap.String(s, width)
}

func playbackNote(err error) string {
	var missingErr *cache.MissingArtifactError
	if errors.As(err, &missingErr) {
		return "no audio for this one; add it to the cache and try again"
	}
	return "playback failed: " + err.Error()
}
