package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/text/unicode/norm"

	"github.com/dgnsrekt/laoshi/internal/cache"
	"github.com/dgnsrekt/laoshi/internal/vocab"
)

// addKind selects between the add-words and add-sentences forms.
type addKind int

const (
	addWords addKind = iota
	addSentences
)

func (k addKind) title() string {
	if k == addSentences {
		return "Add Sentences"
	}
	return "Add Words"
}

type (
	entrySavedMsg struct {
		word     *vocab.Word
		sentence *vocab.Sentence
	}
	entrySaveFailedMsg struct{ err error }
)

// addValues holds the form's bound fields. It lives behind a pointer so the
// form keeps writing into the same place while the model is copied around.
type addValues struct {
	character string
	pinyin    string
	meaning   string
	text      string
	idea      string
}

type addModel struct {
	common  *commonModel
	kind    addKind
	vals    *addValues
	form    *huh.Form
	spinner spinner.Model

	saving bool
	failed bool
	result string
}

func newAddModel(common *commonModel, kind addKind) addModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := addModel{
		common:  common,
		kind:    kind,
		vals:    &addValues{},
		spinner: sp,
	}
	m.form = m.buildForm()
	return m
}

func (m addModel) buildForm() *huh.Form {
	common := m.common
	vals := m.vals

	var group *huh.Group
	if m.kind == addWords {
		group = huh.NewGroup(
			huh.NewInput().
				Title("Character").
				Value(&vals.character).
				Validate(func(s string) error {
					s = clean(s)
					if s == "" {
						return errors.New("cannot be empty")
					}
					if vocab.HasWord(common.words, s) {
						return fmt.Errorf("%s is already in the vocabulary", s)
					}
					return nil
				}),
			huh.NewInput().
				Title("Pinyin").
				Value(&vals.pinyin).
				Validate(requireValue),
			huh.NewInput().
				Title("Meaning").
				Value(&vals.meaning).
				Validate(requireValue),
			huh.NewInput().
				Title("Audio file name").
				Placeholder("defaults to the character").
				Value(&vals.idea),
		)
	} else {
		group = huh.NewGroup(
			huh.NewInput().
				Title("Sentence").
				Value(&vals.text).
				Validate(func(s string) error {
					s = clean(s)
					if s == "" {
						return errors.New("cannot be empty")
					}
					if vocab.HasSentence(common.sentences, s) {
						return errors.New("this sentence is already in the vocabulary")
					}
					return nil
				}),
			huh.NewInput().
				Title("Audio file name").
				Placeholder("defaults to the sentence text").
				Value(&vals.idea),
		)
	}

	return huh.NewForm(group).WithShowHelp(true)
}

func requireValue(s string) error {
	if clean(s) == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

// clean trims and NFC-normalizes user input so lookups and file naming see
// one canonical form.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func (m addModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m addModel) update(msg tea.Msg) (addModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" && !m.saving {
			return m, backToMenu("")
		}

	case spinner.TickMsg:
		if m.saving {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case entrySavedMsg:
		m.saving = false
		m.failed = false
		m.result = savedNote(msg)
		*m.vals = addValues{}
		m.form = m.buildForm()
		return m, m.form.Init()

	case entrySaveFailedMsg:
		m.saving = false
		m.failed = true
		m.result = msg.err.Error()
		// Values stay put for another attempt.
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	if m.saving {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.submit()
	case huh.StateAborted:
		return m, backToMenu("")
	}

	return m, cmd
}

// submit derives the audio base name, then generates and persists the entry.
func (m addModel) submit() (addModel, tea.Cmd) {
	m.saving = true
	m.failed = false
	m.result = ""

	if m.kind == addWords {
		w := vocab.Word{
			Character: clean(m.vals.character),
			Pinyin:    clean(m.vals.pinyin),
			Meaning:   clean(m.vals.meaning),
		}
		idea := clean(m.vals.idea)
		if idea == "" {
			idea = w.Character
		}
		taken := map[string]bool{}
		for _, existing := range m.common.words {
			taken[existing.AudioFile] = true
		}
		w.AudioFile = cache.UniqueBase(taken, idea, w.Pinyin)
		return m, tea.Batch(m.spinner.Tick, saveWordCmd(m.common, w))
	}

	s := vocab.Sentence{Text: clean(m.vals.text)}
	idea := clean(m.vals.idea)
	if idea == "" {
		idea = s.Text
	}
	taken := map[string]bool{}
	for _, existing := range m.common.sentences {
		taken[existing.AudioFile] = true
	}
	s.AudioFile = cache.UniqueBase(taken, idea, "")
	return m, tea.Batch(m.spinner.Tick, saveSentenceCmd(m.common, s))
}

func savedNote(msg entrySavedMsg) string {
	if msg.word != nil {
		return fmt.Sprintf("saved %s (%s)", msg.word.Character, msg.word.AudioFile)
	}
	if msg.sentence != nil {
		return fmt.Sprintf("saved sentence (%s)", msg.sentence.AudioFile)
	}
	return "saved"
}

func (m addModel) view() string {
	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render(m.kind.title()) + "\n\n")

	if m.saving {
		b.WriteString(m.spinner.View() + subtleStyle.Render("generating audio"+ellipsis) + "\n")
	} else {
		b.WriteString(m.form.View() + "\n")
		if m.result != "" {
			if m.failed {
				b.WriteString(warningStyle.Render(m.result) + "\n")
			} else {
				b.WriteString(statusMessageStyle.Render(m.result) + "\n")
			}
		}
		b.WriteString("\n" + subtleStyle.Render("esc: back to menu") + "\n")
	}

	return indent(b.String(), 2)
}

// COMMANDS

// saveWordCmd generates every speed variant, then persists the record. The
// record is only appended when all files are in place.
func saveWordCmd(c *commonModel, w vocab.Word) tea.Cmd {
	return func() tea.Msg {
		item := cache.Item{Text: w.Character, Base: w.AudioFile}
		if err := c.cache.CreateAll(context.Background(), item, cache.WordDir(c.cfg.DataDir)); err != nil {
			return entrySaveFailedMsg{err: err}
		}
		if err := c.store.AppendWord(w); err != nil {
			return entrySaveFailedMsg{err: err}
		}
		return entrySavedMsg{word: &w}
	}
}

func saveSentenceCmd(c *commonModel, s vocab.Sentence) tea.Cmd {
	return func() tea.Msg {
		item := cache.Item{Text: s.Text, Base: s.AudioFile}
		if err := c.cache.CreateAll(context.Background(), item, cache.SentenceDir(c.cfg.DataDir)); err != nil {
			return entrySaveFailedMsg{err: err}
		}
		if err := c.store.AppendSentence(s); err != nil {
			return entrySaveFailedMsg{err: err}
		}
		return entrySavedMsg{sentence: &s}
	}
}
