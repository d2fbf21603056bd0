// Package ui provides the interactive shell for the laoshi application.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/laoshi/internal/audio"
	"github.com/dgnsrekt/laoshi/internal/cache"
	"github.com/dgnsrekt/laoshi/internal/synth"
	"github.com/dgnsrekt/laoshi/internal/vocab"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "saved!"
	ellipsis             = "…"
)

// NewProgram returns a new Tea program running the whole shell.
func NewProgram(cfg Config) *tea.Program {
	log.Debug(
		"Starting laoshi",
		"data_dir", cfg.DataDir,
		"server", cfg.ServerURL,
		"voice", cfg.Voice,
		"audio", cfg.EnableAudio,
	)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	m := newModel(cfg)
	return tea.NewProgram(m, opts...)
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type (
	vocabLoadedMsg struct {
		words     []vocab.Word
		sentences []vocab.Sentence
	}
	vocabChangedMsg struct{ name string }
	sweepDoneMsg    struct {
		words     cache.Report
		sentences cache.Report
	}
	statusMessageTimeoutMsg applicationContext
)

// applicationContext indicates the area of the application something applies
// to. Occasionally used as an argument to commands and messages.
type applicationContext int

const (
	menuContext applicationContext = iota
	browseContext
)

// state is the top-level application state.
type state int

const (
	stateShowMenu state = iota
	stateAddWords
	stateAddSentences
	stateBrowse
	stateWordDrill
	stateSentenceDrill
	stateShowReport
	stateShowHelp
)

func (s state) String() string {
	return map[state]string{
		stateShowMenu:      "showing menu",
		stateAddWords:      "adding words",
		stateAddSentences:  "adding sentences",
		stateBrowse:        "browsing vocabulary",
		stateWordDrill:     "running word drill",
		stateSentenceDrill: "running sentence drill",
		stateShowReport:    "showing report",
		stateShowHelp:      "showing help",
	}[s]
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg    Config
	store  *vocab.Store
	cache  *cache.Manager
	player audio.Player
	width  int
	height int

	// Loaded vocabulary, refreshed on CSV changes.
	words     []vocab.Word
	sentences []vocab.Sentence

	// Results of the last reconciliation sweep.
	wordReport     cache.Report
	sentenceReport cache.Report
	sweepDone      bool
}

type model struct {
	common   *commonModel
	state    state
	fatalErr error

	// Sub-models
	menu   menuModel
	add    addModel
	browse browseModel
	drill  drillModel
	report reportModel
	help   helpModel

	// Watches the CSV stores for edits made outside the shell.
	watcher *vocabWatcher
}

func newModel(cfg Config) tea.Model {
	var player audio.Player
	if cfg.EnableAudio {
		player = audio.NewOtoPlayer()
	} else {
		player = audio.NewMockPlayer()
	}

	client := synth.New(cfg.ServerURL,
		synth.WithVoice(cfg.Voice),
		synth.WithLangCode(cfg.LangCode),
	)

	common := commonModel{
		cfg:   cfg,
		store: vocab.NewStore(cfg.DataDir),
		cache: cache.NewManager(cache.Config{
			Synthesizer:  client,
			DefaultSpeed: cfg.Speed,
		}),
		player: player,
	}

	m := model{
		common: &common,
		state:  stateShowMenu,
		menu:   newMenuModel(&common),
	}
	if cfg.StartAdding {
		m.state = stateAddWords
		m.add = newAddModel(&common, addWords)
	}
	return m
}

func (m model) Init() tea.Cmd {
	log.Debug("Init() called", "state", m.state)
	cmds := []tea.Cmd{
		loadVocabCmd(m.common),
		watchVocabCmd(m.common),
		m.menu.spinner.Tick,
	}
	if m.state == stateAddWords {
		cmds = append(cmds, m.add.Init())
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been a fatal error, any key exits
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			// Drills swallow interrupts back to the menu, everywhere
			// else it quits.
			if m.state == stateWordDrill || m.state == stateSentenceDrill {
				m.common.player.Stop()
				m.drill.abort()
				m.state = stateShowMenu
				return m, nil
			}
			return m, tea.Quit

		case "ctrl+z":
			return m, tea.Suspend
		}

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height

	case errMsg:
		log.Error("fatal error", "error", msg.err)
		m.fatalErr = msg.err
		return m, nil

	case vocabLoadedMsg:
		firstLoad := !m.common.sweepDone && m.common.words == nil && m.common.sentences == nil
		m.common.words = msg.words
		m.common.sentences = msg.sentences
		if firstLoad {
			cmds = append(cmds, startSweepCmd(m.common))
		}

	case vocabChangedMsg:
		log.Debug("vocabulary changed on disk", "file", msg.name)
		cmds = append(cmds, loadVocabCmd(m.common))
		if m.watcher != nil {
			cmds = append(cmds, m.watcher.waitForChange())
		}

	case watcherReadyMsg:
		m.watcher = msg.watcher
		cmds = append(cmds, m.watcher.waitForChange())

	case sweepDoneMsg:
		m.common.wordReport = msg.words
		m.common.sentenceReport = msg.sentences
		m.common.sweepDone = true
		newMenu, cmd := m.menu.update(msg)
		m.menu = newMenu
		return m, cmd

	case menuSelectionMsg:
		return m.selectScreen(msg.choice)

	case backToMenuMsg:
		m.common.player.Stop()
		m.state = stateShowMenu
		if msg.status != "" {
			cmds = append(cmds, m.menu.showStatusMessage(msg.status))
		}
		if !m.common.sweepDone {
			cmds = append(cmds, m.menu.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case statusMessageTimeoutMsg:
		if applicationContext(msg) == menuContext {
			// The menu owns its status bar no matter which screen is up.
			m.menu.hideStatusMessage()
		}

	case entrySavedMsg:
		if msg.word != nil {
			m.common.words = append(m.common.words, *msg.word)
		}
		if msg.sentence != nil {
			m.common.sentences = append(m.common.sentences, *msg.sentence)
		}
	}

	// Process the active screen
	switch m.state {
	case stateShowMenu:
		newMenu, cmd := m.menu.update(msg)
		m.menu = newMenu
		cmds = append(cmds, cmd)

	case stateAddWords, stateAddSentences:
		newAdd, cmd := m.add.update(msg)
		m.add = newAdd
		cmds = append(cmds, cmd)

	case stateBrowse:
		newBrowse, cmd := m.browse.update(msg)
		m.browse = newBrowse
		cmds = append(cmds, cmd)

	case stateWordDrill, stateSentenceDrill:
		newDrill, cmd := m.drill.update(msg)
		m.drill = newDrill
		cmds = append(cmds, cmd)

	case stateShowReport:
		newReport, cmd := m.report.update(msg)
		m.report = newReport
		cmds = append(cmds, cmd)

	case stateShowHelp:
		newHelp, cmd := m.help.update(msg)
		m.help = newHelp
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// selectScreen switches to the screen behind a menu choice.
func (m model) selectScreen(choice menuChoice) (tea.Model, tea.Cmd) {
	switch choice {
	case choiceWordDrill:
		items := wordDrillItems(m.common.words)
		if len(items) == 0 {
			return m, m.menu.showStatusMessage("no words to practice yet")
		}
		m.state = stateWordDrill
		m.drill = newDrillModel(m.common, drillWords, items)
		return m, nil

	case choiceSentenceDrill:
		items := sentenceDrillItems(m.common.sentences)
		if len(items) == 0 {
			return m, m.menu.showStatusMessage("no sentences to practice yet")
		}
		m.state = stateSentenceDrill
		m.drill = newDrillModel(m.common, drillSentences, items)
		return m, nil

	case choiceAddWords:
		m.state = stateAddWords
		m.add = newAddModel(m.common, addWords)
		return m, m.add.Init()

	case choiceAddSentences:
		m.state = stateAddSentences
		m.add = newAddModel(m.common, addSentences)
		return m, m.add.Init()

	case choiceBrowse:
		m.state = stateBrowse
		m.browse = newBrowseModel(m.common)
		return m, m.browse.Init()

	case choiceReport:
		m.state = stateShowReport
		m.report = newReportModel(m.common)
		return m, m.report.Init()

	case choiceHelp:
		m.state = stateShowHelp
		m.help = newHelpModel(m.common)
		return m, nil

	case choiceQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr, true)
	}

	switch m.state {
	case stateAddWords, stateAddSentences:
		return m.add.view()
	case stateBrowse:
		return m.browse.view()
	case stateWordDrill, stateSentenceDrill:
		return m.drill.view()
	case stateShowReport:
		return m.report.view()
	case stateShowHelp:
		return m.help.view()
	default:
		return m.menu.view()
	}
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle.Render("ERROR"),
		err,
		subtleStyle.Render(exitMsg),
	)
	return "\n" + indent(s, 3)
}

// COMMANDS

// loadVocabCmd reads both stores into memory.
func loadVocabCmd(c *commonModel) tea.Cmd {
	return func() tea.Msg {
		if err := cache.EnsureDirs(c.cfg.DataDir); err != nil {
			return errMsg{err}
		}
		words, err := c.store.LoadWords()
		if err != nil {
			return errMsg{err}
		}
		sentences, err := c.store.LoadSentences()
		if err != nil {
			return errMsg{err}
		}
		log.Debug("vocabulary loaded", "words", len(words), "sentences", len(sentences))
		return vocabLoadedMsg{words: words, sentences: sentences}
	}
}

// startSweepCmd repairs missing audio for every stored record. It runs in
// the background; the menu stays usable while it works.
func startSweepCmd(c *commonModel) tea.Cmd {
	words := wordCacheItems(c.words)
	sentences := sentenceCacheItems(c.sentences)
	return func() tea.Msg {
		ctx := context.Background()
		wordRep := c.cache.Reconcile(ctx, words, cache.WordDir(c.cfg.DataDir))
		sentenceRep := c.cache.Reconcile(ctx, sentences, cache.SentenceDir(c.cfg.DataDir))
		return sweepDoneMsg{words: wordRep, sentences: sentenceRep}
	}
}

func wordCacheItems(words []vocab.Word) []cache.Item {
	items := make([]cache.Item, 0, len(words))
	for _, w := range words {
		items = append(items, cache.Item{Text: w.Character, Base: w.AudioFile})
	}
	return items
}

func sentenceCacheItems(sentences []vocab.Sentence) []cache.Item {
	items := make([]cache.Item, 0, len(sentences))
	for _, s := range sentences {
		items = append(items, cache.Item{Text: s.Text, Base: s.AudioFile})
	}
	return items
}

func waitForStatusMessageTimeout(appCtx applicationContext, t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg(appCtx)
	}
}

// ETC

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
