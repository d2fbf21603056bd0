package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/laoshi/internal/cache"
	"github.com/dgnsrekt/laoshi/internal/vocab"
)

func testModel(t *testing.T) model {
	t.Helper()
	m := newModel(Config{
		DataDir:   t.TempDir(),
		ServerURL: "http://127.0.0.1:0",
	})
	return m.(model)
}

func TestMenuCursorWraps(t *testing.T) {
	c, _ := testCommon(t)
	m := newMenuModel(c)

	m, _ = m.update(keyMsg("k"))
	if m.cursor != len(menuEntries)-1 {
		t.Errorf("cursor after up from top = %d, want %d", m.cursor, len(menuEntries)-1)
	}
	m, _ = m.update(keyMsg("j"))
	if m.cursor != 0 {
		t.Errorf("cursor after down from bottom = %d, want 0", m.cursor)
	}
}

func TestMenuEnterOpensSelection(t *testing.T) {
	c, _ := testCommon(t)
	m := newMenuModel(c)
	m.cursor = 4 // Browse Vocabulary

	_, cmd := m.update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	sel, ok := cmd().(menuSelectionMsg)
	if !ok {
		t.Fatalf("got %T, want menuSelectionMsg", cmd())
	}
	if sel.choice != choiceBrowse {
		t.Errorf("choice = %v, want choiceBrowse", sel.choice)
	}
}

func TestSweepSummary(t *testing.T) {
	tests := []struct {
		name string
		msg  sweepDoneMsg
		want string
	}{
		{
			"nothing to do",
			sweepDoneMsg{words: cache.Report{Complete: 4}, sentences: cache.Report{Complete: 2}},
			"audio cache complete",
		},
		{
			"files generated",
			sweepDoneMsg{words: cache.Report{Generated: 2}, sentences: cache.Report{Generated: 1}},
			"audio cache: 3 file(s) generated",
		},
		{
			"failures included",
			sweepDoneMsg{words: cache.Report{Generated: 2, Failed: 1}},
			"audio cache: 2 file(s) generated, 1 failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sweepSummary(tt.msg); got != tt.want {
				t.Errorf("sweepSummary = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectScreenBlocksEmptyDrills(t *testing.T) {
	m := testModel(t)

	next, _ := m.Update(menuSelectionMsg{choice: choiceWordDrill})
	mm := next.(model)
	defer mm.menu.statusMessageTimer.Stop()

	if mm.state != stateShowMenu {
		t.Errorf("state = %s, want the menu", mm.state)
	}
	if !strings.Contains(mm.menu.statusMessage, "no words to practice yet") {
		t.Errorf("status = %q", mm.menu.statusMessage)
	}
}

func TestSelectScreenOpensDrill(t *testing.T) {
	m := testModel(t)
	m.common.words = []vocab.Word{
		{Character: "你好", Pinyin: "nǐ hǎo", Meaning: "hello", AudioFile: "hello.mp3"},
	}

	next, _ := m.Update(menuSelectionMsg{choice: choiceWordDrill})
	mm := next.(model)

	if mm.state != stateWordDrill {
		t.Fatalf("state = %s, want word drill", mm.state)
	}
	if mm.drill.engine.Len() != 1 {
		t.Errorf("drill items = %d, want 1", mm.drill.engine.Len())
	}
}

func TestStartAddingOpensAddScreen(t *testing.T) {
	m := newModel(Config{
		DataDir:     t.TempDir(),
		ServerURL:   "http://127.0.0.1:0",
		StartAdding: true,
	})
	mm := m.(model)
	if mm.state != stateAddWords {
		t.Errorf("state = %s, want adding words", mm.state)
	}
	if mm.add.form == nil {
		t.Error("add form not constructed")
	}
}

func TestCtrlCInDrillReturnsToMenu(t *testing.T) {
	m := testModel(t)
	m.common.words = []vocab.Word{
		{Character: "你好", Pinyin: "nǐ hǎo", Meaning: "hello", AudioFile: "hello.mp3"},
	}
	next, _ := m.Update(menuSelectionMsg{choice: choiceWordDrill})
	mm := next.(model)

	next, cmd := mm.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	mm = next.(model)
	if mm.state != stateShowMenu {
		t.Errorf("state after interrupt = %s, want the menu", mm.state)
	}
	if cmd != nil {
		t.Error("interrupt in a drill should not quit")
	}
}

func TestCtrlCOnMenuQuits(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("no command returned")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("got %T, want tea.QuitMsg", cmd())
	}
}

func TestFatalErrorShowsAndExits(t *testing.T) {
	m := testModel(t)

	next, _ := m.Update(errMsg{errors.New("the data directory went away")})
	mm := next.(model)
	if mm.fatalErr == nil {
		t.Fatal("fatalErr not recorded")
	}

	view := mm.View()
	if !strings.Contains(view, "the data directory went away") {
		t.Errorf("error view missing the cause:\n%s", view)
	}
	if !strings.Contains(view, "press any key to exit") {
		t.Errorf("error view missing the exit hint:\n%s", view)
	}

	_, cmd := mm.Update(keyMsg("x"))
	if cmd == nil {
		t.Fatal("key after fatal error produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("got %T, want tea.QuitMsg", cmd())
	}
}

func TestEntrySavedExtendsLoadedVocabulary(t *testing.T) {
	m := testModel(t)

	w := vocab.Word{Character: "你好", Pinyin: "nǐ hǎo", Meaning: "hello", AudioFile: "hello.mp3"}
	next, _ := m.Update(entrySavedMsg{word: &w})
	mm := next.(model)
	if len(mm.common.words) != 1 {
		t.Errorf("words = %d, want 1", len(mm.common.words))
	}

	s := vocab.Sentence{Text: "你好吗？", AudioFile: "nihaoma.mp3"}
	next, _ = mm.Update(entrySavedMsg{sentence: &s})
	mm = next.(model)
	if len(mm.common.sentences) != 1 {
		t.Errorf("sentences = %d, want 1", len(mm.common.sentences))
	}
}

func TestCacheItemsCarryTextAndBase(t *testing.T) {
	words := []vocab.Word{{Character: "你好", Pinyin: "nǐ hǎo", Meaning: "hello", AudioFile: "hello.mp3"}}
	items := wordCacheItems(words)
	if len(items) != 1 || items[0].Text != "你好" || items[0].Base != "hello.mp3" {
		t.Errorf("wordCacheItems = %+v", items)
	}

	sentences := []vocab.Sentence{{Text: "你好吗？", AudioFile: "nihaoma.mp3"}}
	items = sentenceCacheItems(sentences)
	if len(items) != 1 || items[0].Text != "你好吗？" || items[0].Base != "nihaoma.mp3" {
		t.Errorf("sentenceCacheItems = %+v", items)
	}
}

func TestIndent(t *testing.T) {
	if got := indent("a\nb", 2); got != "  a\n  b\n" {
		t.Errorf("indent = %q", got)
	}
	if got := indent("a", 0); got != "a" {
		t.Errorf("indent with zero width = %q", got)
	}
}

func TestShortenPath(t *testing.T) {
	if got := shortenPath("/home/kim", "/home/kim/chinese/audio"); got != "~/chinese/audio" {
		t.Errorf("shortenPath = %q", got)
	}
	if got := shortenPath("", "/srv/data"); got != "/srv/data" {
		t.Errorf("shortenPath without home = %q", got)
	}
	if got := shortenPath("/home/kim", "/srv/data"); got != "/srv/data" {
		t.Errorf("shortenPath outside home = %q", got)
	}
}
