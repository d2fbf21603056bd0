package ui

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/laoshi/internal/cache"
	"github.com/dgnsrekt/laoshi/internal/vocab"
)

// stubSynth stands in for the speech server.
type stubSynth struct {
	err error
}

func (s stubSynth) Synthesize(_ context.Context, text string, speed float64) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("mp3:" + text), nil
}

func withCache(t *testing.T, c *commonModel, synth stubSynth) {
	t.Helper()
	c.cache = cache.NewManager(cache.Config{
		Synthesizer:       synth,
		RequestsPerMinute: 60000,
		Logger:            log.New(io.Discard),
	})
}

func TestSaveWordPersistsOnlyAfterAudioExists(t *testing.T) {
	c, _ := testCommon(t)
	withCache(t, c, stubSynth{})

	w := vocab.Word{Character: "你好", Pinyin: "nǐ hǎo", Meaning: "hello", AudioFile: "hello.mp3"}
	msg := saveWordCmd(c, w)()

	saved, ok := msg.(entrySavedMsg)
	if !ok {
		t.Fatalf("got %T, want entrySavedMsg", msg)
	}
	if saved.word == nil || saved.word.Character != "你好" {
		t.Fatalf("saved word = %+v", saved.word)
	}

	dir := cache.WordDir(c.cfg.DataDir)
	for _, v := range cache.Variants() {
		if _, err := os.Stat(cache.VariantPath(dir, "hello.mp3", v)); err != nil {
			t.Errorf("variant %s: %v", v.Label, err)
		}
	}

	words, err := c.store.LoadWords()
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 1 || words[0] != w {
		t.Errorf("LoadWords = %+v, want [%+v]", words, w)
	}
}

func TestSaveWordLeavesNoTraceOnSynthesisFailure(t *testing.T) {
	c, _ := testCommon(t)
	withCache(t, c, stubSynth{err: errors.New("server down")})

	w := vocab.Word{Character: "你好", Pinyin: "nǐ hǎo", Meaning: "hello", AudioFile: "hello.mp3"}
	msg := saveWordCmd(c, w)()

	if _, ok := msg.(entrySaveFailedMsg); !ok {
		t.Fatalf("got %T, want entrySaveFailedMsg", msg)
	}

	words, err := c.store.LoadWords()
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 0 {
		t.Errorf("record persisted despite failed synthesis: %+v", words)
	}

	entries, err := os.ReadDir(cache.WordDir(c.cfg.DataDir))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("partial audio left behind: %v", entries)
	}
}

func TestSaveSentencePersistsRecord(t *testing.T) {
	c, _ := testCommon(t)
	withCache(t, c, stubSynth{})

	s := vocab.Sentence{Text: "你好吗？", AudioFile: "nihaoma.mp3"}
	msg := saveSentenceCmd(c, s)()

	saved, ok := msg.(entrySavedMsg)
	if !ok {
		t.Fatalf("got %T, want entrySavedMsg", msg)
	}
	if saved.sentence == nil || saved.sentence.Text != "你好吗？" {
		t.Fatalf("saved sentence = %+v", saved.sentence)
	}

	sentences, err := c.store.LoadSentences()
	if err != nil {
		t.Fatal(err)
	}
	if len(sentences) != 1 || sentences[0] != s {
		t.Errorf("LoadSentences = %+v, want [%+v]", sentences, s)
	}
}

func TestCleanCanonicalizesInput(t *testing.T) {
	if got := clean("  你好  "); got != "你好" {
		t.Errorf("clean trimmed to %q", got)
	}
	// A combining accent collapses to its precomposed form.
	if got := clean("é"); got != "é" {
		t.Errorf("clean(e + combining acute) = %q, want é", got)
	}
}

func TestSavedNote(t *testing.T) {
	w := vocab.Word{Character: "你好", AudioFile: "hello.mp3"}
	if got := savedNote(entrySavedMsg{word: &w}); got != "saved 你好 (hello.mp3)" {
		t.Errorf("word note = %q", got)
	}
	s := vocab.Sentence{AudioFile: "nihaoma.mp3"}
	if got := savedNote(entrySavedMsg{sentence: &s}); got != "saved sentence (nihaoma.mp3)" {
		t.Errorf("sentence note = %q", got)
	}
}
