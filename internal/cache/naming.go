package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Audio layout under the data directory.
const (
	audioDirName    = "audio"
	wordSubdir      = "characters"
	sentenceSubdir  = "pro"
	defaultAudioExt = ".mp3"
)

// WordDir returns the word-audio directory under dataDir.
func WordDir(dataDir string) string {
	return filepath.Join(dataDir, audioDirName, wordSubdir)
}

// SentenceDir returns the sentence-audio directory under dataDir.
func SentenceDir(dataDir string) string {
	return filepath.Join(dataDir, audioDirName, sentenceSubdir)
}

// EnsureDirs creates both audio directories. Safe to call repeatedly.
func EnsureDirs(dataDir string) error {
	for _, dir := range []string{WordDir(dataDir), SentenceDir(dataDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cache: create %s: %w", dir, err)
		}
	}
	return nil
}

// SplitBase splits a stored audio file name into stem and extension. A
// missing extension defaults to ".mp3".
func SplitBase(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	stem = strings.TrimSuffix(name, ext)
	if ext == "" {
		ext = defaultAudioExt
	}
	return stem, ext
}

// VariantPath returns the on-disk location of one speed variant of base
// inside dir, e.g. dir/hello_slow.mp3 for base "hello.mp3".
func VariantPath(dir, base string, v Variant) string {
	stem, ext := SplitBase(base)
	return filepath.Join(dir, stem+v.Suffix+ext)
}

// Sanitize makes text usable as a file name stem: spaces become underscores
// and anything that is not a letter, digit, underscore, or hyphen is dropped.
// CJK characters are letters and survive.
func Sanitize(text string) string {
	text = strings.ReplaceAll(text, " ", "_")
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// UniqueBase derives an unused audio base name from a free-form idea. Taken
// holds the base names already stored. The first free candidate wins: the
// plain sanitized name, then names disambiguated with the sanitized
// secondary key (pinyin for words) and a counter, or with just a counter
// when no secondary key is given.
func UniqueBase(taken map[string]bool, idea, secondary string) string {
	stem := Sanitize(idea)
	if stem == "" {
		stem = "audio"
	}
	sec := Sanitize(secondary)

	name := stem + defaultAudioExt
	for n := 1; taken[name]; n++ {
		if sec != "" {
			name = fmt.Sprintf("%s_%s_%d%s", stem, sec, n, defaultAudioExt)
		} else {
			name = fmt.Sprintf("%s_%d%s", stem, n, defaultAudioExt)
		}
	}
	return name
}
