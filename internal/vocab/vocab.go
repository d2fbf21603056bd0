// Package vocab stores the personal vocabulary as flat CSV records, one file
// per entry kind. Records are append-only: the tool never updates or deletes
// an entry once it is written.
package vocab

// Word is a single word entry. Character is the unique key; uniqueness is
// checked by whoever appends, not by the store.
type Word struct {
	Character string
	Pinyin    string
	Meaning   string
	AudioFile string
}

// Complete reports whether the entry carries everything a drill needs.
func (w Word) Complete() bool {
	return w.Character != "" && w.Pinyin != "" && w.Meaning != "" && w.AudioFile != ""
}

// Sentence is a single sentence entry, keyed by its text.
type Sentence struct {
	Text      string
	AudioFile string
}

// Complete reports whether the entry carries everything a drill needs.
func (s Sentence) Complete() bool {
	return s.Text != "" && s.AudioFile != ""
}

// HasWord reports whether character is already present in words.
func HasWord(words []Word, character string) bool {
	for _, w := range words {
		if w.Character == character {
			return true
		}
	}
	return false
}

// HasSentence reports whether text is already present in sentences.
func HasSentence(sentences []Sentence, text string) bool {
	for _, s := range sentences {
		if s.Text == text {
			return true
		}
	}
	return false
}
