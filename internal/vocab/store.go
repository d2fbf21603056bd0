package vocab

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Backing file names, relative to the data directory.
const (
	WordFileName     = "vocabulary.csv"
	SentenceFileName = "sentences.csv"
)

// Column names. Loading is header-driven, so column order in an existing
// file does not matter.
var (
	wordHeader     = []string{"character", "pinyin", "character_meaning", "audio_file_name"}
	sentenceHeader = []string{"sentence_text", "audio_file_name"}
)

// Store reads and appends vocabulary files under a single data directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// WordPath returns the word file location.
func (s *Store) WordPath() string { return filepath.Join(s.dir, WordFileName) }

// SentencePath returns the sentence file location.
func (s *Store) SentencePath() string { return filepath.Join(s.dir, SentenceFileName) }

// LoadWords reads every word record. A missing file yields an empty list.
// Rows with missing trailing fields are kept, with the absent fields empty.
func (s *Store) LoadWords() ([]Word, error) {
	rows, header, err := readRecords(s.WordPath())
	if err != nil {
		return nil, err
	}
	idx := columnIndex(header)
	words := make([]Word, 0, len(rows))
	for _, row := range rows {
		words = append(words, Word{
			Character: field(row, idx, "character"),
			Pinyin:    field(row, idx, "pinyin"),
			Meaning:   field(row, idx, "character_meaning"),
			AudioFile: field(row, idx, "audio_file_name"),
		})
	}
	return words, nil
}

// LoadSentences reads every sentence record. Same tolerance rules as
// LoadWords.
func (s *Store) LoadSentences() ([]Sentence, error) {
	rows, header, err := readRecords(s.SentencePath())
	if err != nil {
		return nil, err
	}
	idx := columnIndex(header)
	sentences := make([]Sentence, 0, len(rows))
	for _, row := range rows {
		sentences = append(sentences, Sentence{
			Text:      field(row, idx, "sentence_text"),
			AudioFile: field(row, idx, "audio_file_name"),
		})
	}
	return sentences, nil
}

// AppendWord appends one word record, writing the header first when the file
// is new or empty.
func (s *Store) AppendWord(w Word) error {
	return appendRecord(s.WordPath(), wordHeader,
		[]string{w.Character, w.Pinyin, w.Meaning, w.AudioFile})
}

// AppendSentence appends one sentence record, writing the header first when
// the file is new or empty.
func (s *Store) AppendSentence(sen Sentence) error {
	return appendRecord(s.SentencePath(), sentenceHeader,
		[]string{sen.Text, sen.AudioFile})
}

func readRecords(path string) (rows [][]string, header []string, err error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("vocab: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	// Tolerate rows that are shorter or longer than the header.
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("vocab: parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[1:], all[0], nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

func field(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func appendRecord(path string, header, record []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("vocab: open %s: %w", path, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close() //nolint:errcheck,gosec
		return fmt.Errorf("vocab: stat %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write(header); err != nil {
			f.Close() //nolint:errcheck,gosec
			return fmt.Errorf("vocab: write header to %s: %w", path, err)
		}
	}
	if err := w.Write(record); err != nil {
		f.Close() //nolint:errcheck,gosec
		return fmt.Errorf("vocab: write record to %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close() //nolint:errcheck,gosec
		return fmt.Errorf("vocab: flush %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("vocab: close %s: %w", path, err)
	}
	return nil
}
