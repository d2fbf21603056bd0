package main

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/dgnsrekt/laoshi/internal/cache"
	"github.com/dgnsrekt/laoshi/internal/vocab"
)

func TestExportDataArchivesStoresAndAudio(t *testing.T) {
	dir := t.TempDir()
	if err := cache.EnsureDirs(dir); err != nil {
		t.Fatal(err)
	}

	store := vocab.NewStore(dir)
	err := store.AppendWord(vocab.Word{
		Character: "你好", Pinyin: "nǐ hǎo", Meaning: "hello", AudioFile: "hello.mp3",
	})
	if err != nil {
		t.Fatal(err)
	}

	wordClip := cache.VariantPath(cache.WordDir(dir), "hello.mp3", cache.DefaultVariant())
	sentenceClip := cache.VariantPath(cache.SentenceDir(dir), "nihaoma.mp3", cache.DefaultVariant())
	for _, p := range []string{wordClip, sentenceClip} {
		if err := os.WriteFile(p, []byte("mp3"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out := filepath.Join(t.TempDir(), "backup.tar.zst")
	n, err := exportData(dir, out)
	if err != nil {
		t.Fatal(err)
	}
	// vocabulary.csv plus two clips; sentences.csv doesn't exist yet.
	if n != 3 {
		t.Errorf("exported %d files, want 3", n)
	}

	got := archiveNames(t, out)
	want := []string{
		"audio/characters/hello_default.mp3",
		"audio/pro/nihaoma_default.mp3",
		"vocabulary.csv",
	}
	if !slices.Equal(got, want) {
		t.Errorf("archive holds %v, want %v", got, want)
	}
}

func TestExportDataToleratesFreshDataDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "backup.tar.zst")
	n, err := exportData(t.TempDir(), out)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("exported %d files from an empty dir", n)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("no archive written: %v", err)
	}
}

func archiveNames(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close() //nolint:errcheck

	zr, err := zstd.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	var names []string
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, hdr.Name)
	}
	slices.Sort(names)
	return names
}
