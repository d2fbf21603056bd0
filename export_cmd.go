package main

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/laoshi/internal/cache"
	"github.com/dgnsrekt/laoshi/internal/vocab"
)

const defaultExportName = "laoshi-export.tar.zst"

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Archive the vocabulary files and audio cache",
	Long:  paragraph(fmt.Sprintf("\n%s the vocabulary files and every cached audio clip into a zstd-compressed tar archive, for backups or moving to another machine.", keyword("Export"))),
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		out := defaultExportName
		if len(args) == 1 {
			out = args[0]
		}

		n, err := exportData(dataDir, out)
		if err != nil {
			return err
		}

		st, err := os.Stat(out)
		if err != nil {
			return fmt.Errorf("unable to stat archive: %w", err)
		}
		fmt.Printf("Exported %d file(s) to %s (%s)\n", n, out, humanize.Bytes(uint64(st.Size()))) //nolint:gosec
		return nil
	},
}

// exportData archives dir's CSV stores and audio tree into a zstd-compressed
// tar at out. Paths inside the archive are relative to dir. Missing pieces
// are skipped, so a fresh data directory exports cleanly.
func exportData(dir, out string) (int, error) {
	f, err := os.Create(out)
	if err != nil {
		return 0, fmt.Errorf("unable to create archive: %w", err)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("unable to start compressor: %w", err)
	}
	tw := tar.NewWriter(zw)

	fail := func(err error) (int, error) {
		_ = tw.Close()
		_ = zw.Close()
		_ = f.Close()
		return 0, err
	}

	count := 0
	addFile := func(path string) error {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("unable to relativize %s: %w", path, err)
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("unable to describe %s: %w", path, err)
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("unable to write header for %s: %w", path, err)
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(tw, src); err != nil {
			_ = src.Close()
			return fmt.Errorf("unable to archive %s: %w", path, err)
		}
		if err := src.Close(); err != nil {
			return fmt.Errorf("unable to close %s: %w", path, err)
		}
		count++
		return nil
	}

	store := vocab.NewStore(dir)
	for _, p := range []string{store.WordPath(), store.SentencePath()} {
		if err := addFile(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fail(err)
		}
	}

	for _, audioDir := range []string{cache.WordDir(dir), cache.SentenceDir(dir)} {
		err := filepath.WalkDir(audioDir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				if errors.Is(walkErr, fs.ErrNotExist) {
					return nil
				}
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			return addFile(path)
		})
		if err != nil {
			return fail(err)
		}
	}

	if err := tw.Close(); err != nil {
		_ = zw.Close()
		_ = f.Close()
		return 0, fmt.Errorf("unable to finish archive: %w", err)
	}
	if err := zw.Close(); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("unable to finish compression: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("unable to close archive: %w", err)
	}
	return count, nil
}
