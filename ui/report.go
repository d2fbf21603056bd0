package ui

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	humanize "github.com/dustin/go-humanize"

	"github.com/dgnsrekt/laoshi/internal/cache"
)

// reportStats is what the report screen gathers from disk.
type reportStats struct {
	files        int
	totalBytes   int64
	wordsMod     time.Time
	sentencesMod time.Time
}

type reportStatsMsg struct {
	stats reportStats
	err   error
}

type reportModel struct {
	common *commonModel
	stats  *reportStats
	err    error
}

func newReportModel(common *commonModel) reportModel {
	return reportModel{common: common}
}

func (m reportModel) Init() tea.Cmd {
	return reportStatsCmd(m.common)
}

func (m reportModel) update(msg tea.Msg) (reportModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "enter":
			return m, backToMenu("")
		}

	case reportStatsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		stats := msg.stats
		m.stats = &stats
	}

	return m, nil
}

func (m reportModel) view() string {
	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render("Cache Report") + "\n\n")

	b.WriteString(titleStyle.Render("Store") + "\n")
	fmt.Fprintf(&b, "  words      %d\n", len(m.common.words))
	fmt.Fprintf(&b, "  sentences  %d\n", len(m.common.sentences))
	if m.stats != nil {
		fmt.Fprintf(&b, "  %s  %s\n", "vocabulary.csv", modNote(m.stats.wordsMod))
		fmt.Fprintf(&b, "  %s   %s\n", "sentences.csv", modNote(m.stats.sentencesMod))
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Audio cache") + "\n")
	switch {
	case m.err != nil:
		b.WriteString("  " + warningStyle.Render(m.err.Error()) + "\n")
	case m.stats == nil:
		b.WriteString("  " + subtleStyle.Render("scanning"+ellipsis) + "\n")
	default:
		fmt.Fprintf(&b, "  files       %d\n", m.stats.files)
		fmt.Fprintf(&b, "  total size  %s\n", humanize.Bytes(uint64(m.stats.totalBytes)))
		location := filepath.Join(m.common.cfg.DataDir, "audio")
		fmt.Fprintf(&b, "  location    %s\n", shortenPath(m.common.cfg.HomeDir, location))
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Last sweep") + "\n")
	if !m.common.sweepDone {
		b.WriteString("  " + subtleStyle.Render("still running"+ellipsis) + "\n")
	} else {
		fmt.Fprintf(&b, "  words      %s\n", sweepLine(m.common.wordReport))
		fmt.Fprintf(&b, "  sentences  %s\n", sweepLine(m.common.sentenceReport))
	}

	b.WriteString("\n" + subtleStyle.Render("esc: back") + "\n")
	return indent(b.String(), 2)
}

// shortenPath swaps the home directory prefix for a tilde.
func shortenPath(home, path string) string {
	if home == "" {
		return path
	}
	if rest, ok := strings.CutPrefix(path, home); ok {
		return "~" + rest
	}
	return path
}

func modNote(t time.Time) string {
	if t.IsZero() {
		return subtleStyle.Render("never written")
	}
	return subtleStyle.Render("updated " + humanize.Time(t))
}

func sweepLine(r cache.Report) string {
	s := fmt.Sprintf("%d complete, %d repaired, %d generated", r.Complete, r.Missing, r.Generated)
	if r.Failed > 0 {
		s += warningStyle.Render(fmt.Sprintf(", %d failed", r.Failed))
	}
	if r.SkippedIncomplete > 0 {
		s += subtleStyle.Render(fmt.Sprintf(", %d incomplete skipped", r.SkippedIncomplete))
	}
	return s
}

// COMMANDS

func reportStatsCmd(c *commonModel) tea.Cmd {
	return func() tea.Msg {
		var stats reportStats

		for _, dir := range []string{
			cache.WordDir(c.cfg.DataDir),
			cache.SentenceDir(c.cfg.DataDir),
		} {
			err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return err
				}
				info, err := d.Info()
				if err != nil {
					return err
				}
				stats.files++
				stats.totalBytes += info.Size()
				return nil
			})
			if err != nil && !os.IsNotExist(err) {
				return reportStatsMsg{err: err}
			}
		}

		stats.wordsMod = mtimeOrZero(c.store.WordPath())
		stats.sentencesMod = mtimeOrZero(c.store.SentencePath())
		return reportStatsMsg{stats: stats}
	}
}

func mtimeOrZero(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
