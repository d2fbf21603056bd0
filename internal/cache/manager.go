package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Synthesizer produces spoken audio for a piece of text at a playback speed.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, speed float64) ([]byte, error)
}

// Item is one vocabulary record as the cache sees it: the text to speak and
// the stored base name its files derive from.
type Item struct {
	Text string
	Base string
}

// Report summarizes one reconciliation sweep.
type Report struct {
	Complete          int // items whose variants were all present already
	Missing           int // items that needed at least one generation
	Generated         int // individual files written
	Failed            int // individual files that could not be produced
	SkippedIncomplete int // items missing text or base name
}

// Items returns how many records the sweep looked at.
func (r Report) Items() int {
	return r.Complete + r.Missing + r.SkippedIncomplete
}

// Merge folds another report into this one.
func (r Report) Merge(other Report) Report {
	return Report{
		Complete:          r.Complete + other.Complete,
		Missing:           r.Missing + other.Missing,
		Generated:         r.Generated + other.Generated,
		Failed:            r.Failed + other.Failed,
		SkippedIncomplete: r.SkippedIncomplete + other.SkippedIncomplete,
	}
}

// MissingArtifactError reports that a variant's file, and any permitted
// fallback, is absent from the cache.
type MissingArtifactError struct {
	Base    string
	Variant Variant
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("cache: no audio for %s at speed %s", e.Base, e.Variant.Label)
}

// PartialWriteError reports a failed all-or-nothing generation. By the time
// the caller sees it, files written for the item have been removed.
type PartialWriteError struct {
	Base    string
	Variant Variant
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("cache: generating %s at speed %s: %v", e.Base, e.Variant.Label, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// Config assembles a Manager.
type Config struct {
	Synthesizer Synthesizer

	// DefaultSpeed overrides the synthesis speed of the default variant.
	// Zero keeps the variant's own value. Slower variants always use theirs.
	DefaultSpeed float64

	// RequestsPerMinute bounds sweep synthesis calls. Zero means 60.
	RequestsPerMinute int

	Logger *log.Logger
}

// Manager keeps every vocabulary entry's speed-variant audio files present
// on disk. Two repair paths exist: a best-effort sweep over existing records
// and an all-or-nothing path for records about to be created.
type Manager struct {
	synth        Synthesizer
	limiter      *rate.Limiter
	defaultSpeed float64
	logger       *log.Logger
}

// NewManager returns a Manager. Config.Synthesizer must be set.
func NewManager(cfg Config) *Manager {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default().WithPrefix("cache")
	}
	return &Manager{
		synth:        cfg.Synthesizer,
		limiter:      rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		defaultSpeed: cfg.DefaultSpeed,
		logger:       logger,
	}
}

// speedFor returns the synthesis speed used for a variant.
func (m *Manager) speedFor(v Variant) float64 {
	if v.IsDefault() && m.defaultSpeed > 0 {
		return m.defaultSpeed
	}
	return v.Value
}

// Reconcile fills in missing speed-variant files for every item under dir.
// It is a best-effort sweep: a failed variant is counted and logged, never
// fatal, and never stops the remaining variants or items. Running it again
// with nothing changed on disk generates nothing.
func (m *Manager) Reconcile(ctx context.Context, items []Item, dir string) Report {
	var rep Report
	for _, it := range items {
		if ctx.Err() != nil {
			m.logger.Warn("sweep interrupted", "err", ctx.Err())
			return rep
		}
		if it.Text == "" || it.Base == "" {
			m.logger.Warn("skipping incomplete record", "text", it.Text, "base", it.Base)
			rep.SkippedIncomplete++
			continue
		}

		missing := false
		for _, v := range Variants() {
			path := VariantPath(dir, it.Base, v)
			if _, err := os.Stat(path); err == nil {
				continue
			}
			missing = true
			m.logger.Warn("missing audio", "text", it.Text, "speed", v.Label, "file", filepath.Base(path))

			if err := m.limiter.Wait(ctx); err != nil {
				rep.Failed++
				continue
			}
			if err := m.generate(ctx, it.Text, v, path); err != nil {
				rep.Failed++
				m.logger.Error("generation failed", "text", it.Text, "speed", v.Label, "err", err)
				continue
			}
			rep.Generated++
			m.logger.Info("generated audio", "text", it.Text, "speed", v.Label, "file", filepath.Base(path))
		}

		if missing {
			rep.Missing++
		} else {
			rep.Complete++
		}
	}
	return rep
}

// CreateAll generates every speed variant for a new item under dir. It is
// all-or-nothing: when any variant fails, every file already written for the
// item is removed and the error names the variant that broke. Callers must
// not persist the record on error.
func (m *Manager) CreateAll(ctx context.Context, it Item, dir string) error {
	if it.Text == "" || it.Base == "" {
		return errors.New("cache: item is missing text or base name")
	}

	var written []string
	for _, v := range Variants() {
		path := VariantPath(dir, it.Base, v)
		if err := m.generate(ctx, it.Text, v, path); err != nil {
			for _, p := range written {
				if rmErr := os.Remove(p); rmErr != nil {
					m.logger.Error("cleanup failed", "file", p, "err", rmErr)
				}
			}
			return &PartialWriteError{Base: it.Base, Variant: v, Err: err}
		}
		written = append(written, path)
		m.logger.Debug("wrote audio", "file", filepath.Base(path), "speed", v.Label)
	}
	return nil
}

func (m *Manager) generate(ctx context.Context, text string, v Variant, path string) error {
	audio, err := m.synth.Synthesize(ctx, text, m.speedFor(v))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Resolve returns the playable file for base at the requested variant. A
// missing non-default variant falls back to the default variant's file; when
// even that is absent the result is a MissingArtifactError naming the
// variant that was asked for.
func Resolve(dir, base string, v Variant) (string, error) {
	path := VariantPath(dir, base, v)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if !v.IsDefault() {
		fallback := VariantPath(dir, base, DefaultVariant())
		if _, err := os.Stat(fallback); err == nil {
			return fallback, nil
		}
	}
	return "", &MissingArtifactError{Base: base, Variant: v}
}
