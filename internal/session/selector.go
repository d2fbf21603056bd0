package session

import "github.com/dgnsrekt/laoshi/internal/cache"

// Selector cycles through the playback-speed variants during a sentence
// drill. It starts at the default speed, wraps around in both directions,
// and keeps its position across item advances and pass restarts.
type Selector struct {
	variants []cache.Variant
	idx      int
}

// NewSelector returns a selector positioned at the default variant.
func NewSelector() *Selector {
	vs := cache.Variants()
	idx := len(vs) - 1
	for i, v := range vs {
		if v.IsDefault() {
			idx = i
			break
		}
	}
	return &Selector{variants: vs, idx: idx}
}

// Current returns the selected variant.
func (s *Selector) Current() cache.Variant {
	return s.variants[s.idx]
}

// Faster selects the next faster variant, wrapping to the slowest.
func (s *Selector) Faster() cache.Variant {
	s.idx = (s.idx + 1) % len(s.variants)
	return s.Current()
}

// Slower selects the next slower variant, wrapping to the fastest.
func (s *Selector) Slower() cache.Variant {
	s.idx = (s.idx - 1 + len(s.variants)) % len(s.variants)
	return s.Current()
}
