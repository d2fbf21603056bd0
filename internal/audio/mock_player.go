package audio

import (
	"context"
	"sync"
	"time"
)

// MockPlayer simulates playback without producing sound. It backs the UI
// when audio output is disabled and records calls for tests.
type MockPlayer struct {
	mu    sync.Mutex
	plays [][]byte
	stops int

	// PlayErr, when set, is returned by every Play call.
	PlayErr error
	// Delay makes Play block, honoring context cancellation, to simulate
	// a clip of that length.
	Delay time.Duration
}

// NewMockPlayer returns a silent player.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{}
}

// Play records the clip and simulates playback.
func (m *MockPlayer) Play(ctx context.Context, clip []byte) error {
	m.mu.Lock()
	buf := make([]byte, len(clip))
	copy(buf, clip)
	m.plays = append(m.plays, buf)
	err := m.PlayErr
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}

// Stop records the interruption.
func (m *MockPlayer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
}

// PlayCount returns how many clips were played.
func (m *MockPlayer) PlayCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.plays)
}

// StopCount returns how many times playback was interrupted.
func (m *MockPlayer) StopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

// LastPlayed returns the most recent clip, or nil.
func (m *MockPlayer) LastPlayed() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.plays) == 0 {
		return nil
	}
	return m.plays[len(m.plays)-1]
}
