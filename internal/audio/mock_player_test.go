package audio

import (
	"context"
	"errors"
	"testing"
	"time"
)

var (
	_ Player = (*OtoPlayer)(nil)
	_ Player = (*MockPlayer)(nil)
)

func TestMockPlayerRecordsClips(t *testing.T) {
	m := NewMockPlayer()
	if err := m.Play(context.Background(), []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := m.Play(context.Background(), []byte("second")); err != nil {
		t.Fatal(err)
	}

	if got := m.PlayCount(); got != 2 {
		t.Errorf("PlayCount = %d, want 2", got)
	}
	if got := string(m.LastPlayed()); got != "second" {
		t.Errorf("LastPlayed = %q, want second", got)
	}

	m.Stop()
	if got := m.StopCount(); got != 1 {
		t.Errorf("StopCount = %d, want 1", got)
	}
}

func TestMockPlayerReturnsConfiguredError(t *testing.T) {
	m := NewMockPlayer()
	m.PlayErr = errors.New("device gone")
	if err := m.Play(context.Background(), []byte("clip")); err == nil {
		t.Fatal("expected configured error")
	}
	if got := m.PlayCount(); got != 1 {
		t.Errorf("failed play not recorded, PlayCount = %d", got)
	}
}

func TestMockPlayerHonorsCancellation(t *testing.T) {
	m := NewMockPlayer()
	m.Delay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.Play(ctx, []byte("long clip"))
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Play did not return after cancellation")
	}
}
