package audio

import (
	"context"
	"testing"
)

// The real device paths need a sound card; these cover the validation that
// runs before oto is touched.

func TestOtoPlayerRejectsEmptyClip(t *testing.T) {
	p := NewOtoPlayer()
	if err := p.Play(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty clip")
	}
}

func TestOtoPlayerRejectsUndecodableClip(t *testing.T) {
	p := NewOtoPlayer()
	if err := p.Play(context.Background(), []byte("not an mp3 stream")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestStopWithoutPlaybackIsSafe(t *testing.T) {
	p := NewOtoPlayer()
	p.Stop()
	p.Stop()
}
