package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/go-mp3"
)

// Player plays one MP3 clip at a time. Play blocks until the clip finishes,
// the context is canceled, or Stop is called from another goroutine.
type Player interface {
	Play(ctx context.Context, clip []byte) error
	Stop()
}

// OtoPlayer plays MP3 clips through the system audio device. The oto
// context is created on first use from the first clip's sample rate and
// reused for the life of the process; oto/v3 offers no way to close it.
type OtoPlayer struct {
	mu      sync.Mutex
	context *oto.Context
	current *oto.Player
}

// NewOtoPlayer returns a player that has not yet touched the audio device.
func NewOtoPlayer() *OtoPlayer {
	return &OtoPlayer{}
}

// Play decodes clip and plays it to completion. A Stop call or context
// cancellation interrupts playback; interruption by Stop is not an error.
func (p *OtoPlayer) Play(ctx context.Context, clip []byte) error {
	if len(clip) == 0 {
		return errors.New("audio: empty clip")
	}
	decoder, err := mp3.NewDecoder(bytes.NewReader(clip))
	if err != nil {
		return fmt.Errorf("audio: decode mp3: %w", err)
	}

	p.mu.Lock()
	if p.context == nil {
		// go-mp3 always emits 16-bit little-endian stereo.
		octx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   decoder.SampleRate(),
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			p.mu.Unlock()
			return fmt.Errorf("audio: open device: %w", err)
		}
		<-ready
		p.context = octx
	}
	p.stopLocked()
	player := p.context.NewPlayer(decoder)
	p.current = player
	p.mu.Unlock()

	player.Play()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.Stop()
			return ctx.Err()
		case <-ticker.C:
			if player.IsPlaying() {
				continue
			}
			p.mu.Lock()
			if p.current == player {
				player.Close()
				p.current = nil
			}
			p.mu.Unlock()
			return nil
		}
	}
}

// Stop interrupts the clip currently playing, if any.
func (p *OtoPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *OtoPlayer) stopLocked() {
	if p.current != nil {
		p.current.Pause()
		p.current.Close()
		p.current = nil
	}
}
