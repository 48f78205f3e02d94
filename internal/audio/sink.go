// Package audio provides the oto-backed playback sink handed to the
// orchestrator on desktop builds.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"

	"github.com/alouette/alouette/tts"
)

// Sink plays synthesized audio through the system device via oto.
type Sink struct {
	sampleRate int
	channels   int

	mu sync.Mutex
	// context is created on first Play; oto allows only one per process.
	context *oto.Context
	player  *oto.Player
	// current keeps the playing buffer alive; releasing it mid-playback
	// causes audible static once the GC reclaims the backing array.
	current  []byte
	disposed bool
}

// NewSink creates a sink with mono 16-bit output at 44.1kHz, the shape the
// synthesis backends produce.
func NewSink() *Sink {
	return &Sink{sampleRate: 44100, channels: 1}
}

func (s *Sink) ensureContext() (*oto.Context, error) {
	if s.context != nil {
		return s.context, nil
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   s.sampleRate,
		ChannelCount: s.channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready
	s.context = ctx
	return ctx, nil
}

// Play blocks until the audio finishes, the context is cancelled or the
// device fails.
func (s *Sink) Play(ctx context.Context, audio []byte, format tts.AudioFormat) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return tts.NewError(tts.ErrorCodeAudioPlaybackFailed, "audio sink disposed", nil)
	}
	otoCtx, err := s.ensureContext()
	if err != nil {
		s.mu.Unlock()
		return tts.NewError(tts.ErrorCodeAudioPlaybackFailed, "audio device unavailable", err)
	}
	if s.player != nil {
		s.player.Close()
	}
	s.current = audio
	player := otoCtx.NewPlayer(bytes.NewReader(audio))
	s.player = player
	s.mu.Unlock()

	log.Debug("playing audio", "format", format, "bytes", len(audio))
	player.Play()

	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case <-tick.C:
		}
	}

	s.mu.Lock()
	if s.player == player {
		s.player = nil
		s.current = nil
	}
	s.mu.Unlock()
	return player.Close()
}

// Stop aborts playback. Safe to call when idle.
func (s *Sink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != nil {
		err := s.player.Close()
		s.player = nil
		s.current = nil
		return err
	}
	return nil
}

// Dispose stops playback and suspends the audio context. Safe to call twice.
func (s *Sink) Dispose() error {
	if err := s.Stop(); err != nil {
		log.Warn("stopping playback during dispose failed", "err", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return nil
	}
	s.disposed = true
	if s.context != nil {
		return s.context.Suspend()
	}
	return nil
}
