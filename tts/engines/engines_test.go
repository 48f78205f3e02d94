package engines

import (
	"context"

	"github.com/alouette/alouette/tts"
)

// fakeBridge scripts the bridge client's behavior for processor and factory
// tests.
type fakeBridge struct {
	available   bool
	audio       []byte
	synthErr    error
	voices      []string
	lastText    string
	lastConfig  tts.SynthesisConfig
	synthCalls  int
	synthesized chan struct{}
}

func (f *fakeBridge) IsAvailable(ctx context.Context) bool { return f.available }

func (f *fakeBridge) Synthesize(ctx context.Context, text string, config tts.SynthesisConfig) ([]byte, error) {
	f.synthCalls++
	f.lastText = text
	f.lastConfig = config
	if f.synthesized != nil {
		close(f.synthesized)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.synthErr != nil {
		return nil, f.synthErr
	}
	return f.audio, nil
}

func (f *fakeBridge) ListVoices(ctx context.Context) ([]string, error) {
	return f.voices, nil
}

type fakeDiscovery struct {
	voices []tts.Voice
}

func (f *fakeDiscovery) Discover(ctx context.Context) []tts.Voice { return f.voices }

// fakeBinding scripts the native platform speech layer.
type fakeBinding struct {
	voices    []tts.Voice
	audio     []byte
	speakErr  error
	stopCalls int
	lastText  string
}

func (f *fakeBinding) Name() string { return "fake" }

func (f *fakeBinding) Voices(ctx context.Context) ([]tts.Voice, error) {
	return f.voices, nil
}

func (f *fakeBinding) Speak(ctx context.Context, text string, config tts.SynthesisConfig) ([]byte, error) {
	f.lastText = text
	if f.speakErr != nil {
		return nil, f.speakErr
	}
	return f.audio, nil
}

func (f *fakeBinding) Stop() error {
	f.stopCalls++
	return nil
}
