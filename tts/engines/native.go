package engines

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/alouette/alouette/tts"
)

// Binding is the host platform's speech layer. The core only specifies this
// contract; the concrete bindings are platform-SDK code.
type Binding interface {
	// Name identifies the binding for diagnostics.
	Name() string

	// Voices lists the voices the platform engine offers.
	Voices(ctx context.Context) ([]tts.Voice, error)

	// Speak synthesizes text. Bindings that play audio as a side effect
	// return the direct-playback sentinel instead of audio bytes.
	Speak(ctx context.Context, text string, config tts.SynthesisConfig) ([]byte, error)

	// Stop aborts in-flight speech.
	Stop() error
}

// NativeEngine drives the host platform's built-in speech bindings.
type NativeEngine struct {
	binding Binding

	mu       sync.Mutex
	disposed bool
}

// NewNativeEngine creates the native-platform processor variant.
func NewNativeEngine(binding Binding) *NativeEngine {
	return &NativeEngine{binding: binding}
}

// EngineType identifies this variant.
func (e *NativeEngine) EngineType() tts.EngineType { return tts.EngineNativePlatform }

// GetAvailableVoices lists the platform engine's voices.
func (e *NativeEngine) GetAvailableVoices(ctx context.Context) ([]tts.Voice, error) {
	if e.isDisposed() {
		return nil, tts.NewError(tts.ErrorCodeEngineNotAvailable, "processor disposed", nil)
	}
	voices, err := e.binding.Voices(ctx)
	if err != nil {
		return nil, err
	}
	if len(voices) == 0 {
		return nil, tts.NewNoVoicesAvailable(tts.EngineNativePlatform)
	}
	return voices, nil
}

// SynthesizeToAudio validates the request and hands it to the binding.
func (e *NativeEngine) SynthesizeToAudio(ctx context.Context, req tts.SynthesisRequest) ([]byte, error) {
	if e.isDisposed() {
		return nil, tts.NewError(tts.ErrorCodeEngineNotAvailable, "processor disposed", nil)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	config := req.Config
	config.VoiceID = req.VoiceID
	audio, err := e.binding.Speak(ctx, req.Text, config)
	if err != nil {
		return nil, tts.NewSynthesisFailed("native platform synthesis failed", err).
			WithDetail("binding", e.binding.Name())
	}
	if tts.IsDirectPlayback(audio) {
		log.Debug("native binding played audio directly", "binding", e.binding.Name())
	}
	return audio, nil
}

// Stop aborts in-flight speech. Idempotent.
func (e *NativeEngine) Stop() error {
	return e.binding.Stop()
}

// Dispose stops speech and marks the processor unusable. Idempotent.
func (e *NativeEngine) Dispose() error {
	if err := e.binding.Stop(); err != nil {
		return err
	}
	e.mu.Lock()
	e.disposed = true
	e.mu.Unlock()
	return nil
}

func (e *NativeEngine) isDisposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}
