package tts

import "context"

// Processor is the polymorphic synthesis unit backing the orchestrator.
// The module ships two variants: one driving the external command-bridge
// executable and one driving the host platform's speech bindings.
//
// Stop and Dispose are idempotent: callers may invoke them at any time,
// including when nothing is in flight or after a previous Dispose.
type Processor interface {
	// EngineType reports which backend this processor drives.
	EngineType() EngineType

	// GetAvailableVoices returns the voices this processor can synthesize with.
	GetAvailableVoices(ctx context.Context) ([]Voice, error)

	// SynthesizeToAudio converts the request into audio bytes.
	SynthesizeToAudio(ctx context.Context, req SynthesisRequest) ([]byte, error)

	// Stop aborts any in-flight synthesis. Safe to call when idle.
	Stop() error

	// Dispose releases pooled and temporary resources. Safe to call twice.
	Dispose() error
}

// DirectPlaybackSentinel is the payload a processor returns when its backend
// played the audio as a side effect of synthesis instead of handing back
// decodable bytes. Any payload of at most DirectPlaybackMaxLen bytes is
// treated as such a marker and never forwarded to the audio sink.
var DirectPlaybackSentinel = []byte("played")

// DirectPlaybackMaxLen bounds the sentinel payload size.
const DirectPlaybackMaxLen = 10

// IsDirectPlayback reports whether audio is a direct-playback marker rather
// than real audio bytes.
func IsDirectPlayback(audio []byte) bool {
	return len(audio) > 0 && len(audio) <= DirectPlaybackMaxLen
}

// AudioSink consumes synthesized audio bytes for playback. The orchestrator
// treats it as a black box; implementations live outside the core contract.
type AudioSink interface {
	// Play blocks until playback completes or fails.
	Play(ctx context.Context, audio []byte, format AudioFormat) error

	// Stop aborts in-flight playback. Safe to call when idle.
	Stop() error

	// Dispose releases the audio device. Safe to call twice.
	Dispose() error
}
