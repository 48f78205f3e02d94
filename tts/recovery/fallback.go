package recovery

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alouette/alouette/tts"
	"github.com/alouette/alouette/tts/bridge"
)

// networkRetryDelay is how long to wait before retrying after a network
// failure, long enough for transient DNS or socket errors to clear.
const networkRetryDelay = 2 * time.Second

// fallbackChains maps a failed engine to the order recovery tries engines
// in. Each chain leads with the failed engine itself: transient faults
// deserve one more chance on the same backend before switching.
var fallbackChains = map[tts.EngineType][]tts.EngineType{
	tts.EngineCommandBridge:  {tts.EngineCommandBridge, tts.EngineNativePlatform},
	tts.EngineNativePlatform: {tts.EngineNativePlatform, tts.EngineCommandBridge},
}

// ProcessorProvider constructs processors for specific engines. The engine
// factory satisfies this.
type ProcessorProvider interface {
	CreateForEngine(ctx context.Context, engine tts.EngineType) (tts.Processor, error)
	IsEngineAvailable(ctx context.Context, engine tts.EngineType) bool
}

// FallbackHandler recovers a failed synthesis by retrying in kind or
// switching engines, depending on what went wrong.
type FallbackHandler struct {
	provider ProcessorProvider
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewFallbackHandler wires a handler to a processor provider.
func NewFallbackHandler(provider ProcessorProvider) *FallbackHandler {
	return &FallbackHandler{provider: provider, sleep: sleepContext}
}

// Recover inspects err and reruns the request along the appropriate path:
//
//   - voice not found: one retry on the same engine with the language's
//     default voice substituted
//   - network errors: a short wait, then one retry on the same engine
//   - anything else recoverable: walk the fallback chain, first a fresh
//     processor on the same engine, then the other engines
//
// Unrecoverable errors are returned unchanged.
func (h *FallbackHandler) Recover(ctx context.Context, failed tts.EngineType, req tts.SynthesisRequest, cause error) ([]byte, tts.EngineType, error) {
	switch tts.CodeOf(cause) {
	case tts.ErrorCodeVoiceNotFound:
		log.Info("voice not found, retrying with language default", "engine", failed, "voice", req.VoiceID)
		retry := req
		retry.VoiceID = bridge.DefaultVoiceForLanguage(retry.Config.LanguageCode)
		audio, err := h.runOn(ctx, failed, retry)
		if err != nil {
			return nil, failed, cause
		}
		return audio, failed, nil

	case tts.ErrorCodeNetwork, tts.ErrorCodeTimeout:
		log.Info("network failure, waiting before retry", "engine", failed, "delay", networkRetryDelay)
		if err := h.sleep(ctx, networkRetryDelay); err != nil {
			return nil, failed, err
		}
		audio, err := h.runOn(ctx, failed, req)
		if err != nil {
			return nil, failed, cause
		}
		return audio, failed, nil
	}

	if !tts.IsRecoverable(cause) {
		return nil, failed, cause
	}

	for _, engine := range fallbackChains[failed] {
		if !h.provider.IsEngineAvailable(ctx, engine) {
			continue
		}
		if engine == failed {
			log.Info("retrying on a fresh processor", "engine", engine)
		} else {
			log.Info("falling back to alternate engine", "from", failed, "to", engine)
		}
		audio, err := h.runOn(ctx, engine, req)
		if err != nil {
			log.Warn("fallback engine also failed", "engine", engine, "err", err)
			continue
		}
		return audio, engine, nil
	}

	return nil, failed, cause
}

// runOn builds a fresh processor for the engine, runs the request and
// disposes the processor.
func (h *FallbackHandler) runOn(ctx context.Context, engine tts.EngineType, req tts.SynthesisRequest) ([]byte, error) {
	processor, err := h.provider.CreateForEngine(ctx, engine)
	if err != nil {
		return nil, err
	}
	defer processor.Dispose()
	return processor.SynthesizeToAudio(ctx, req)
}
