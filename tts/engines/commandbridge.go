package engines

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/alouette/alouette/tts"
	"github.com/alouette/alouette/tts/markup"
)

// BridgeClient is the slice of the bridge subprocess client the processors
// depend on.
type BridgeClient interface {
	IsAvailable(ctx context.Context) bool
	Synthesize(ctx context.Context, text string, config tts.SynthesisConfig) ([]byte, error)
	ListVoices(ctx context.Context) ([]string, error)
}

// VoiceDiscoverer is the slice of the discovery layer the processors use.
type VoiceDiscoverer interface {
	Discover(ctx context.Context) []tts.Voice
}

// CommandBridgeEngine synthesizes through the external bridge executable.
type CommandBridgeEngine struct {
	bridge    BridgeClient
	discovery VoiceDiscoverer

	mu       sync.Mutex
	cancel   context.CancelFunc
	disposed bool
}

// NewCommandBridgeEngine creates the command-bridge processor variant.
func NewCommandBridgeEngine(bridgeClient BridgeClient, disc VoiceDiscoverer) *CommandBridgeEngine {
	return &CommandBridgeEngine{bridge: bridgeClient, discovery: disc}
}

// EngineType identifies this variant.
func (e *CommandBridgeEngine) EngineType() tts.EngineType { return tts.EngineCommandBridge }

// GetAvailableVoices resolves voices through the discovery tiers.
func (e *CommandBridgeEngine) GetAvailableVoices(ctx context.Context) ([]tts.Voice, error) {
	if e.isDisposed() {
		return nil, tts.NewError(tts.ErrorCodeEngineNotAvailable, "processor disposed", nil)
	}
	voices := e.discovery.Discover(ctx)
	if len(voices) == 0 {
		return nil, tts.NewNoVoicesAvailable(tts.EngineCommandBridge)
	}
	return voices, nil
}

// SynthesizeToAudio validates the request, optionally wraps the text in the
// markup envelope, and delegates to the bridge client.
func (e *CommandBridgeEngine) SynthesizeToAudio(ctx context.Context, req tts.SynthesisRequest) ([]byte, error) {
	if e.isDisposed() {
		return nil, tts.NewError(tts.ErrorCodeEngineNotAvailable, "processor disposed", nil)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		if e.cancel != nil {
			e.cancel()
			e.cancel = nil
		}
		e.mu.Unlock()
	}()

	text := req.Text
	config := req.Config
	config.VoiceID = req.VoiceID
	if req.OutputFormat != "" {
		config.AudioFormat = req.OutputFormat
	}

	if config.UseMarkup {
		voice := tts.Voice{ID: req.VoiceID, LanguageCode: config.LanguageCode}
		text = markup.Generate(req.Text, voice, config)
		log.Debug("synthesizing with markup envelope", "voice", req.VoiceID, "markupLen", len(text))
	}

	return e.bridge.Synthesize(ctx, text, config)
}

// Stop cancels any in-flight bridge invocation. Idempotent.
func (e *CommandBridgeEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	return nil
}

// Dispose stops in-flight work and marks the processor unusable. Idempotent.
func (e *CommandBridgeEngine) Dispose() error {
	if err := e.Stop(); err != nil {
		return err
	}
	e.mu.Lock()
	e.disposed = true
	e.mu.Unlock()
	return nil
}

func (e *CommandBridgeEngine) isDisposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}
