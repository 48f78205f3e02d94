// Package service hosts the orchestrator tying engine selection, discovery,
// recovery and audio playback into one stateful facade.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/alouette/alouette/tts"
	"github.com/alouette/alouette/tts/bridge"
	"github.com/alouette/alouette/tts/discovery"
	"github.com/alouette/alouette/tts/recovery"
)

// State is the orchestrator lifecycle state.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateReady         State = "ready"
	StateError         State = "error"
	StateDisposed      State = "disposed"
)

// EngineFactory is the slice of the engines factory the orchestrator uses.
type EngineFactory interface {
	CreateForPlatform(ctx context.Context) (tts.Processor, error)
	CreateForEngine(ctx context.Context, engine tts.EngineType) (tts.Processor, error)
	IsEngineAvailable(ctx context.Context, engine tts.EngineType) bool
	AvailableEngines(ctx context.Context) []tts.EngineType
}

type audioKey struct {
	text    string
	voiceID string
	format  tts.AudioFormat
}

// Service orchestrates the synthesis pipeline. All exported methods are safe
// for concurrent use.
type Service struct {
	config  tts.Config
	factory EngineFactory
	sink    tts.AudioSink

	fallback *recovery.FallbackHandler
	retry    recovery.RetryPolicy

	requestSeq uint64

	mu           sync.Mutex
	state        State
	synthesizing bool
	processor    tts.Processor
	lastErr      error
	breakers     map[tts.EngineType]*recovery.CircuitBreaker
	audio        map[audioKey][]byte
}

// New creates an uninitialized service. The sink may be nil for callers that
// only synthesize to bytes.
func New(config tts.Config, factory EngineFactory, sink tts.AudioSink) *Service {
	return &Service{
		config:   config,
		factory:  factory,
		sink:     sink,
		fallback: recovery.NewFallbackHandler(factory),
		retry:    recovery.PolicyFromConfig(config),
		state:    StateUninitialized,
		breakers: map[tts.EngineType]*recovery.CircuitBreaker{},
		audio:    map[audioKey][]byte{},
	}
}

// State reports the lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsSynthesizing reports whether a synthesis call is in flight.
func (s *Service) IsSynthesizing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synthesizing
}

func (s *Service) setSynthesizing(v bool) {
	s.mu.Lock()
	s.synthesizing = v
	s.mu.Unlock()
}

// LastError returns the error that put the service into the error state.
func (s *Service) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// CurrentEngine reports the active engine, empty when not ready.
func (s *Service) CurrentEngine() tts.EngineType {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processor == nil {
		return ""
	}
	return s.processor.EngineType()
}

// Initialize selects and constructs the engine. A configured engine name is
// honored first; when it fails and auto fallback is on, platform selection
// takes over. Initialize on an already-ready service is a no-op.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateReady:
		s.mu.Unlock()
		return nil
	case StateDisposed:
		s.mu.Unlock()
		return tts.NewError(tts.ErrorCodeInitializationFailed, "service is disposed", nil)
	case StateInitializing:
		s.mu.Unlock()
		return tts.NewError(tts.ErrorCodeInitializationFailed, "initialization already in progress", nil)
	}
	s.state = StateInitializing
	s.mu.Unlock()

	processor, err := s.buildInitialProcessor(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateError
		s.lastErr = err
		return tts.NewError(tts.ErrorCodeInitializationFailed, "engine initialization failed", err)
	}
	s.processor = processor
	s.state = StateReady
	s.lastErr = nil
	log.Info("speech service ready", "engine", processor.EngineType())
	return nil
}

func (s *Service) buildInitialProcessor(ctx context.Context) (tts.Processor, error) {
	if s.config.Engine != "" {
		engine, err := tts.ParseEngineType(s.config.Engine)
		if err != nil {
			return nil, err
		}
		processor, err := s.factory.CreateForEngine(ctx, engine)
		if err == nil {
			return processor, nil
		}
		if !s.config.AutoFallback {
			return nil, err
		}
		log.Warn("configured engine unavailable, falling back to platform selection",
			"engine", engine, "err", err)
	}
	return s.factory.CreateForPlatform(ctx)
}

// SwitchEngine replaces the active processor with one for the requested
// engine. The new processor is constructed before the old one is disposed,
// so a failed switch leaves the service on its previous engine.
func (s *Service) SwitchEngine(ctx context.Context, engine tts.EngineType) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return tts.NewNotInitialized("switchEngine")
	}
	old := s.processor
	s.mu.Unlock()

	if old.EngineType() == engine {
		return nil
	}

	replacement, err := s.factory.CreateForEngine(ctx, engine)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.processor = replacement
	s.audio = map[audioKey][]byte{}
	s.mu.Unlock()

	if err := old.Dispose(); err != nil {
		log.Warn("disposing previous engine failed", "engine", old.EngineType(), "err", err)
	}
	log.Info("switched engine", "from", old.EngineType(), "to", engine)
	return nil
}

// GetVoices lists the active engine's voices.
func (s *Service) GetVoices(ctx context.Context) ([]tts.Voice, error) {
	processor, err := s.readyProcessor("getVoices")
	if err != nil {
		return nil, err
	}
	return processor.GetAvailableVoices(ctx)
}

// GetVoicesForLanguage lists voices filtered to one language.
func (s *Service) GetVoicesForLanguage(ctx context.Context, languageCode string) ([]tts.Voice, error) {
	voices, err := s.GetVoices(ctx)
	if err != nil {
		return nil, err
	}
	return discovery.SortByPreference(discovery.FilterByLanguage(voices, languageCode)), nil
}

// SynthesizeText synthesizes text to audio bytes with the service defaults
// plus any overrides. Results are cached by text, voice and format; a direct
// playback marker is never cached.
func (s *Service) SynthesizeText(ctx context.Context, text string, overrides ...tts.ConfigOverride) ([]byte, error) {
	result := s.Synthesize(ctx, text, overrides...)
	if !result.Success {
		return nil, result.Err
	}
	return result.Audio, nil
}

// Synthesize runs the full synthesis pipeline and reports the detailed
// outcome: the engine and voice actually used, processing time and a
// request id for correlating log lines.
func (s *Service) Synthesize(ctx context.Context, text string, overrides ...tts.ConfigOverride) tts.SynthesisResult {
	start := time.Now()
	requestID := fmt.Sprintf("req-%d", atomic.AddUint64(&s.requestSeq, 1))

	processor, err := s.readyProcessor("synthesizeText")
	if err != nil {
		return s.finishResult(requestID, tts.FailureResult("", err, time.Since(start)))
	}

	config := s.config.SynthesisDefaults().WithOverrides(overrides...)
	voice := config.VoiceID
	if voice == "" {
		voice = bridge.DefaultVoiceForLanguage(config.LanguageCode)
	}
	req := tts.SynthesisRequest{
		Text:         text,
		VoiceID:      voice,
		OutputFormat: config.AudioFormat,
		Config:       config,
	}

	key := audioKey{text: text, voiceID: voice, format: config.AudioFormat}
	s.mu.Lock()
	cached, ok := s.audio[key]
	s.mu.Unlock()
	if ok {
		log.Debug("serving synthesis from cache", "request", requestID, "voice", voice,
			"size", humanize.Bytes(uint64(len(cached))))
		return s.finishResult(requestID, tts.SuccessResult(processor.EngineType(), voice, cached, time.Since(start)))
	}

	s.setSynthesizing(true)
	audio, usedEngine, err := s.synthesizeWithRecovery(ctx, processor, req)
	s.setSynthesizing(false)
	if err != nil {
		return s.finishResult(requestID, tts.FailureResult(usedEngine, err, time.Since(start)))
	}

	if !tts.IsDirectPlayback(audio) {
		s.mu.Lock()
		s.audio[key] = audio
		s.mu.Unlock()
	}
	return s.finishResult(requestID, tts.SuccessResult(usedEngine, voice, audio, time.Since(start)))
}

func (s *Service) finishResult(requestID string, result tts.SynthesisResult) tts.SynthesisResult {
	result.RequestID = requestID
	if result.Success {
		log.Debug("synthesized text", "request", requestID, "engine", result.Engine,
			"voice", result.VoiceUsed, "took", result.ProcessingTime,
			"size", humanize.Bytes(uint64(len(result.Audio))))
	} else {
		log.Debug("synthesis failed", "request", requestID, "engine", result.Engine,
			"took", result.ProcessingTime, "err", result.Err)
	}
	return result
}

// synthesizeWithRecovery runs the request through the engine's circuit
// breaker with retries, then hands terminal failures to the fallback
// handler before giving up. It reports the engine the audio actually
// came from.
func (s *Service) synthesizeWithRecovery(ctx context.Context, processor tts.Processor, req tts.SynthesisRequest) ([]byte, tts.EngineType, error) {
	engine := processor.EngineType()
	breaker := s.breakerFor(engine)

	var audio []byte
	err := recovery.RetryWithBackoff(ctx, s.retry, "synthesize", func(ctx context.Context) error {
		return breaker.Execute(ctx, func(ctx context.Context) error {
			var synthErr error
			audio, synthErr = processor.SynthesizeToAudio(ctx, req)
			return synthErr
		})
	})
	if err == nil {
		return audio, engine, nil
	}

	recovered, usedEngine, recErr := s.fallback.Recover(ctx, engine, req, err)
	if recErr == nil {
		log.Info("synthesis recovered", "engine", usedEngine)
		return recovered, usedEngine, nil
	}
	return nil, engine, tts.NewSynthesisFailed(
		fmt.Sprintf("synthesis failed on engine %s", engine), recErr).
		WithDetail("engine", string(engine))
}

// SpeakText synthesizes and plays text. When voiceID is empty the voice is
// resolved from the human language name ("french") against the active
// engine's voices, falling back to the engine's first voice, and failing
// only when the engine has no voices at all.
func (s *Service) SpeakText(ctx context.Context, text, voiceID, languageName string, overrides ...tts.ConfigOverride) error {
	if _, err := s.readyProcessor("speakText"); err != nil {
		return err
	}

	voiceOverrides := overrides
	if voiceID == "" {
		voices, err := s.GetVoices(ctx)
		if err != nil {
			return err
		}
		voice, ok := discovery.FindByLanguageName(voices, languageName)
		if !ok {
			if len(voices) == 0 {
				return tts.NewVoiceNotFound(languageName)
			}
			voice = voices[0]
			log.Debug("no voice matched language, using first available",
				"language", languageName, "voice", voice.ID)
		}
		voiceOverrides = append([]tts.ConfigOverride{
			tts.WithVoice(voice.ID),
			tts.WithLanguage(voice.LanguageCode),
		}, overrides...)
	} else {
		voiceOverrides = append([]tts.ConfigOverride{tts.WithVoice(voiceID)}, overrides...)
	}

	audio, err := s.SynthesizeText(ctx, text, voiceOverrides...)
	if err != nil {
		return err
	}

	if tts.IsDirectPlayback(audio) {
		log.Debug("audio already played by engine, skipping sink")
		return nil
	}
	if s.sink == nil {
		return tts.NewError(tts.ErrorCodeAudioPlaybackFailed, "no audio sink configured", nil)
	}
	config := s.config.SynthesisDefaults().WithOverrides(overrides...)
	if err := s.sink.Play(ctx, audio, config.AudioFormat); err != nil {
		return tts.NewError(tts.ErrorCodeAudioPlaybackFailed, "audio playback failed", err)
	}
	return nil
}

// Stop aborts in-flight synthesis and playback concurrently.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	processor := s.processor
	sink := s.sink
	s.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	if processor != nil {
		g.Go(processor.Stop)
	}
	if sink != nil {
		g.Go(sink.Stop)
	}
	if err := g.Wait(); err != nil {
		return tts.NewError(tts.ErrorCodeStopFailed, "stop failed", err)
	}
	return nil
}

// Dispose releases the processor and sink. Failures are logged, not
// returned, and the service always comes back around to uninitialized so
// it can be initialized again.
func (s *Service) Dispose() {
	s.mu.Lock()
	processor := s.processor
	sink := s.sink
	s.processor = nil
	s.audio = map[audioKey][]byte{}
	s.state = StateDisposed
	s.mu.Unlock()

	if processor != nil {
		if err := processor.Dispose(); err != nil {
			log.Warn("processor dispose failed", "err", err)
		}
	}
	if sink != nil {
		if err := sink.Dispose(); err != nil {
			log.Warn("audio sink dispose failed", "err", err)
		}
	}

	s.mu.Lock()
	s.state = StateUninitialized
	s.mu.Unlock()
}

// ClearAudioCache drops all cached synthesis results.
func (s *Service) ClearAudioCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audio = map[audioKey][]byte{}
}

// ClearAudioCacheItem drops one cached synthesis result.
func (s *Service) ClearAudioCacheItem(text, voiceID string, format tts.AudioFormat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.audio, audioKey{text: text, voiceID: voiceID, format: format})
}

// CachedAudioCount reports how many synthesis results are cached.
func (s *Service) CachedAudioCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.audio)
}

func (s *Service) readyProcessor(operation string) (tts.Processor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.processor == nil {
		return nil, tts.NewNotInitialized(operation)
	}
	return s.processor, nil
}

func (s *Service) breakerFor(engine tts.EngineType) *recovery.CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.breakers[engine]
	if !ok {
		b = recovery.BreakerFromConfig(engine, s.config)
		s.breakers[engine] = b
	}
	return b
}
