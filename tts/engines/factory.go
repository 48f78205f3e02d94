package engines

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/alouette/alouette/internal/platform"
	"github.com/alouette/alouette/tts"
)

// Factory selects and constructs processors. It is an explicit value,
// created once and injected wherever processors are built; there is no
// package-level singleton.
type Factory struct {
	detector  *platform.Detector
	config    tts.Config
	bridge    BridgeClient
	discovery VoiceDiscoverer

	// probe and build are the seams tests override.
	probe func(ctx context.Context, engine tts.EngineType) bool
	build func(engine tts.EngineType) (tts.Processor, error)
}

// NewFactory creates a factory bound to a platform detector and the shared
// bridge client and discovery used by command-bridge processors.
func NewFactory(detector *platform.Detector, config tts.Config, bridgeClient BridgeClient, disc VoiceDiscoverer) *Factory {
	f := &Factory{
		detector:  detector,
		config:    config,
		bridge:    bridgeClient,
		discovery: disc,
	}
	f.probe = f.probeEngine
	f.build = f.buildProcessor
	return f
}

// Strategy returns the engine policy for the detected platform class.
func (f *Factory) Strategy() Strategy {
	return ForClass(f.detector.Classify())
}

// probeEngine is the production availability probe.
func (f *Factory) probeEngine(ctx context.Context, engine tts.EngineType) bool {
	switch engine {
	case tts.EngineCommandBridge:
		if !f.detector.SupportsProcessExecution() {
			return false
		}
		return f.bridge.IsAvailable(ctx)
	case tts.EngineNativePlatform:
		// Compiled in, always present.
		return true
	}
	return false
}

// buildProcessor is the production constructor.
func (f *Factory) buildProcessor(engine tts.EngineType) (tts.Processor, error) {
	switch engine {
	case tts.EngineCommandBridge:
		return NewCommandBridgeEngine(f.bridge, f.discovery), nil
	case tts.EngineNativePlatform:
		return NewNativeEngine(DefaultBinding()), nil
	}
	return nil, tts.NewEngineNotAvailable(engine, "unknown engine type", nil)
}

// IsEngineAvailable probes a single engine. The command-bridge probe runs
// the executable with a bounded timeout; the native engine always reports
// available.
func (f *Factory) IsEngineAvailable(ctx context.Context, engine tts.EngineType) bool {
	return f.probe(ctx, engine)
}

// AvailableEngines probes every declared engine type and returns the
// available subset. A failed probe for one engine never aborts the others.
func (f *Factory) AvailableEngines(ctx context.Context) []tts.EngineType {
	var available []tts.EngineType
	for _, engine := range tts.AllEngineTypes {
		if f.probe(ctx, engine) {
			available = append(available, engine)
		}
	}
	return available
}

// CreateForPlatform walks the platform strategy's fallback order and
// constructs the first supported and available engine. If the whole order
// is exhausted it falls back to any engine a full scan reports available,
// and only then fails.
func (f *Factory) CreateForPlatform(ctx context.Context) (tts.Processor, error) {
	strategy := f.Strategy()
	attempted := make([]tts.EngineType, 0, len(tts.AllEngineTypes))

	for _, engine := range strategy.FallbackOrder {
		attempted = append(attempted, engine)
		if !strategy.IsSupported(engine) || !f.probe(ctx, engine) {
			log.Debug("engine unavailable, trying next in fallback order",
				"engine", engine, "class", strategy.Class)
			continue
		}
		processor, err := f.build(engine)
		if err != nil {
			log.Warn("engine construction failed, trying next", "engine", engine, "err", err)
			continue
		}
		log.Debug("selected engine for platform", "engine", engine, "class", strategy.Class)
		return processor, nil
	}

	// Fallback order exhausted: take anything a full scan turns up.
	for _, engine := range f.AvailableEngines(ctx) {
		processor, err := f.build(engine)
		if err != nil {
			continue
		}
		log.Warn("fallback order exhausted, using engine outside platform policy",
			"engine", engine, "class", strategy.Class)
		return processor, nil
	}

	for _, engine := range tts.AllEngineTypes {
		seen := false
		for _, a := range attempted {
			if a == engine {
				seen = true
				break
			}
		}
		if !seen {
			attempted = append(attempted, engine)
		}
	}
	return nil, tts.NewNoEnginesAvailable(string(strategy.Class), attempted)
}

// CreateForEngine constructs a processor for one specific engine. There is
// no fallback substitution here: when the engine is unavailable the caller
// gets an actionable error and decides what to do next.
func (f *Factory) CreateForEngine(ctx context.Context, engine tts.EngineType) (tts.Processor, error) {
	if strategy := f.Strategy(); !strategy.IsSupported(engine) {
		return nil, tts.NewPlatformNotSupported(engine, string(strategy.Class))
	}
	if !f.probe(ctx, engine) {
		hint := ""
		if engine == tts.EngineCommandBridge {
			hint = "install it with: pip install " + f.config.Bridge.Executable
		}
		return nil, tts.NewEngineNotAvailable(engine, hint, nil)
	}
	return f.build(engine)
}
