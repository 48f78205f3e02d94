// Package engines selects, constructs and implements the synthesis
// processors behind the orchestrator.
package engines

import (
	"github.com/alouette/alouette/internal/platform"
	"github.com/alouette/alouette/tts"
)

// Strategy is the per-platform-class engine policy: which engine to prefer,
// which order to fall back in, and what each engine needs configured.
type Strategy struct {
	Class         platform.Class
	Preferred     tts.EngineType
	FallbackOrder []tts.EngineType
	supported     map[tts.EngineType]bool
	configs       map[tts.EngineType]map[string]any
}

// IsSupported reports whether the engine can run on this platform class.
func (s Strategy) IsSupported(engine tts.EngineType) bool {
	return s.supported[engine]
}

// EngineConfig returns the per-engine configuration hints for this class.
func (s Strategy) EngineConfig(engine tts.EngineType) map[string]any {
	return s.configs[engine]
}

// ForClass returns the strategy for a platform class. The command bridge
// requires spawning an external process, so it is gated entirely on the
// desktop class.
func ForClass(class platform.Class) Strategy {
	switch class {
	case platform.ClassDesktop:
		return Strategy{
			Class:         class,
			Preferred:     tts.EngineCommandBridge,
			FallbackOrder: []tts.EngineType{tts.EngineCommandBridge, tts.EngineNativePlatform},
			supported: map[tts.EngineType]bool{
				tts.EngineCommandBridge:  true,
				tts.EngineNativePlatform: true,
			},
			configs: map[tts.EngineType]map[string]any{
				tts.EngineCommandBridge: {
					"requiresProcessExecution": true,
					"supportsMarkup":           true,
				},
				tts.EngineNativePlatform: {
					"requiresProcessExecution": false,
					"supportsMarkup":           false,
				},
			},
		}
	default:
		// Mobile and web: no process execution, native bindings only.
		return Strategy{
			Class:         class,
			Preferred:     tts.EngineNativePlatform,
			FallbackOrder: []tts.EngineType{tts.EngineNativePlatform},
			supported: map[tts.EngineType]bool{
				tts.EngineNativePlatform: true,
			},
			configs: map[tts.EngineType]map[string]any{
				tts.EngineNativePlatform: {
					"requiresProcessExecution": false,
					"supportsMarkup":           false,
				},
			},
		}
	}
}
