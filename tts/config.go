package tts

import (
	"fmt"
	"time"
)

// Config contains all tunable settings for the TTS core. Fields carry both
// yaml tags (for the config file loaded by the CLI) and env tags so that
// settings can be overridden from the environment.
type Config struct {
	// Engine selection
	Engine       string `yaml:"engine" env:"ALOUETTE_TTS_ENGINE"`
	AutoFallback bool   `yaml:"auto_fallback" env:"ALOUETTE_TTS_AUTO_FALLBACK" envDefault:"true"`

	// Synthesis defaults
	SpeechRate   float64 `yaml:"speech_rate" env:"ALOUETTE_TTS_SPEECH_RATE" envDefault:"1.0"`
	Pitch        float64 `yaml:"pitch" env:"ALOUETTE_TTS_PITCH" envDefault:"1.0"`
	Volume       float64 `yaml:"volume" env:"ALOUETTE_TTS_VOLUME" envDefault:"1.0"`
	LanguageCode string  `yaml:"language_code" env:"ALOUETTE_TTS_LANGUAGE" envDefault:"en-US"`
	AudioFormat  string  `yaml:"audio_format" env:"ALOUETTE_TTS_AUDIO_FORMAT" envDefault:"mp3"`
	UseMarkup    bool    `yaml:"use_markup" env:"ALOUETTE_TTS_USE_MARKUP" envDefault:"false"`

	// Command bridge settings
	Bridge BridgeConfig `yaml:"bridge"`

	// Voice discovery settings
	VoiceListURL     string        `yaml:"voice_list_url" env:"ALOUETTE_TTS_VOICE_LIST_URL"`
	DiscoveryTimeout time.Duration `yaml:"discovery_timeout" env:"ALOUETTE_TTS_DISCOVERY_TIMEOUT" envDefault:"10s"`
	VoiceCacheTTL    time.Duration `yaml:"voice_cache_ttl" env:"ALOUETTE_TTS_VOICE_CACHE_TTL" envDefault:"24h"`

	// Recovery settings
	RetryAttempts    int           `yaml:"retry_attempts" env:"ALOUETTE_TTS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryBaseDelay   time.Duration `yaml:"retry_base_delay" env:"ALOUETTE_TTS_RETRY_BASE_DELAY" envDefault:"500ms"`
	RetryMaxDelay    time.Duration `yaml:"retry_max_delay" env:"ALOUETTE_TTS_RETRY_MAX_DELAY" envDefault:"10s"`
	BreakerThreshold int           `yaml:"breaker_threshold" env:"ALOUETTE_TTS_BREAKER_THRESHOLD" envDefault:"3"`
	BreakerReset     time.Duration `yaml:"breaker_reset" env:"ALOUETTE_TTS_BREAKER_RESET" envDefault:"30s"`
	OperationTimeout time.Duration `yaml:"operation_timeout" env:"ALOUETTE_TTS_OPERATION_TIMEOUT" envDefault:"15s"`
}

// BridgeConfig holds command-bridge executable settings.
type BridgeConfig struct {
	Executable        string        `yaml:"executable" env:"ALOUETTE_TTS_BRIDGE_EXECUTABLE" envDefault:"edge-tts"`
	ProbeTimeout      time.Duration `yaml:"probe_timeout" env:"ALOUETTE_TTS_BRIDGE_PROBE_TIMEOUT" envDefault:"12s"`
	SynthesisTimeout  time.Duration `yaml:"synthesis_timeout" env:"ALOUETTE_TTS_BRIDGE_SYNTHESIS_TIMEOUT" envDefault:"30s"`
	TempDir           string        `yaml:"temp_dir" env:"ALOUETTE_TTS_BRIDGE_TEMP_DIR"`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"ALOUETTE_TTS_BRIDGE_RPM" envDefault:"60"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		AutoFallback:     true,
		SpeechRate:       1.0,
		Pitch:            1.0,
		Volume:           1.0,
		LanguageCode:     "en-US",
		AudioFormat:      "mp3",
		DiscoveryTimeout: 10 * time.Second,
		VoiceCacheTTL:    24 * time.Hour,
		RetryAttempts:    3,
		RetryBaseDelay:   500 * time.Millisecond,
		RetryMaxDelay:    10 * time.Second,
		BreakerThreshold: 3,
		BreakerReset:     30 * time.Second,
		OperationTimeout: 15 * time.Second,
		Bridge: BridgeConfig{
			Executable:        "edge-tts",
			ProbeTimeout:      12 * time.Second,
			SynthesisTimeout:  30 * time.Second,
			RequestsPerMinute: 60,
		},
	}
}

// Validate checks the config for values the core cannot operate with.
func (c Config) Validate() error {
	if c.Engine != "" {
		if _, err := ParseEngineType(c.Engine); err != nil {
			return NewConfigurationError("engine", c.Engine, "{commandBridge, nativePlatform}")
		}
	}
	synth := SynthesisConfig{
		SpeechRate:  c.SpeechRate,
		Pitch:       c.Pitch,
		Volume:      c.Volume,
		AudioFormat: AudioFormat(c.AudioFormat),
	}
	if err := synth.Validate(); err != nil {
		return err
	}
	if c.RetryAttempts < 1 {
		return NewConfigurationError("retryAttempts", c.RetryAttempts, "[1, ...)")
	}
	if c.BreakerThreshold < 1 {
		return NewConfigurationError("breakerThreshold", c.BreakerThreshold, "[1, ...)")
	}
	if c.Bridge.Executable == "" {
		return NewConfigurationError("bridge.executable", c.Bridge.Executable, "non-empty")
	}
	return nil
}

// SynthesisDefaults derives the default SynthesisConfig from the settings.
func (c Config) SynthesisDefaults() SynthesisConfig {
	format := AudioFormat(c.AudioFormat)
	if format == "" {
		format = FormatMP3
	}
	return SynthesisConfig{
		SpeechRate:   c.SpeechRate,
		Pitch:        c.Pitch,
		Volume:       c.Volume,
		LanguageCode: c.LanguageCode,
		AudioFormat:  format,
		UseMarkup:    c.UseMarkup,
	}
}

// String renders the config for debug logging without dumping every field.
func (c Config) String() string {
	return fmt.Sprintf("Config{engine: %q, autoFallback: %v, bridge: %s, lang: %s}",
		c.Engine, c.AutoFallback, c.Bridge.Executable, c.LanguageCode)
}
