// Package tts defines the shared vocabulary of the synthesis core: engine
// identities, voice metadata, synthesis configuration and the request/result
// shapes every layer above speaks in.
package tts

import (
	"fmt"
	"strings"
	"time"
)

// EngineType identifies a synthesis backend family.
type EngineType string

const (
	// EngineCommandBridge synthesizes through an external command-line
	// executable spawned as a subprocess.
	EngineCommandBridge EngineType = "commandBridge"

	// EngineNativePlatform synthesizes through the host platform's
	// built-in speech bindings.
	EngineNativePlatform EngineType = "nativePlatform"
)

// AllEngineTypes lists every engine type in probe order.
var AllEngineTypes = []EngineType{EngineCommandBridge, EngineNativePlatform}

// ParseEngineType resolves a string to an EngineType.
func ParseEngineType(s string) (EngineType, error) {
	for _, e := range AllEngineTypes {
		if strings.EqualFold(s, string(e)) {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown engine type %q", s)
}

// Gender classifies a voice.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
	GenderUnknown Gender = "unknown"
)

// ParseGender normalizes vendor gender labels; anything unrecognized maps
// to GenderUnknown.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	case "neutral", "n":
		return GenderNeutral
	}
	return GenderUnknown
}

// Quality tiers a voice by synthesis fidelity.
type Quality string

const (
	QualityNeural   Quality = "neural"
	QualityPremium  Quality = "premium"
	QualityStandard Quality = "standard"
)

// QualityRank orders qualities for sorting, best first.
func QualityRank(q Quality) int {
	switch q {
	case QualityNeural:
		return 0
	case QualityPremium:
		return 1
	}
	return 2
}

// AudioFormat names an output container.
type AudioFormat string

const (
	FormatMP3 AudioFormat = "mp3"
	FormatWAV AudioFormat = "wav"
	FormatOGG AudioFormat = "ogg"
)

// Voice describes one synthesizable voice as surfaced by discovery.
type Voice struct {
	ID                   string         `json:"id"`
	DisplayName          string         `json:"displayName"`
	LanguageCode         string         `json:"languageCode"`
	CountryCode          string         `json:"countryCode,omitempty"`
	Gender               Gender         `json:"gender"`
	Quality              Quality        `json:"quality"`
	SourceEngine         EngineType     `json:"sourceEngine"`
	IsDefaultForLanguage bool           `json:"isDefaultForLanguage,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
}

// Language returns the primary language subtag, "en" for "en-US".
func (v Voice) Language() string {
	return strings.SplitN(v.LanguageCode, "-", 2)[0]
}

// SynthesisConfig carries the tunable synthesis parameters. Rate, pitch and
// volume are multipliers around 1.0.
type SynthesisConfig struct {
	SpeechRate   float64     `json:"speechRate" yaml:"speech_rate"`
	Pitch        float64     `json:"pitch" yaml:"pitch"`
	Volume       float64     `json:"volume" yaml:"volume"`
	VoiceID      string      `json:"voiceId,omitempty" yaml:"voice_id"`
	LanguageCode string      `json:"languageCode" yaml:"language_code"`
	AudioFormat  AudioFormat `json:"audioFormat" yaml:"audio_format"`
	UseMarkup    bool        `json:"useMarkup" yaml:"use_markup"`
}

// DefaultSynthesisConfig returns the neutral configuration.
func DefaultSynthesisConfig() SynthesisConfig {
	return SynthesisConfig{
		SpeechRate:   1.0,
		Pitch:        1.0,
		Volume:       1.0,
		LanguageCode: "en-US",
		AudioFormat:  FormatMP3,
	}
}

// ConfigOverride mutates one field of a SynthesisConfig copy.
type ConfigOverride func(*SynthesisConfig)

func WithRate(rate float64) ConfigOverride {
	return func(c *SynthesisConfig) { c.SpeechRate = rate }
}

func WithPitch(pitch float64) ConfigOverride {
	return func(c *SynthesisConfig) { c.Pitch = pitch }
}

func WithVolume(volume float64) ConfigOverride {
	return func(c *SynthesisConfig) { c.Volume = volume }
}

func WithVoice(voiceID string) ConfigOverride {
	return func(c *SynthesisConfig) { c.VoiceID = voiceID }
}

func WithLanguage(code string) ConfigOverride {
	return func(c *SynthesisConfig) { c.LanguageCode = code }
}

func WithFormat(format AudioFormat) ConfigOverride {
	return func(c *SynthesisConfig) { c.AudioFormat = format }
}

func WithMarkup(enabled bool) ConfigOverride {
	return func(c *SynthesisConfig) { c.UseMarkup = enabled }
}

// WithOverrides applies overrides to a copy, leaving the receiver intact.
func (c SynthesisConfig) WithOverrides(overrides ...ConfigOverride) SynthesisConfig {
	for _, apply := range overrides {
		apply(&c)
	}
	return c
}

// SynthesisRequest is one unit of work handed to a processor.
type SynthesisRequest struct {
	Text         string
	VoiceID      string
	OutputFormat AudioFormat
	Config       SynthesisConfig
}

// SynthesisResult reports the outcome of a synthesis operation. Exactly one
// of Audio (with Success) or Err (without) is set.
type SynthesisResult struct {
	RequestID      string
	Success        bool
	Engine         EngineType
	VoiceUsed      string
	Audio          []byte
	Err            error
	ProcessingTime time.Duration
}

// SuccessResult wraps audio produced by an engine.
func SuccessResult(engine EngineType, voice string, audio []byte, took time.Duration) SynthesisResult {
	return SynthesisResult{Success: true, Engine: engine, VoiceUsed: voice, Audio: audio, ProcessingTime: took}
}

// FailureResult wraps a synthesis failure.
func FailureResult(engine EngineType, err error, took time.Duration) SynthesisResult {
	return SynthesisResult{Success: false, Engine: engine, Err: err, ProcessingTime: took}
}
