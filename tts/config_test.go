package tts

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown engine", func(c *Config) { c.Engine = "festival" }},
		{"rate out of range", func(c *Config) { c.SpeechRate = 9 }},
		{"zero retry attempts", func(c *Config) { c.RetryAttempts = 0 }},
		{"zero breaker threshold", func(c *Config) { c.BreakerThreshold = 0 }},
		{"empty bridge executable", func(c *Config) { c.Bridge.Executable = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			if err := config.Validate(); CodeOf(err) != ErrorCodeConfiguration {
				t.Errorf("code = %v, want CONFIGURATION_ERROR", CodeOf(err))
			}
		})
	}

	valid := DefaultConfig()
	valid.Engine = "nativePlatform"
	if err := valid.Validate(); err != nil {
		t.Errorf("valid engine rejected: %v", err)
	}
}

func TestSynthesisDefaults(t *testing.T) {
	config := DefaultConfig()
	config.SpeechRate = 1.3
	config.LanguageCode = "fr-FR"
	config.UseMarkup = true

	synth := config.SynthesisDefaults()
	if synth.SpeechRate != 1.3 || synth.LanguageCode != "fr-FR" || !synth.UseMarkup {
		t.Errorf("SynthesisDefaults = %+v", synth)
	}
	if synth.AudioFormat != FormatMP3 {
		t.Errorf("AudioFormat = %v, want mp3", synth.AudioFormat)
	}

	config.AudioFormat = ""
	if config.SynthesisDefaults().AudioFormat != FormatMP3 {
		t.Error("empty format should default to mp3")
	}
}

func TestConfigStringElidesDetail(t *testing.T) {
	s := DefaultConfig().String()
	if !strings.Contains(s, "edge-tts") || !strings.Contains(s, "en-US") {
		t.Errorf("String() = %q", s)
	}
}
