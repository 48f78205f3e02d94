package tts

import "testing"

func TestSynthesisConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  ConfigOverride
		wantErr bool
	}{
		{"defaults", func(*SynthesisConfig) {}, false},
		{"rate lower bound", WithRate(0.1), false},
		{"rate upper bound", WithRate(3.0), false},
		{"rate too low", WithRate(0.05), true},
		{"rate too high", WithRate(3.5), true},
		{"pitch bounds", WithPitch(0.5), false},
		{"pitch too high", WithPitch(2.5), true},
		{"volume zero", WithVolume(0), false},
		{"volume too high", WithVolume(1.2), true},
		{"wav format", WithFormat(FormatWAV), false},
		{"bogus format", WithFormat("flac"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultSynthesisConfig().WithOverrides(tt.mutate)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && CodeOf(err) != ErrorCodeConfiguration {
				t.Errorf("code = %v, want CONFIGURATION_ERROR", CodeOf(err))
			}
		})
	}
}

// Out-of-range values are rejected, never clamped into range.
func TestValidateDoesNotClamp(t *testing.T) {
	config := DefaultSynthesisConfig().WithOverrides(WithRate(5.0))
	_ = config.Validate()
	if config.SpeechRate != 5.0 {
		t.Errorf("SpeechRate = %v, validation must not mutate the config", config.SpeechRate)
	}
}

func TestSynthesisRequestValidate(t *testing.T) {
	valid := SynthesisRequest{Text: "hi", VoiceID: "en-US-AriaNeural", Config: DefaultSynthesisConfig()}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	noText := valid
	noText.Text = ""
	if err := noText.Validate(); CodeOf(err) != ErrorCodeSynthesisError {
		t.Errorf("empty text code = %v, want SYNTHESIS_ERROR", CodeOf(err))
	}

	noVoice := valid
	noVoice.VoiceID = ""
	if err := noVoice.Validate(); CodeOf(err) != ErrorCodeSynthesisError {
		t.Errorf("empty voice code = %v, want SYNTHESIS_ERROR", CodeOf(err))
	}

	badConfig := valid
	badConfig.Config.Volume = 2.0
	if err := badConfig.Validate(); CodeOf(err) != ErrorCodeConfiguration {
		t.Errorf("bad config code = %v, want CONFIGURATION_ERROR", CodeOf(err))
	}
}
