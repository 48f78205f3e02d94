package tts

// Numeric parameter domains. Values outside these are rejected at validation
// time, never silently clamped.
const (
	MinSpeechRate = 0.1
	MaxSpeechRate = 3.0
	MinPitch      = 0.5
	MaxPitch      = 2.0
	MinVolume     = 0.0
	MaxVolume     = 1.0
)

// Validate checks the numeric parameter domains of a SynthesisConfig.
func (c SynthesisConfig) Validate() error {
	if c.SpeechRate < MinSpeechRate || c.SpeechRate > MaxSpeechRate {
		return NewConfigurationError("speechRate", c.SpeechRate, "[0.1, 3.0]")
	}
	if c.Pitch < MinPitch || c.Pitch > MaxPitch {
		return NewConfigurationError("pitch", c.Pitch, "[0.5, 2.0]")
	}
	if c.Volume < MinVolume || c.Volume > MaxVolume {
		return NewConfigurationError("volume", c.Volume, "[0.0, 1.0]")
	}
	switch c.AudioFormat {
	case FormatMP3, FormatWAV, FormatOGG, "":
	default:
		return NewConfigurationError("audioFormat", c.AudioFormat, "{mp3, wav, ogg}")
	}
	return nil
}

// Validate checks a SynthesisRequest before dispatch.
func (r SynthesisRequest) Validate() error {
	if r.Text == "" {
		return NewError(ErrorCodeSynthesisError, "text must not be empty", nil)
	}
	if r.VoiceID == "" {
		return NewError(ErrorCodeSynthesisError, "voice must not be empty", nil)
	}
	return r.Config.Validate()
}
