package markup

import (
	"strings"
	"testing"

	"github.com/alouette/alouette/tts"
)

func TestRatePercent(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "100%"},
		{1.5, "150%"},
		{0.5, "50%"},
		{2.0, "200%"},
		{0.1, "10%"},
	}
	for _, tt := range tests {
		if got := RatePercent(tt.rate); got != tt.want {
			t.Errorf("RatePercent(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestPitchSemitones(t *testing.T) {
	tests := []struct {
		pitch float64
		want  string
	}{
		{1.0, "+0st"},
		{0.5, "-6st"},
		{2.0, "+12st"},
		{1.5, "+6st"},
		{0.75, "-3st"},
	}
	for _, tt := range tests {
		if got := PitchSemitones(tt.pitch); got != tt.want {
			t.Errorf("PitchSemitones(%v) = %q, want %q", tt.pitch, got, tt.want)
		}
	}
}

func TestVolumePercent(t *testing.T) {
	tests := []struct {
		volume float64
		want   string
	}{
		{1.0, "100%"},
		{0.5, "50%"},
		{0.0, "0%"},
	}
	for _, tt := range tests {
		if got := VolumePercent(tt.volume); got != tt.want {
			t.Errorf("VolumePercent(%v) = %q, want %q", tt.volume, got, tt.want)
		}
	}
}

func TestGenerate_Defaults(t *testing.T) {
	voice := tts.Voice{ID: "en-US-AriaNeural", LanguageCode: "en-US"}
	config := tts.DefaultSynthesisConfig()

	got := Generate("Hello world", voice, config)

	for _, fragment := range []string{
		`rate="100%"`,
		`pitch="+0st"`,
		`volume="100%"`,
		`<voice name="en-US-AriaNeural">`,
		`xml:lang="en-US"`,
		"Hello world",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("generated markup missing %q:\n%s", fragment, got)
		}
	}
	if !IsValidMarkup(got) {
		t.Error("generated markup failed its own validity check")
	}
}

func TestGenerate_EscapesText(t *testing.T) {
	voice := tts.Voice{ID: "v", LanguageCode: "en-US"}
	got := Generate(`Tom & Jerry <say "hi">`, voice, tts.DefaultSynthesisConfig())

	if strings.Contains(got, "Tom & Jerry") {
		t.Error("ampersand not escaped")
	}
	if !strings.Contains(got, "Tom &amp; Jerry &lt;say &quot;hi&quot;&gt;") {
		t.Errorf("unexpected escaping:\n%s", got)
	}
}

func TestExtractPlainText(t *testing.T) {
	voice := tts.Voice{ID: "v", LanguageCode: "en-US"}
	original := `Tom & Jerry say "hi"`
	markup := Generate(original, voice, tts.DefaultSynthesisConfig())

	if got := ExtractPlainText(markup); got != original {
		t.Errorf("ExtractPlainText = %q, want %q", got, original)
	}
}

func TestIsValidMarkup(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   bool
	}{
		{"empty", "", false},
		{"plain text", "hello", false},
		{"missing close", `<speak version="1.0">hi`, false},
		{"missing version", `<speak>hi</speak>`, false},
		{"valid", `<speak version="1.0">hi</speak>`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidMarkup(tt.markup); got != tt.want {
				t.Errorf("IsValidMarkup(%q) = %v, want %v", tt.markup, got, tt.want)
			}
		})
	}
}
