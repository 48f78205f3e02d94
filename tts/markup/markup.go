// Package markup generates the SSML-like prosody envelope passed to
// synthesis backends. All functions are pure.
package markup

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/alouette/alouette/tts"
)

const envelopeVersion = "1.0"

// Generate wraps text in a voice/prosody envelope for the given voice and
// synthesis parameters. The text is XML-escaped; prosody attributes use the
// conversions from RatePercent, PitchSemitones and VolumePercent.
func Generate(text string, voice tts.Voice, config tts.SynthesisConfig) string {
	lang := config.LanguageCode
	if lang == "" {
		lang = voice.LanguageCode
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		`<speak version="%s" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang="%s">`,
		envelopeVersion, EscapeText(lang))
	fmt.Fprintf(&b, `<voice name="%s">`, EscapeText(voice.ID))
	fmt.Fprintf(&b, `<prosody rate="%s" pitch="%s" volume="%s">`,
		RatePercent(config.SpeechRate),
		PitchSemitones(config.Pitch),
		VolumePercent(config.Volume))
	b.WriteString(EscapeText(text))
	b.WriteString(`</prosody></voice></speak>`)
	return b.String()
}

// RatePercent converts a rate multiplier into an unsigned percentage string:
// 1.0 -> "100%", 1.5 -> "150%". The command-bridge CLI path uses a different,
// signed delta conversion; the two deliberately coexist.
func RatePercent(rate float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(rate*100)))
}

// PitchSemitones converts a pitch multiplier into a signed semitone string:
// 1.0 -> "+0st", 0.5 -> "-6st", 2.0 -> "+12st".
func PitchSemitones(pitch float64) string {
	semitones := int(math.Round((pitch - 1.0) * 12))
	return fmt.Sprintf("%+dst", semitones)
}

// VolumePercent converts a volume fraction into a percentage string:
// 1.0 -> "100%", 0.5 -> "50%".
func VolumePercent(volume float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(volume*100)))
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var xmlUnescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

// EscapeText escapes the five XML special characters.
func EscapeText(text string) string {
	return xmlEscaper.Replace(text)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// ExtractPlainText strips tags and unescapes entities. It is used for
// diagnostics and logging; it is not a lossless inverse for arbitrary markup.
func ExtractPlainText(markup string) string {
	stripped := tagPattern.ReplaceAllString(markup, "")
	return strings.TrimSpace(xmlUnescaper.Replace(stripped))
}

// IsValidMarkup performs a shallow syntactic check: the envelope open and
// close tags must balance and the opening tag must carry a version
// attribute. It is not a full XML validation.
func IsValidMarkup(markup string) bool {
	opens := strings.Count(markup, "<speak")
	closes := strings.Count(markup, "</speak>")
	if opens == 0 || opens != closes {
		return false
	}
	return strings.Contains(markup, `version="`)
}
