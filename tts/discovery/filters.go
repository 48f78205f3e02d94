package discovery

import (
	"sort"
	"strings"

	"github.com/alouette/alouette/tts"
)

// FilterByLanguage keeps voices whose language code matches. A bare primary
// subtag ("en") matches every region of that language ("en-US", "en-GB").
func FilterByLanguage(voices []tts.Voice, languageCode string) []tts.Voice {
	if languageCode == "" {
		return voices
	}
	lang := strings.ToLower(languageCode)
	var out []tts.Voice
	for _, v := range voices {
		code := strings.ToLower(v.LanguageCode)
		if code == lang || strings.HasPrefix(code, lang+"-") {
			out = append(out, v)
		}
	}
	return out
}

// FilterByGender keeps voices of the given gender.
func FilterByGender(voices []tts.Voice, gender tts.Gender) []tts.Voice {
	var out []tts.Voice
	for _, v := range voices {
		if v.Gender == gender {
			out = append(out, v)
		}
	}
	return out
}

// FilterByQuality keeps voices of the given quality tier.
func FilterByQuality(voices []tts.Voice, quality tts.Quality) []tts.Voice {
	var out []tts.Voice
	for _, v := range voices {
		if v.Quality == quality {
			out = append(out, v)
		}
	}
	return out
}

// SortByPreference orders a copy of voices: language defaults first, then by
// quality (neural before premium before standard), then by display name.
func SortByPreference(voices []tts.Voice) []tts.Voice {
	out := make([]tts.Voice, len(voices))
	copy(out, voices)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefaultForLanguage != out[j].IsDefaultForLanguage {
			return out[i].IsDefaultForLanguage
		}
		ri, rj := tts.QualityRank(out[i].Quality), tts.QualityRank(out[j].Quality)
		if ri != rj {
			return ri < rj
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	return out
}

// FindByLanguageName resolves a human language name ("French") to the first
// preferred voice of that language. Matching is case-insensitive on the
// name's conventional code mapping.
func FindByLanguageName(voices []tts.Voice, languageName string) (tts.Voice, bool) {
	code, ok := languageNameToCode[strings.ToLower(strings.TrimSpace(languageName))]
	if !ok {
		return tts.Voice{}, false
	}
	matches := SortByPreference(FilterByLanguage(voices, code))
	if len(matches) == 0 {
		return tts.Voice{}, false
	}
	return matches[0], true
}

// languageNameToCode maps the language names consumer apps present to
// primary language subtags.
var languageNameToCode = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"russian":    "ru",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"arabic":     "ar",
	"hindi":      "hi",
}
