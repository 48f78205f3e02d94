package discovery

import "github.com/alouette/alouette/tts"

// staticTable is the hardcoded last-resort voice list, spanning the major
// languages with one default voice per language. It mirrors well-known
// bridge voice names so synthesis still works when both live tiers fail.
var staticTable = []tts.Voice{
	{ID: "en-US-AriaNeural", DisplayName: "Aria", LanguageCode: "en-US", CountryCode: "US", Gender: tts.GenderFemale, Quality: tts.QualityNeural, IsDefaultForLanguage: true},
	{ID: "en-US-GuyNeural", DisplayName: "Guy", LanguageCode: "en-US", CountryCode: "US", Gender: tts.GenderMale, Quality: tts.QualityNeural},
	{ID: "en-GB-SoniaNeural", DisplayName: "Sonia", LanguageCode: "en-GB", CountryCode: "GB", Gender: tts.GenderFemale, Quality: tts.QualityNeural},
	{ID: "es-ES-ElviraNeural", DisplayName: "Elvira", LanguageCode: "es-ES", CountryCode: "ES", Gender: tts.GenderFemale, Quality: tts.QualityNeural, IsDefaultForLanguage: true},
	{ID: "es-MX-DaliaNeural", DisplayName: "Dalia", LanguageCode: "es-MX", CountryCode: "MX", Gender: tts.GenderFemale, Quality: tts.QualityNeural},
	{ID: "fr-FR-DeniseNeural", DisplayName: "Denise", LanguageCode: "fr-FR", CountryCode: "FR", Gender: tts.GenderFemale, Quality: tts.QualityNeural, IsDefaultForLanguage: true},
	{ID: "fr-FR-HenriNeural", DisplayName: "Henri", LanguageCode: "fr-FR", CountryCode: "FR", Gender: tts.GenderMale, Quality: tts.QualityNeural},
	{ID: "de-DE-KatjaNeural", DisplayName: "Katja", LanguageCode: "de-DE", CountryCode: "DE", Gender: tts.GenderFemale, Quality: tts.QualityNeural, IsDefaultForLanguage: true},
	{ID: "de-DE-ConradNeural", DisplayName: "Conrad", LanguageCode: "de-DE", CountryCode: "DE", Gender: tts.GenderMale, Quality: tts.QualityNeural},
	{ID: "it-IT-ElsaNeural", DisplayName: "Elsa", LanguageCode: "it-IT", CountryCode: "IT", Gender: tts.GenderFemale, Quality: tts.QualityNeural, IsDefaultForLanguage: true},
	{ID: "pt-BR-FranciscaNeural", DisplayName: "Francisca", LanguageCode: "pt-BR", CountryCode: "BR", Gender: tts.GenderFemale, Quality: tts.QualityNeural, IsDefaultForLanguage: true},
	{ID: "ru-RU-SvetlanaNeural", DisplayName: "Svetlana", LanguageCode: "ru-RU", CountryCode: "RU", Gender: tts.GenderFemale, Quality: tts.QualityNeural, IsDefaultForLanguage: true},
	{ID: "ja-JP-NanamiNeural", DisplayName: "Nanami", LanguageCode: "ja-JP", CountryCode: "JP", Gender: tts.GenderFemale, Quality: tts.QualityNeural, IsDefaultForLanguage: true},
	{ID: "ja-JP-KeitaNeural", DisplayName: "Keita", LanguageCode: "ja-JP", CountryCode: "JP", Gender: tts.GenderMale, Quality: tts.QualityNeural},
	{ID: "ko-KR-SunHiNeural", DisplayName: "SunHi", LanguageCode: "ko-KR", CountryCode: "KR", Gender: tts.GenderFemale, Quality: tts.QualityNeural, IsDefaultForLanguage: true},
	{ID: "zh-CN-XiaoxiaoNeural", DisplayName: "Xiaoxiao", LanguageCode: "zh-CN", CountryCode: "CN", Gender: tts.GenderFemale, Quality: tts.QualityNeural, IsDefaultForLanguage: true},
	{ID: "zh-CN-YunxiNeural", DisplayName: "Yunxi", LanguageCode: "zh-CN", CountryCode: "CN", Gender: tts.GenderMale, Quality: tts.QualityNeural},
	{ID: "zh-TW-HsiaoChenNeural", DisplayName: "HsiaoChen", LanguageCode: "zh-TW", CountryCode: "TW", Gender: tts.GenderFemale, Quality: tts.QualityNeural},
	{ID: "ar-SA-ZariyahNeural", DisplayName: "Zariyah", LanguageCode: "ar-SA", CountryCode: "SA", Gender: tts.GenderFemale, Quality: tts.QualityNeural, IsDefaultForLanguage: true},
	{ID: "hi-IN-SwaraNeural", DisplayName: "Swara", LanguageCode: "hi-IN", CountryCode: "IN", Gender: tts.GenderFemale, Quality: tts.QualityNeural, IsDefaultForLanguage: true},
}

// StaticVoices returns a copy of the static fallback table with the source
// engine stamped on each entry.
func StaticVoices() []tts.Voice {
	voices := make([]tts.Voice, len(staticTable))
	copy(voices, staticTable)
	for i := range voices {
		voices[i].SourceEngine = tts.EngineCommandBridge
	}
	return voices
}
