package tts

import (
	"testing"
	"time"
)

func TestParseEngineType(t *testing.T) {
	tests := []struct {
		in      string
		want    EngineType
		wantErr bool
	}{
		{"commandBridge", EngineCommandBridge, false},
		{"COMMANDBRIDGE", EngineCommandBridge, false},
		{"nativePlatform", EngineNativePlatform, false},
		{"nativeplatform", EngineNativePlatform, false},
		{"flite", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEngineType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEngineType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEngineType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		in   string
		want Gender
	}{
		{"Male", GenderMale},
		{"female", GenderFemale},
		{"F", GenderFemale},
		{" m ", GenderMale},
		{"neutral", GenderNeutral},
		{"N", GenderNeutral},
		{"robot", GenderUnknown},
		{"", GenderUnknown},
	}
	for _, tt := range tests {
		if got := ParseGender(tt.in); got != tt.want {
			t.Errorf("ParseGender(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestQualityRankOrdering(t *testing.T) {
	if !(QualityRank(QualityNeural) < QualityRank(QualityPremium) &&
		QualityRank(QualityPremium) < QualityRank(QualityStandard)) {
		t.Error("quality ranks must order neural < premium < standard")
	}
	if QualityRank("bogus") != QualityRank(QualityStandard) {
		t.Error("unknown quality should rank with standard")
	}
}

func TestVoiceLanguage(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"en-US", "en"},
		{"zh-CN", "zh"},
		{"fr", "fr"},
		{"", ""},
	}
	for _, tt := range tests {
		v := Voice{LanguageCode: tt.code}
		if got := v.Language(); got != tt.want {
			t.Errorf("Language() of %q = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestWithOverridesCopies(t *testing.T) {
	base := DefaultSynthesisConfig()
	derived := base.WithOverrides(WithRate(2.0), WithVoice("fr-FR-DeniseNeural"), WithMarkup(true))

	if base.SpeechRate != 1.0 || base.VoiceID != "" || base.UseMarkup {
		t.Errorf("base config mutated: %+v", base)
	}
	if derived.SpeechRate != 2.0 || derived.VoiceID != "fr-FR-DeniseNeural" || !derived.UseMarkup {
		t.Errorf("derived config = %+v", derived)
	}
	if derived.Pitch != 1.0 || derived.LanguageCode != "en-US" {
		t.Errorf("untouched fields changed: %+v", derived)
	}
}

func TestSynthesisResultConstructors(t *testing.T) {
	ok := SuccessResult(EngineCommandBridge, "en-US-AriaNeural", []byte("audio bytes"), 25*time.Millisecond)
	if !ok.Success || ok.Engine != EngineCommandBridge || len(ok.Audio) == 0 || ok.Err != nil {
		t.Errorf("SuccessResult = %+v", ok)
	}
	if ok.VoiceUsed != "en-US-AriaNeural" || ok.ProcessingTime != 25*time.Millisecond {
		t.Errorf("SuccessResult metadata = %+v", ok)
	}

	bad := FailureResult(EngineNativePlatform, NewSynthesisFailed("boom", nil), time.Millisecond)
	if bad.Success || bad.Err == nil || bad.Audio != nil {
		t.Errorf("FailureResult = %+v", bad)
	}
}
