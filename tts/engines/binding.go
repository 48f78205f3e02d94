package engines

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/alouette/alouette/tts"
)

// execBinding drives the host speech engine through its command-line
// surface: `say` on macOS, espeak-ng on Linux, System.Speech via PowerShell
// on Windows. macOS and Windows play audio as a side effect and return the
// direct-playback sentinel; espeak-ng returns WAV bytes over stdout.
type execBinding struct {
	goos string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// DefaultBinding returns the speech binding for the running OS.
func DefaultBinding() Binding {
	return &execBinding{goos: runtime.GOOS}
}

func (b *execBinding) Name() string { return "exec/" + b.goos }

// wordsPerMinute converts the rate multiplier to the ~175wpm baseline the
// host engines use.
func wordsPerMinute(rate float64) int {
	return int(math.Round(175 * rate))
}

func (b *execBinding) Speak(ctx context.Context, text string, config tts.SynthesisConfig) ([]byte, error) {
	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		if b.cancel != nil {
			b.cancel()
			b.cancel = nil
		}
		b.mu.Unlock()
	}()

	switch b.goos {
	case "darwin":
		args := []string{"-r", fmt.Sprint(wordsPerMinute(config.SpeechRate))}
		if config.VoiceID != "" {
			args = append(args, "-v", config.VoiceID)
		}
		args = append(args, text)
		if out, err := exec.CommandContext(ctx, "say", args...).CombinedOutput(); err != nil {
			return nil, fmt.Errorf("say failed: %w (output: %s)", err, strings.TrimSpace(string(out)))
		}
		return tts.DirectPlaybackSentinel, nil

	case "linux":
		exe, err := espeakExecutable()
		if err != nil {
			return nil, err
		}
		args := []string{
			"-s", fmt.Sprint(wordsPerMinute(config.SpeechRate)),
			"-p", fmt.Sprint(int(math.Round(50 * config.Pitch))),
			"-a", fmt.Sprint(int(math.Round(100 * config.Volume))),
		}
		if config.VoiceID != "" {
			args = append(args, "-v", config.VoiceID)
		} else if config.LanguageCode != "" {
			args = append(args, "-v", strings.ToLower(strings.SplitN(config.LanguageCode, "-", 2)[0]))
		}
		args = append(args, "--stdout", text)

		cmd := exec.CommandContext(ctx, exe, args...)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("%s failed: %w (stderr: %s)", exe, err, strings.TrimSpace(stderr.String()))
		}
		return stdout.Bytes(), nil

	case "windows":
		script := fmt.Sprintf(
			`Add-Type -AssemblyName System.Speech; `+
				`$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; `+
				`$s.Rate = %d; $s.Volume = %d; $s.Speak(%s)`,
			speechAPIRate(config.SpeechRate),
			int(math.Round(100*config.Volume)),
			powershellQuote(text))
		if out, err := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", script).CombinedOutput(); err != nil {
			return nil, fmt.Errorf("System.Speech failed: %w (output: %s)", err, strings.TrimSpace(string(out)))
		}
		return tts.DirectPlaybackSentinel, nil
	}

	return nil, fmt.Errorf("no native speech binding for %s", b.goos)
}

// speechAPIRate maps the rate multiplier onto System.Speech's -10..10 scale.
func speechAPIRate(rate float64) int {
	v := int(math.Round((rate - 1.0) * 10))
	if v < -10 {
		v = -10
	} else if v > 10 {
		v = 10
	}
	return v
}

func powershellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func espeakExecutable() (string, error) {
	for _, name := range []string{"espeak-ng", "espeak"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("neither espeak-ng nor espeak found in PATH")
}

func (b *execBinding) Voices(ctx context.Context) ([]tts.Voice, error) {
	switch b.goos {
	case "darwin":
		out, err := exec.CommandContext(ctx, "say", "-v", "?").Output()
		if err != nil {
			return nil, fmt.Errorf("listing say voices: %w", err)
		}
		return parseSayVoices(string(out)), nil

	case "linux":
		exe, err := espeakExecutable()
		if err != nil {
			return nil, err
		}
		out, err := exec.CommandContext(ctx, exe, "--voices").Output()
		if err != nil {
			return nil, fmt.Errorf("listing espeak voices: %w", err)
		}
		return parseEspeakVoices(string(out)), nil
	}

	// Windows and anything else: a single generic system voice.
	return []tts.Voice{{
		ID:                   "system-default",
		DisplayName:          "System Default",
		LanguageCode:         "en-US",
		Gender:               tts.GenderUnknown,
		Quality:              tts.QualityStandard,
		SourceEngine:         tts.EngineNativePlatform,
		IsDefaultForLanguage: true,
	}}, nil
}

// parseSayVoices parses `say -v ?` lines: "Alex   en_US    # Most people...".
func parseSayVoices(out string) []tts.Voice {
	var voices []tts.Voice
	seenLang := map[string]bool{}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		locale := strings.ReplaceAll(fields[1], "_", "-")
		lang := strings.SplitN(locale, "-", 2)[0]
		voices = append(voices, tts.Voice{
			ID:                   fields[0],
			DisplayName:          fields[0],
			LanguageCode:         locale,
			Gender:               tts.GenderUnknown,
			Quality:              tts.QualityStandard,
			SourceEngine:         tts.EngineNativePlatform,
			IsDefaultForLanguage: !seenLang[lang],
		})
		seenLang[lang] = true
	}
	return voices
}

// parseEspeakVoices parses `espeak --voices` table rows, skipping the header.
func parseEspeakVoices(out string) []tts.Voice {
	var voices []tts.Voice
	seenLang := map[string]bool{}
	for i, line := range strings.Split(out, "\n") {
		if i == 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		lang := fields[1]
		gender := tts.GenderUnknown
		if strings.HasSuffix(fields[2], "M") {
			gender = tts.GenderMale
		} else if strings.HasSuffix(fields[2], "F") {
			gender = tts.GenderFemale
		}
		voices = append(voices, tts.Voice{
			ID:                   fields[3],
			DisplayName:          fields[3],
			LanguageCode:         lang,
			Gender:               gender,
			Quality:              tts.QualityStandard,
			SourceEngine:         tts.EngineNativePlatform,
			IsDefaultForLanguage: !seenLang[lang],
		})
		seenLang[lang] = true
	}
	return voices
}

// Stop cancels the in-flight speech process, if any.
func (b *execBinding) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
		log.Debug("native speech binding stopped")
	}
	return nil
}
