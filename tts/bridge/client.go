// Package bridge invokes the external neural synthesis executable as a
// subprocess, passing parameters through CLI flags and collecting the
// generated audio from a temp file.
package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/alouette/alouette/tts"
)

// darwinVenvPython is the interpreter of the known virtual environment the
// bridge package is installed into on macOS. When it exists the client runs
// the bridge as an interpreter module instead of a bare executable.
const darwinVenvPython = ".venvs/alouette/bin/python3"

// defaultVoices maps primary language subtags to the voice used when a
// synthesis call names a language but no voice.
var defaultVoices = map[string]string{
	"en": "en-US-AriaNeural",
	"es": "es-ES-ElviraNeural",
	"fr": "fr-FR-DeniseNeural",
	"de": "de-DE-KatjaNeural",
	"it": "it-IT-ElsaNeural",
	"pt": "pt-BR-FranciscaNeural",
	"ru": "ru-RU-SvetlanaNeural",
	"ja": "ja-JP-NanamiNeural",
	"ko": "ko-KR-SunHiNeural",
	"zh": "zh-CN-XiaoxiaoNeural",
	"ar": "ar-SA-ZariyahNeural",
	"hi": "hi-IN-SwaraNeural",
}

// DefaultVoiceForLanguage returns the fallback voice for a BCP-47 language
// code, or the English default when the language is unknown.
func DefaultVoiceForLanguage(languageCode string) string {
	lang := languageCode
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	if voice, ok := defaultVoices[strings.ToLower(lang)]; ok {
		return voice
	}
	return defaultVoices["en"]
}

// runResult carries the outcome of one subprocess invocation.
type runResult struct {
	stdout   []byte
	stderr   []byte
	exitCode int
}

// runner executes the bridge command. Injected by tests.
type runner func(ctx context.Context, name string, args ...string) (runResult, error)

// Client drives the command-bridge executable.
type Client struct {
	config  tts.BridgeConfig
	goos    string
	limiter *rate.Limiter

	run      runner
	lookPath func(string) (string, error)
	fileStat func(string) (os.FileInfo, error)
}

// NewClient creates a bridge client for the given configuration.
func NewClient(config tts.BridgeConfig) *Client {
	if config.Executable == "" {
		config.Executable = "edge-tts"
	}
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = 12 * time.Second
	}
	if config.SynthesisTimeout <= 0 {
		config.SynthesisTimeout = 30 * time.Second
	}
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}
	rpm := config.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	return &Client{
		config:   config,
		goos:     runtime.GOOS,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		run:      runCommand,
		lookPath: exec.LookPath,
		fileStat: os.Stat,
	}
}

// runCommand is the production runner.
func runCommand(ctx context.Context, name string, args ...string) (runResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	// Stdin is wired before start so the child never races an open pipe.
	cmd.Stdin = strings.NewReader("")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := runResult{stdout: stdout.Bytes(), stderr: stderr.Bytes()}
	if cmd.ProcessState != nil {
		res.exitCode = cmd.ProcessState.ExitCode()
	}
	if ctx.Err() != nil {
		return res, fmt.Errorf("bridge subprocess timed out: %w", ctx.Err())
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Nonzero exit is reported through exitCode, not as a Go error.
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// command resolves the executable and the leading arguments for one bridge
// invocation. On macOS the known virtual-environment interpreter takes
// precedence over the bare executable name.
func (c *Client) command() (string, []string, error) {
	if c.goos == "darwin" {
		home, err := os.UserHomeDir()
		if err == nil {
			python := filepath.Join(home, darwinVenvPython)
			if _, err := c.fileStat(python); err == nil {
				module := strings.ReplaceAll(c.config.Executable, "-", "_")
				return python, []string{"-m", module}, nil
			}
		}
	}
	path, err := c.lookPath(c.config.Executable)
	if err != nil {
		return "", nil, tts.NewEngineNotAvailable(tts.EngineCommandBridge,
			fmt.Sprintf("install it with: pip install %s", c.config.Executable), err)
	}
	return path, nil, nil
}

// IsAvailable probes whether the bridge executable can be invoked. The probe
// is bounded by the configured probe timeout (default 12s).
func (c *Client) IsAvailable(ctx context.Context) bool {
	exe, baseArgs, err := c.command()
	if err != nil {
		log.Debug("bridge executable not found", "executable", c.config.Executable, "err", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.ProbeTimeout)
	defer cancel()

	res, err := c.run(ctx, exe, append(baseArgs, "--help")...)
	if err != nil {
		log.Debug("bridge probe failed", "executable", exe, "err", err)
		return false
	}
	return res.exitCode == 0
}

// cliRate converts a rate multiplier into the bridge CLI's signed-percentage
// form: 1.0 -> "+0%", 1.5 -> "+50%", 0.5 -> "-50%". This deliberately differs
// from the unsigned conversion used by the markup generator; both call sites
// keep their own conversion.
func cliRate(rateMultiplier float64) string {
	return fmt.Sprintf("%+d%%", int(math.Round((rateMultiplier-1.0)*100)))
}

// cliVolume converts a volume fraction into a signed percentage relative to
// full volume: 1.0 -> "+0%", 0.5 -> "-50%".
func cliVolume(volume float64) string {
	return fmt.Sprintf("%+d%%", int(math.Round((volume-1.0)*100)))
}

// cliPitch converts a pitch multiplier into the bridge CLI's signed-Hz form:
// 1.0 -> "+0Hz", 1.5 -> "+25Hz", 0.5 -> "-25Hz".
func cliPitch(pitch float64) string {
	return fmt.Sprintf("%+dHz", int(math.Round((pitch-1.0)*50)))
}

// Synthesize runs the bridge executable and returns the generated audio
// bytes. Each call writes to a freshly named temp file which is removed
// best-effort before returning.
func (c *Client) Synthesize(ctx context.Context, text string, config tts.SynthesisConfig) ([]byte, error) {
	if text == "" {
		return nil, tts.NewError(tts.ErrorCodeSynthesisError, "text must not be empty", nil)
	}

	voice := config.VoiceID
	if voice == "" {
		voice = DefaultVoiceForLanguage(config.LanguageCode)
	}

	exe, baseArgs, err := c.command()
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("bridge rate limit wait cancelled: %w", err)
	}

	format := config.AudioFormat
	if format == "" {
		format = tts.FormatMP3
	}
	outPath := filepath.Join(c.config.TempDir,
		fmt.Sprintf("alouette-%d.%s", time.Now().UnixNano(), format))
	defer func() {
		if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
			log.Debug("failed to remove bridge temp file", "path", outPath, "err", err)
		}
	}()

	args := append(baseArgs,
		"--text", text,
		"--voice", voice,
		"--rate", cliRate(config.SpeechRate),
		"--volume", cliVolume(config.Volume),
		"--pitch", cliPitch(config.Pitch),
		"--write-media", outPath,
	)

	ctx, cancel := context.WithTimeout(ctx, c.config.SynthesisTimeout)
	defer cancel()

	start := time.Now()
	res, err := c.run(ctx, exe, args...)
	if err != nil {
		return nil, tts.NewSynthesisFailed("bridge invocation failed", err).
			WithDetail("executable", exe)
	}
	if res.exitCode != 0 {
		return nil, tts.NewSynthesisFailed(
			fmt.Sprintf("bridge exited with code %d: %s",
				res.exitCode, strings.TrimSpace(string(res.stderr))), nil).
			WithDetail("exitCode", res.exitCode).
			WithDetail("stderr", string(res.stderr))
	}

	audio, err := os.ReadFile(outPath)
	if err != nil {
		return nil, tts.NewSynthesisFailed("failed to generate audio file", err).
			WithDetail("path", outPath)
	}

	log.Debug("bridge synthesis complete",
		"voice", voice, "bytes", len(audio), "elapsed", time.Since(start))
	return audio, nil
}

// ListVoices runs the bridge's list subcommand and returns the raw voice
// names. Output lines have the form "Name: <voice>"; anything else is
// skipped.
func (c *Client) ListVoices(ctx context.Context) ([]string, error) {
	exe, baseArgs, err := c.command()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.ProbeTimeout)
	defer cancel()

	res, err := c.run(ctx, exe, append(baseArgs, "--list-voices")...)
	if err != nil {
		return nil, fmt.Errorf("bridge voice listing failed: %w", err)
	}
	if res.exitCode != 0 {
		return nil, fmt.Errorf("bridge voice listing exited with code %d: %s",
			res.exitCode, strings.TrimSpace(string(res.stderr)))
	}

	var names []string
	for _, line := range strings.Split(string(res.stdout), "\n") {
		line = strings.TrimSpace(line)
		if name, ok := strings.CutPrefix(line, "Name: "); ok && name != "" {
			names = append(names, strings.TrimSpace(name))
		}
	}
	return names, nil
}
