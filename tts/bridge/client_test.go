package bridge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alouette/alouette/tts"
)

// fakeRun replaces the subprocess runner and records invocations.
type fakeRun struct {
	calls    [][]string
	result   runResult
	err      error
	onInvoke func(args []string)
}

func (f *fakeRun) run(_ context.Context, name string, args ...string) (runResult, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.onInvoke != nil {
		f.onInvoke(args)
	}
	return f.result, f.err
}

func newTestClient(t *testing.T, f *fakeRun) *Client {
	t.Helper()
	c := NewClient(tts.BridgeConfig{Executable: "edge-tts", TempDir: t.TempDir()})
	c.goos = "linux"
	c.run = f.run
	c.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	return c
}

func TestCLIConversions(t *testing.T) {
	tests := []struct {
		fn    func(float64) string
		input float64
		want  string
	}{
		{cliRate, 1.0, "+0%"},
		{cliRate, 1.5, "+50%"},
		{cliRate, 0.5, "-50%"},
		{cliVolume, 1.0, "+0%"},
		{cliVolume, 0.25, "-75%"},
		{cliPitch, 1.0, "+0Hz"},
		{cliPitch, 1.5, "+25Hz"},
		{cliPitch, 0.5, "-25Hz"},
	}
	for _, tt := range tests {
		if got := tt.fn(tt.input); got != tt.want {
			t.Errorf("conversion(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSynthesize_BuildsArgsAndReadsOutput(t *testing.T) {
	f := &fakeRun{}
	c := newTestClient(t, f)
	// The fake runner writes the "generated" file at the path passed to
	// --write-media, standing in for the real executable.
	f.onInvoke = func(args []string) {
		for i, a := range args {
			if a == "--write-media" && i+1 < len(args) {
				os.WriteFile(args[i+1], []byte("mp3-bytes"), 0o644)
			}
		}
	}

	config := tts.DefaultSynthesisConfig().WithOverrides(
		tts.WithRate(1.5), tts.WithVolume(0.5), tts.WithPitch(2.0),
	)
	audio, err := c.Synthesize(context.Background(), "Bonjour", config)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q, want file contents", audio)
	}

	if len(f.calls) != 1 {
		t.Fatalf("expected 1 subprocess call, got %d", len(f.calls))
	}
	joined := strings.Join(f.calls[0], " ")
	for _, fragment := range []string{
		"--text Bonjour",
		"--voice en-US-AriaNeural", // no voice given, en-US default
		"--rate +50%",
		"--volume -50%",
		"--pitch +50Hz",
		"--write-media",
	} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("command %q missing %q", joined, fragment)
		}
	}
}

func TestSynthesize_LanguageDerivedVoice(t *testing.T) {
	f := &fakeRun{}
	c := newTestClient(t, f)
	f.onInvoke = func(args []string) {
		for i, a := range args {
			if a == "--write-media" && i+1 < len(args) {
				os.WriteFile(args[i+1], []byte("x"), 0o644)
			}
		}
	}

	config := tts.DefaultSynthesisConfig().WithOverrides(tts.WithLanguage("fr-FR"))
	if _, err := c.Synthesize(context.Background(), "Salut", config); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if joined := strings.Join(f.calls[0], " "); !strings.Contains(joined, "--voice fr-FR-DeniseNeural") {
		t.Errorf("expected French default voice, got %q", joined)
	}
}

func TestSynthesize_NonzeroExitSurfacesStderr(t *testing.T) {
	f := &fakeRun{result: runResult{exitCode: 1, stderr: []byte("no internet connection")}}
	c := newTestClient(t, f)

	_, err := c.Synthesize(context.Background(), "hi", tts.DefaultSynthesisConfig())
	if err == nil {
		t.Fatal("expected error on nonzero exit")
	}
	if tts.CodeOf(err) != tts.ErrorCodeSynthesisFailed {
		t.Errorf("error code = %s, want SYNTHESIS_FAILED", tts.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "no internet connection") {
		t.Errorf("stderr not surfaced in error: %v", err)
	}
}

func TestSynthesize_MissingOutputFile(t *testing.T) {
	// Runner reports success but never writes the file.
	f := &fakeRun{result: runResult{exitCode: 0}}
	c := newTestClient(t, f)

	_, err := c.Synthesize(context.Background(), "hi", tts.DefaultSynthesisConfig())
	if err == nil {
		t.Fatal("expected error when output file is missing")
	}
	if !strings.Contains(err.Error(), "failed to generate audio file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSynthesize_EmptyText(t *testing.T) {
	c := newTestClient(t, &fakeRun{})
	_, err := c.Synthesize(context.Background(), "", tts.DefaultSynthesisConfig())
	if tts.CodeOf(err) != tts.ErrorCodeSynthesisError {
		t.Errorf("error code = %s, want SYNTHESIS_ERROR", tts.CodeOf(err))
	}
}

func TestSynthesize_ExecutableMissing(t *testing.T) {
	c := newTestClient(t, &fakeRun{})
	c.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	_, err := c.Synthesize(context.Background(), "hi", tts.DefaultSynthesisConfig())
	if tts.CodeOf(err) != tts.ErrorCodeEngineNotAvailable {
		t.Errorf("error code = %s, want ENGINE_NOT_AVAILABLE", tts.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "pip install") {
		t.Errorf("expected actionable install hint, got %v", err)
	}
}

func TestSynthesize_TempFileRemoved(t *testing.T) {
	f := &fakeRun{}
	c := newTestClient(t, f)
	var written string
	f.onInvoke = func(args []string) {
		for i, a := range args {
			if a == "--write-media" && i+1 < len(args) {
				written = args[i+1]
				os.WriteFile(written, []byte("x"), 0o644)
			}
		}
	}

	if _, err := c.Synthesize(context.Background(), "hi", tts.DefaultSynthesisConfig()); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if written == "" {
		t.Fatal("runner never saw --write-media")
	}
	if _, err := os.Stat(written); !os.IsNotExist(err) {
		t.Errorf("temp file %s not cleaned up", written)
	}
}

func TestListVoices(t *testing.T) {
	out := strings.Join([]string{
		"Name: en-US-AriaNeural",
		"Gender: Female",
		"",
		"Name: fr-FR-DeniseNeural",
		"garbage line",
		"Name: de-DE-KatjaNeural",
	}, "\n")
	f := &fakeRun{result: runResult{stdout: []byte(out)}}
	c := newTestClient(t, f)

	voices, err := c.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("ListVoices failed: %v", err)
	}
	want := []string{"en-US-AriaNeural", "fr-FR-DeniseNeural", "de-DE-KatjaNeural"}
	if len(voices) != len(want) {
		t.Fatalf("got %d voices, want %d: %v", len(voices), len(want), voices)
	}
	for i := range want {
		if voices[i] != want[i] {
			t.Errorf("voices[%d] = %q, want %q", i, voices[i], want[i])
		}
	}
}

func TestIsAvailable(t *testing.T) {
	f := &fakeRun{result: runResult{exitCode: 0}}
	c := newTestClient(t, f)
	if !c.IsAvailable(context.Background()) {
		t.Error("IsAvailable = false with working probe")
	}

	c.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	if c.IsAvailable(context.Background()) {
		t.Error("IsAvailable = true with missing executable")
	}
}

func TestCommand_DarwinVenvForm(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	venv := filepath.Join(home, darwinVenvPython)

	c := NewClient(tts.BridgeConfig{Executable: "edge-tts"})
	c.goos = "darwin"
	c.fileStat = func(path string) (os.FileInfo, error) {
		if path == venv {
			return os.Stat(os.TempDir()) // any existing path's info will do
		}
		return nil, os.ErrNotExist
	}

	exe, baseArgs, err := c.command()
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if exe != venv {
		t.Errorf("exe = %q, want venv interpreter %q", exe, venv)
	}
	if len(baseArgs) != 2 || baseArgs[0] != "-m" || baseArgs[1] != "edge_tts" {
		t.Errorf("baseArgs = %v, want [-m edge_tts]", baseArgs)
	}
}

func TestDefaultVoiceForLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"en-US", "en-US-AriaNeural"},
		{"fr", "fr-FR-DeniseNeural"},
		{"zh-CN", "zh-CN-XiaoxiaoNeural"},
		{"xx-YY", "en-US-AriaNeural"}, // unknown falls back to English
	}
	for _, tt := range tests {
		if got := DefaultVoiceForLanguage(tt.lang); got != tt.want {
			t.Errorf("DefaultVoiceForLanguage(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}

func TestStreamClient_AlwaysUnimplemented(t *testing.T) {
	s := NewStreamClient()
	if err := s.Connect(context.Background()); !errors.Is(err, tts.ErrNotImplemented) {
		t.Errorf("Connect error = %v, want ErrNotImplemented", err)
	}
	if _, err := s.Stream(context.Background(), "hi", tts.DefaultSynthesisConfig()); !errors.Is(err, tts.ErrNotImplemented) {
		t.Errorf("Stream error = %v, want ErrNotImplemented", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close error = %v, want nil", err)
	}
}
