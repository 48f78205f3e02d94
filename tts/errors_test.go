package tts

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("exit status 1")
	err := NewSynthesisFailed("bridge invocation failed", cause)

	msg := err.Error()
	if msg == "" || !errors.Is(err, cause) {
		t.Fatalf("Error() = %q, Is(cause) = %v", msg, errors.Is(err, cause))
	}
	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap should expose the cause")
	}
}

func TestCodeOf(t *testing.T) {
	err := NewVoiceNotFound("fr-FR-HenriNeural")
	if CodeOf(err) != ErrorCodeVoiceNotFound {
		t.Errorf("CodeOf = %v, want VOICE_NOT_FOUND", CodeOf(err))
	}

	wrapped := fmt.Errorf("while speaking: %w", err)
	if CodeOf(wrapped) != ErrorCodeVoiceNotFound {
		t.Errorf("CodeOf(wrapped) = %v, want VOICE_NOT_FOUND", CodeOf(wrapped))
	}

	if CodeOf(errors.New("plain")) != "" {
		t.Error("plain errors have no code")
	}
	if CodeOf(nil) != "" {
		t.Error("nil has no code")
	}
}

func TestWithDetail(t *testing.T) {
	err := NewError(ErrorCodeSynthesisFailed, "failed", nil).
		WithDetail("engine", "commandBridge").
		WithDetail("exitCode", 3)

	if err.Details["engine"] != "commandBridge" || err.Details["exitCode"] != 3 {
		t.Errorf("Details = %v", err.Details)
	}
}

func TestIsRecoverableTypedCodes(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{NewSynthesisFailed("failed", nil), true},
		{NewError(ErrorCodeNetwork, "down", nil), true},
		{NewVoiceNotFound("x"), true},
		{NewEngineNotAvailable(EngineCommandBridge, "", nil), true},
		{NewPlatformNotSupported(EngineCommandBridge, "web"), false},
		{NewNotInitialized("speak"), false},
		{NewCircuitBreakerOpen(EngineCommandBridge, time.Now()), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsRecoverable(tt.err); got != tt.want {
			t.Errorf("IsRecoverable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestIsRecoverableHeuristics(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"connection reset by peer", true},
		{"audio device busy", true},
		{"operation timeout exceeded", true},
		{"service temporarily unavailable", true},
		{"invalid argument", false},
		{"permission denied", false},
	}
	for _, tt := range tests {
		if got := IsRecoverable(errors.New(tt.msg)); got != tt.want {
			t.Errorf("IsRecoverable(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestIsNetworkError(t *testing.T) {
	if !IsNetworkError(NewError(ErrorCodeNetwork, "down", nil)) {
		t.Error("typed network error not recognized")
	}
	if !IsNetworkError(errors.New("dial tcp: connection refused")) {
		t.Error("connection message not recognized")
	}
	if IsNetworkError(NewVoiceNotFound("x")) {
		t.Error("voice error misclassified as network")
	}
}
