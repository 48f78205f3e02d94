package tts

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode identifies a stable TTS failure category.
type ErrorCode string

const (
	// Lifecycle errors
	ErrorCodeNotInitialized       ErrorCode = "NOT_INITIALIZED"
	ErrorCodeInitializationFailed ErrorCode = "INITIALIZATION_FAILED"

	// Platform and engine selection errors
	ErrorCodePlatformNotSupported ErrorCode = "PLATFORM_NOT_SUPPORTED"
	ErrorCodeNoFallbackAvailable  ErrorCode = "NO_FALLBACK_AVAILABLE"
	ErrorCodeEngineNotAvailable   ErrorCode = "ENGINE_NOT_AVAILABLE"

	// Voice errors
	ErrorCodeVoiceNotFound     ErrorCode = "VOICE_NOT_FOUND"
	ErrorCodeNoVoicesAvailable ErrorCode = "NO_VOICES_AVAILABLE"

	// Synthesis and playback errors
	ErrorCodeSynthesisFailed     ErrorCode = "SYNTHESIS_FAILED"
	ErrorCodeSynthesisError      ErrorCode = "SYNTHESIS_ERROR"
	ErrorCodeAudioPlaybackFailed ErrorCode = "AUDIO_PLAYBACK_FAILED"
	ErrorCodeStopFailed          ErrorCode = "STOP_FAILED"

	// Input and configuration errors
	ErrorCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	// Transport errors
	ErrorCodeNetwork ErrorCode = "NETWORK_ERROR"
	ErrorCodeTimeout ErrorCode = "TIMEOUT"

	// Recovery errors
	ErrorCodeCircuitBreakerOpen ErrorCode = "CIRCUIT_BREAKER_OPEN"
)

// ErrNotImplemented marks functionality that is deliberately unimplemented.
var ErrNotImplemented = errors.New("not implemented")

// Error is the typed error carried by every failure surfaced from the core.
// It wraps an optional cause and carries structured details for diagnostics.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.Cause }

// WithDetail attaches a structured detail and returns the error for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewError creates a typed TTS error.
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed.
// Returns empty string if err carries no typed code.
func CodeOf(err error) ErrorCode {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// NewNotInitialized reports an operation attempted before Initialize.
func NewNotInitialized(operation string) *Error {
	return NewError(ErrorCodeNotInitialized,
		fmt.Sprintf("%s requires an initialized service", operation), nil).
		WithDetail("operation", operation)
}

// NewPlatformNotSupported reports an engine incompatible with the platform.
func NewPlatformNotSupported(engine EngineType, platform string) *Error {
	return NewError(ErrorCodePlatformNotSupported,
		fmt.Sprintf("engine %s is not supported on %s", engine, platform), nil).
		WithDetail("engine", string(engine)).
		WithDetail("platform", platform)
}

// NewNoEnginesAvailable reports an exhausted fallback chain.
func NewNoEnginesAvailable(platform string, attempted []EngineType) *Error {
	names := make([]string, len(attempted))
	for i, e := range attempted {
		names[i] = string(e)
	}
	return NewError(ErrorCodeNoFallbackAvailable,
		fmt.Sprintf("no TTS engines available on %s (tried: %s)",
			platform, strings.Join(names, ", ")), nil).
		WithDetail("platform", platform).
		WithDetail("attempted", names)
}

// NewEngineNotAvailable reports a failed availability probe for one engine.
func NewEngineNotAvailable(engine EngineType, hint string, cause error) *Error {
	msg := fmt.Sprintf("engine %s is not available", engine)
	if hint != "" {
		msg += ": " + hint
	}
	return NewError(ErrorCodeEngineNotAvailable, msg, cause).
		WithDetail("engine", string(engine))
}

// NewVoiceNotFound reports that no voice matched the request.
func NewVoiceNotFound(query string) *Error {
	return NewError(ErrorCodeVoiceNotFound,
		fmt.Sprintf("no voice found for %q", query), nil).
		WithDetail("query", query)
}

// NewNoVoicesAvailable reports an empty voice list.
func NewNoVoicesAvailable(engine EngineType) *Error {
	return NewError(ErrorCodeNoVoicesAvailable,
		fmt.Sprintf("engine %s reported no voices", engine), nil).
		WithDetail("engine", string(engine))
}

// NewSynthesisFailed wraps an underlying synthesis failure.
func NewSynthesisFailed(message string, cause error) *Error {
	return NewError(ErrorCodeSynthesisFailed, message, cause)
}

// NewConfigurationError reports an invalid configuration value.
func NewConfigurationError(field string, value any, domain string) *Error {
	return NewError(ErrorCodeConfiguration,
		fmt.Sprintf("%s=%v is outside the allowed domain %s", field, value, domain), nil).
		WithDetail("field", field).
		WithDetail("value", value)
}

// NewCircuitBreakerOpen reports a short-circuited call.
func NewCircuitBreakerOpen(engine EngineType, lastFailure time.Time) *Error {
	return NewError(ErrorCodeCircuitBreakerOpen,
		fmt.Sprintf("circuit breaker open for engine %s, service temporarily degraded", engine), nil).
		WithDetail("engine", string(engine)).
		WithDetail("lastFailure", lastFailure)
}

// recoverableCodes are the typed codes the retry layer treats as transient.
var recoverableCodes = map[ErrorCode]bool{
	ErrorCodeSynthesisFailed:     true,
	ErrorCodeSynthesisError:      true,
	ErrorCodeAudioPlaybackFailed: true,
	ErrorCodeEngineNotAvailable:  true,
	ErrorCodeVoiceNotFound:       true,
	ErrorCodeNetwork:             true,
	ErrorCodeTimeout:             true,
}

// IsRecoverable reports whether err looks transient enough to retry.
// Typed errors are classified by code; untyped errors by message heuristics
// covering synthesis, audio, engine, voice and network failures.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	if code := CodeOf(err); code != "" {
		return recoverableCodes[code]
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{
		"synthesis", "audio", "playback", "engine", "voice",
		"network", "timeout", "connection", "temporarily",
	} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// IsNetworkError reports whether err is a network-class failure.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	switch CodeOf(err) {
	case ErrorCodeNetwork, ErrorCodeTimeout:
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "network") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection")
}
