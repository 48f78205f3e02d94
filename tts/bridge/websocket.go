package bridge

import (
	"context"
	"fmt"

	"github.com/alouette/alouette/tts"
)

// StreamClient is the placeholder for a WebSocket-based streaming synthesis
// path. The protocol was never implemented; every method reports
// ErrNotImplemented so callers always fall through to the CLI subprocess
// path. Do not infer a streaming protocol here.
type StreamClient struct{}

// NewStreamClient creates the permanently unimplemented streaming client.
func NewStreamClient() *StreamClient { return &StreamClient{} }

// Connect always fails with ErrNotImplemented.
func (s *StreamClient) Connect(context.Context) error {
	return fmt.Errorf("streaming synthesis: %w", tts.ErrNotImplemented)
}

// Stream always fails with ErrNotImplemented.
func (s *StreamClient) Stream(context.Context, string, tts.SynthesisConfig) (<-chan []byte, error) {
	return nil, fmt.Errorf("streaming synthesis: %w", tts.ErrNotImplemented)
}

// Close is a no-op; there is never a connection to close.
func (s *StreamClient) Close() error { return nil }
