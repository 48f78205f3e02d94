package audio

import (
	"context"
	"sync"

	"github.com/alouette/alouette/tts"
)

// MockSink records playback calls without touching an audio device. It backs
// tests and the --dry-run CLI path.
type MockSink struct {
	mu       sync.Mutex
	played   [][]byte
	formats  []tts.AudioFormat
	stops    int
	disposed bool

	// PlayErr, when set, is returned from every Play call.
	PlayErr error
}

// NewMockSink creates an empty recorder.
func NewMockSink() *MockSink { return &MockSink{} }

func (m *MockSink) Play(ctx context.Context, audio []byte, format tts.AudioFormat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlayErr != nil {
		return m.PlayErr
	}
	buf := make([]byte, len(audio))
	copy(buf, audio)
	m.played = append(m.played, buf)
	m.formats = append(m.formats, format)
	return nil
}

func (m *MockSink) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	return nil
}

func (m *MockSink) Dispose() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposed = true
	return nil
}

// Played returns copies of every payload handed to Play.
func (m *MockSink) Played() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.played))
	copy(out, m.played)
	return out
}

// StopCount reports how many times Stop ran.
func (m *MockSink) StopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

// Disposed reports whether Dispose ran.
func (m *MockSink) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}
