package mocks

import (
	"image"
	"sync"

	"github.com/user/keysnap/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	Reports      map[string][]byte
	ContactSheet image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Reports: make(map[string][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveReport(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reports[name] = data
	return nil
}

func (m *DebugSink) SaveContactSheet(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ContactSheet = img
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                             { return false }
func (m *NullSink) SaveReport(name string, data []byte) error { return nil }
func (m *NullSink) SaveContactSheet(img image.Image) error    { return nil }

var _ ports.DebugSink = (*NullSink)(nil)
