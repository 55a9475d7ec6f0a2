package detect

import (
	"image"
	"sync"
	"time"
)

// Mock implements Detector for testing.
// Behavior is customized via the DetectFunc field.
type Mock struct {
	// DetectFunc is called when Detect is invoked.
	// If nil, Detect returns no detections.
	DetectFunc func(img image.Image, confThreshold, nmsThreshold float32) ([]RawDetection, error)

	// CloseFunc is called when Close is invoked.
	// If nil, returns nil.
	CloseFunc func() error

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a Detect invocation for verification.
type MockCall struct {
	ConfThreshold float32
	NMSThreshold  float32
	Bounds        image.Rectangle
	Time          time.Time
}

// NewMock creates a mock detector that reports no detections.
func NewMock() *Mock {
	return &Mock{}
}

// NewMockWithDetections creates a mock that always reports the given
// detections.
func NewMockWithDetections(dets ...RawDetection) *Mock {
	return &Mock{
		DetectFunc: func(image.Image, float32, float32) ([]RawDetection, error) {
			out := make([]RawDetection, len(dets))
			copy(out, dets)
			return out, nil
		},
	}
}

// Detect calls DetectFunc and records the call.
func (m *Mock) Detect(img image.Image, confThreshold, nmsThreshold float32) ([]RawDetection, error) {
	m.mu.Lock()
	bounds := image.Rectangle{}
	if img != nil {
		bounds = img.Bounds()
	}
	m.calls = append(m.calls, MockCall{
		ConfThreshold: confThreshold,
		NMSThreshold:  nmsThreshold,
		Bounds:        bounds,
		Time:          time.Now(),
	})
	m.mu.Unlock()

	if m.DetectFunc != nil {
		return m.DetectFunc(img, confThreshold, nmsThreshold)
	}
	return nil, nil
}

// Close calls CloseFunc.
func (m *Mock) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Calls returns all recorded Detect calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of Detect calls.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall returns the most recent call, or nil if none.
func (m *Mock) LastCall() *MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	call := m.calls[len(m.calls)-1]
	return &call
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Detector at compile time.
var _ Detector = (*Mock)(nil)
