package camera

import (
	"fmt"
	"image"
	"sync"
)

// Playback replays a fixed sequence of frames and then reports a read
// failure. It stands in for a physical device in tests and offline
// development.
type Playback struct {
	// Frames are returned by Read in order.
	Frames []image.Image

	// Loop restarts from the first frame after the last one instead
	// of failing.
	Loop bool

	// OpenErr, when set, is returned by Open.
	OpenErr error

	mu     sync.Mutex
	opened bool
	opens  int
	reads  int
	closes int
}

// NewPlayback returns a playback source over the given frames.
func NewPlayback(frames ...image.Image) *Playback {
	return &Playback{Frames: frames}
}

// Open marks the source as opened, or returns OpenErr if set.
func (p *Playback) Open(Config) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.OpenErr != nil {
		return p.OpenErr
	}
	p.opened = true
	p.opens++
	return nil
}

// Read returns the next frame in sequence.
func (p *Playback) Read() (image.Image, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.opened {
		return nil, fmt.Errorf("%w: source not open", ErrReadFailed)
	}
	if len(p.Frames) == 0 {
		return nil, ErrReadFailed
	}
	if !p.Loop && p.reads >= len(p.Frames) {
		return nil, ErrReadFailed
	}

	frame := p.Frames[p.reads%len(p.Frames)]
	p.reads++
	return frame, nil
}

// Close marks the source as closed.
func (p *Playback) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.opened = false
	p.closes++
	return nil
}

// Opened reports whether the source is currently open.
func (p *Playback) Opened() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opened
}

// OpenCount returns how many times Open succeeded.
func (p *Playback) OpenCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opens
}

// ReadCount returns how many frames were read.
func (p *Playback) ReadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads
}

// CloseCount returns how many times Close was called.
func (p *Playback) CloseCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closes
}

var _ Source = (*Playback)(nil)
