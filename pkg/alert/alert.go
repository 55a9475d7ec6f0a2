// Package alert debounces voice warnings for close obstacles.
package alert

import (
	"fmt"
	"sync"
	"time"
)

// Defaults matching the deployed calibration.
const (
	DefaultCooldown   = 3 * time.Second
	DefaultMinDeltaCM = 15.0
)

// Scheduler decides when a close obstacle deserves a fresh warning.
// State grows by one entry per distinct label ever seen and lives for
// the process lifetime. Callers only invoke it for close detections,
// so far objects never suppress or reset a label's timer.
type Scheduler struct {
	cooldown   time.Duration
	minDeltaCM float64

	mu           sync.Mutex
	lastSpokenAt map[string]time.Time
	lastDistance map[string]float64
}

// New creates a Scheduler with the given cooldown window and minimum
// re-announce distance change.
func New(cooldown time.Duration, minDeltaCM float64) *Scheduler {
	return &Scheduler{
		cooldown:     cooldown,
		minDeltaCM:   minDeltaCM,
		lastSpokenAt: make(map[string]time.Time),
		lastDistance: make(map[string]float64),
	}
}

// NewDefault creates a Scheduler with the default calibration.
func NewDefault() *Scheduler {
	return New(DefaultCooldown, DefaultMinDeltaCM)
}

// MaybeAnnounce returns the warning phrase for label at distanceCM, or
// false when the alert is suppressed. Suppression happens only when
// the label was announced within the cooldown window AND its distance
// moved less than the minimum delta; an unknown prior distance always
// re-announces.
func (s *Scheduler) MaybeAnnounce(label string, distanceCM float64, now time.Time) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := now.Sub(s.lastSpokenAt[label])

	lastDistance, haveDistance := s.lastDistance[label]
	delta := 0.0
	if haveDistance {
		delta = distanceCM - lastDistance
		if delta < 0 {
			delta = -delta
		}
	}

	if elapsed < s.cooldown && haveDistance && delta < s.minDeltaCM {
		return "", false
	}

	s.lastSpokenAt[label] = now
	s.lastDistance[label] = distanceCM
	return fmt.Sprintf("%s is approximately %.0f centimeters away", label, distanceCM), true
}
