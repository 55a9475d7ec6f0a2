package navigator

import (
	"fmt"
	"sync"
	"testing"
)

func TestStoreEmpty(t *testing.T) {
	s := NewStore()

	got := s.Latest()
	if got == nil {
		t.Fatal("expected a non-nil slice from an empty store")
	}
	if len(got) != 0 {
		t.Errorf("expected no detections, got %d", len(got))
	}
}

func TestStoreCopiesIn(t *testing.T) {
	s := NewStore()

	in := []Detection{{Label: "Person", Confidence: 0.9}}
	s.Set(in)

	in[0].Label = "Mutated"

	got := s.Latest()
	if got[0].Label != "Person" {
		t.Errorf("expected the store to be isolated from caller mutation, got %q", got[0].Label)
	}
}

func TestStoreCopiesOut(t *testing.T) {
	s := NewStore()
	s.Set([]Detection{{Label: "Person", Confidence: 0.9}})

	first := s.Latest()
	first[0].Label = "Mutated"

	second := s.Latest()
	if second[0].Label != "Person" {
		t.Errorf("expected reader mutation to not leak back, got %q", second[0].Label)
	}
}

func TestStoreOverwritesWholesale(t *testing.T) {
	s := NewStore()

	s.Set([]Detection{{Label: "Person"}, {Label: "Chair"}})
	s.Set([]Detection{{Label: "Dog"}})

	got := s.Latest()
	if len(got) != 1 || got[0].Label != "Dog" {
		t.Errorf("expected only the newest frame's detections, got %v", got)
	}
}

func TestStoreConcurrentReadersSeeWholeFrames(t *testing.T) {
	s := NewStore()

	// Each written frame is self-consistent: every detection carries
	// the frame's sequence label and the slice length encodes the
	// sequence too. A torn read would mix labels or lengths.
	const (
		writes  = 500
		readers = 4
	)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}

				got := s.Latest()
				if len(got) == 0 {
					continue
				}
				want := got[0].Label
				wantLen := int(got[0].Confidence)
				if len(got) != wantLen {
					t.Errorf("torn read: %d detections for frame %q, expected %d",
						len(got), want, wantLen)
					return
				}
				for _, d := range got {
					if d.Label != want {
						t.Errorf("torn read: mixed labels %q and %q", want, d.Label)
						return
					}
				}
			}
		}()
	}

	for i := 1; i <= writes; i++ {
		n := i%7 + 1
		frame := make([]Detection, n)
		for j := range frame {
			frame[j] = Detection{
				Label:      fmt.Sprintf("frame-%d", i),
				Confidence: float64(n),
			}
		}
		s.Set(frame)
	}

	close(stop)
	wg.Wait()
}
