package speech

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestAnnouncerSpeaksInOrder(t *testing.T) {
	mock := NewMock()
	a := NewAnnouncer(mock)

	phrases := []string{
		"Person is approximately 97 centimeters away",
		"Chair is approximately 120 centimeters away",
		"Dog is approximately 80 centimeters away",
	}
	for _, p := range phrases {
		if !a.Say(p) {
			t.Fatalf("expected Say(%q) to be accepted", p)
		}
	}

	if err := a.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	calls := mock.Calls()
	if len(calls) != len(phrases) {
		t.Fatalf("expected %d spoken phrases, got %d", len(phrases), len(calls))
	}
	for i, c := range calls {
		if c.Text != phrases[i] {
			t.Errorf("call %d: expected %q, got %q", i, phrases[i], c.Text)
		}
	}
}

func TestAnnouncerSayNeverBlocks(t *testing.T) {
	gate := make(chan struct{})
	mock := &Mock{
		SpeakFunc: func(ctx context.Context, text string) error {
			<-gate
			return nil
		},
	}
	a := NewAnnouncer(mock)

	const phrases = 50
	enqueued := make(chan struct{})
	go func() {
		for i := 0; i < phrases; i++ {
			a.Say("queued phrase")
		}
		close(enqueued)
	}()

	select {
	case <-enqueued:
	case <-time.After(2 * time.Second):
		t.Fatal("Say blocked while the engine was busy")
	}

	close(gate)
	if err := a.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	if got := mock.CallCount("Speak"); got != phrases {
		t.Errorf("expected %d spoken phrases, got %d", phrases, got)
	}
}

func TestAnnouncerSerialPlayback(t *testing.T) {
	var active, overlaps atomic.Int32
	mock := &Mock{
		SpeakFunc: func(ctx context.Context, text string) error {
			if active.Add(1) > 1 {
				overlaps.Add(1)
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
			return nil
		},
	}
	a := NewAnnouncer(mock)

	for i := 0; i < 20; i++ {
		a.Say("phrase")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	if n := overlaps.Load(); n != 0 {
		t.Errorf("expected serial playback, got %d overlapping calls", n)
	}
}

func TestAnnouncerCloseDrainsBacklog(t *testing.T) {
	gate := make(chan struct{})
	mock := &Mock{
		SpeakFunc: func(ctx context.Context, text string) error {
			<-gate
			return nil
		},
	}
	a := NewAnnouncer(mock)

	for i := 0; i < 5; i++ {
		a.Say("backlogged phrase")
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(gate)
	}()

	if err := a.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	if got := mock.CallCount("Speak"); got != 5 {
		t.Errorf("expected backlog of 5 to drain, got %d", got)
	}
	if got := a.Pending(); got != 0 {
		t.Errorf("expected empty queue after close, got %d", got)
	}
}

func TestAnnouncerSayAfterClose(t *testing.T) {
	mock := NewMock()
	a := NewAnnouncer(mock)

	if err := a.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	if a.Say("too late") {
		t.Error("expected Say after close to be rejected")
	}
	if got := mock.CallCount("Speak"); got != 0 {
		t.Errorf("expected no spoken phrases, got %d", got)
	}
}

func TestAnnouncerSurvivesEngineErrors(t *testing.T) {
	mock := WithError(errors.New("synthesizer exploded"))
	a := NewAnnouncer(mock)

	a.Say("first")
	a.Say("second")
	a.Say("third")

	if err := a.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	if got := mock.CallCount("Speak"); got != 3 {
		t.Errorf("expected all 3 phrases attempted despite errors, got %d", got)
	}
}

func TestAnnouncerDoubleClose(t *testing.T) {
	a := NewAnnouncer(NewMock())

	if err := a.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("unexpected second close error: %v", err)
	}
}
