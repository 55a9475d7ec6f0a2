// Package speech turns alert phrases into audible output.
//
// Engines implement a small interface, a Chain tries engines in
// order, and an Announcer serializes playback behind an unbounded
// queue so the detection loop never waits on the speaker.
//
// Example usage:
//
//	engine, _ := speech.NewExec(speech.WithCommand("espeak-ng"))
//	announcer := speech.NewAnnouncer(engine)
//	defer announcer.Close()
//
//	announcer.Say("Person is approximately 97 centimeters away")
package speech

import "context"

// Engine renders a phrase audibly.
// All implementations must satisfy this interface so engines can be
// swapped without changing caller code.
type Engine interface {
	// Speak renders text and returns when playback finishes.
	Speak(ctx context.Context, text string) error

	// Close releases any resources held by the engine.
	Close() error
}
