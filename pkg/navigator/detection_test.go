package navigator

import (
	"encoding/json"
	"testing"
)

func TestNewDetectionRounding(t *testing.T) {
	d := NewDetection("Person", 106.513901, true, 0.87654321, true)

	if d.DistanceCM == nil {
		t.Fatal("expected a distance")
	}
	if *d.DistanceCM != 106.51 {
		t.Errorf("expected distance rounded to 106.51, got %v", *d.DistanceCM)
	}
	if d.Confidence != 0.8765 {
		t.Errorf("expected confidence rounded to 0.8765, got %v", d.Confidence)
	}
	if d.Label != "Person" || !d.IsClose {
		t.Errorf("expected label and close flag preserved, got %+v", d)
	}
}

func TestNewDetectionWithoutDistance(t *testing.T) {
	d := NewDetection("Person", 0, false, 0.5, false)

	if d.DistanceCM != nil {
		t.Errorf("expected nil distance, got %v", *d.DistanceCM)
	}
	if d.IsClose {
		t.Error("expected not close without a distance")
	}
}

func TestDetectionJSONShape(t *testing.T) {
	with := NewDetection("Person", 106.513901, true, 0.9, true)
	without := NewDetection("Chair", 0, false, 0.5, false)

	got, err := json.Marshal([]Detection{with, without})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `[{"label":"Person","distance_cm":106.51,"confidence":0.9,"is_close":true},` +
		`{"label":"Chair","distance_cm":null,"confidence":0.5,"is_close":false}]`
	if string(got) != want {
		t.Errorf("expected JSON %s, got %s", want, got)
	}
}
