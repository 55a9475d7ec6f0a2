package detect

import "testing"

func TestLabelForClass(t *testing.T) {
	tests := []struct {
		name   string
		id     int
		want   string
		wantOK bool
	}{
		{"background id is skipped", 0, "", false},
		{"negative id is skipped", -3, "", false},
		{"first class", 1, "Person", true},
		{"last class", len(COCOClasses), "Toothbrush", true},
		{"one past the list is skipped", len(COCOClasses) + 1, "", false},
		{"far out of range is skipped", 1000, "", false},
		{"multi-word label", 10, "Traffic light", true},
		{"short label", 63, "Tv", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LabelForClass(tt.id)
			if ok != tt.wantOK {
				t.Fatalf("LabelForClass(%d) ok = %v, want %v", tt.id, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("LabelForClass(%d) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestClassName(t *testing.T) {
	if got, ok := ClassName(0); !ok || got != "person" {
		t.Errorf("ClassName(0) = %q, %v; want person", got, ok)
	}
	if got, ok := ClassName(79); !ok || got != "toothbrush" {
		t.Errorf("ClassName(79) = %q, %v; want toothbrush", got, ok)
	}
	if _, ok := ClassName(80); ok {
		t.Error("ClassName(80) should be out of range")
	}
	if _, ok := ClassName(-1); ok {
		t.Error("ClassName(-1) should be out of range")
	}
}

func TestCOCOClassCount(t *testing.T) {
	if len(COCOClasses) != 80 {
		t.Errorf("expected 80 COCO classes, got %d", len(COCOClasses))
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"person", "Person"},
		{"traffic light", "Traffic light"},
		{"TV", "Tv"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := capitalize(tt.in); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
