package logger

import "testing"

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("dev", "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewAcceptsModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", ""} {
		l, err := New(mode, "warn")
		if err != nil {
			t.Fatalf("mode %q: %v", mode, err)
		}
		l.With("k", "v").Debug("hidden")
	}
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	if l == nil || l.SugaredLogger == nil {
		t.Fatalf("expected a usable logger")
	}
	l.Warn("discarded", "k", 1)
}
