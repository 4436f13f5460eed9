package extract

import "testing"

func TestExtractNotesKeepsStrategicLines(t *testing.T) {
	text := "Quick update on the miners.\n" +
		"  Plan: accumulate under $30 \n" +
		"The weather was great today.\n" +
		"This is a Wave 3 setup, low risk entry.\n"
	got := ExtractNotes(text)
	want := "Plan: accumulate under $30\nThis is a Wave 3 setup, low risk entry."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractNotesEmptyWhenNothingStrategic(t *testing.T) {
	if got := ExtractNotes("hello\n\nworld\n"); got != "" {
		t.Fatalf("expected empty notes, got %q", got)
	}
}
