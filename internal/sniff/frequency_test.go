package sniff

import (
	"strings"
	"testing"
)

//
// guessDelimiterByFrequency
//

// TestGuessDelimiterByFrequency verifies frequency-based delimiter detection.
//
// A delimiter must appear the same number of times on (nearly) every line;
// characters whose dominant per-line count is zero never qualify.
func TestGuessDelimiterByFrequency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sample string
		want   string
	}{
		{"comma", "a,b,c\n1,2,3\n4,5,6\n", ","},
		{"tab", "a\tb\n1\t2\n3\t4\n", "\t"},
		{"pipe", "a|b|c\n1|2|3\n", "|"},
		{"semicolon", "x;y\n1;2\n3;4\n", ";"},
		{"single column", "1\n2\n3\n4\n5\n6\n", ""},
		{"no consistent character", "abc\ndefgh\nxy\n", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := guessDelimiterByFrequency(tt.sample, "\n", nil); got != tt.want {
				t.Fatalf("guessDelimiterByFrequency(%q) = %q, want %q", tt.sample, got, tt.want)
			}
		})
	}
}

// TestGuessDelimiterByFrequency_Relaxation verifies the consistency floor: a
// delimiter present on nine of ten lines is only accepted once the demanded
// consistency has relaxed, and one present on fewer lines than the floor
// allows is rejected outright.
func TestGuessDelimiterByFrequency_Relaxation(t *testing.T) {
	t.Parallel()

	// Every letter is unique to its line so only the comma can qualify.
	lines := []string{
		"ab,cd", "ef,gh", "ij,kl", "mn,op", "qr,st",
		"uv,wx", "yz,AB", "CD,EF", "GH,IJ", "KL",
	}

	// Nine lines of ten with exactly one comma: mode score 8 of 10, which is
	// only reachable after relaxing to the floor.
	nine := strings.Join(lines, "\n") + "\n"
	if got := guessDelimiterByFrequency(nine, "\n", nil); got != "," {
		t.Fatalf("9/10 consistency: got %q, want ,", got)
	}

	// Seven lines of ten: mode score 4 of 10, below the floor.
	seven := strings.Join(append(lines[:7:7], "MN", "OP", "QR"), "\n") + "\n"
	if got := guessDelimiterByFrequency(seven, "\n", nil); got != "" {
		t.Fatalf("7/10 consistency: got %q, want empty", got)
	}
}

// TestGuessDelimiterByFrequency_PreferenceTieBreak verifies that when several
// characters are equally consistent the fixed preference order decides.
func TestGuessDelimiterByFrequency_PreferenceTieBreak(t *testing.T) {
	t.Parallel()

	// Both ';' and ',' occur exactly once per line.
	sample := "a,b;c\n1,2;3\n4,5;6\n"
	if got := guessDelimiterByFrequency(sample, "\n", nil); got != "," {
		t.Fatalf("tie-break: got %q, want , (first in preference order)", got)
	}
}

// TestGuessDelimiterByFrequency_AllowedSet verifies that the allowed set
// filters candidates before the tie-break.
func TestGuessDelimiterByFrequency_AllowedSet(t *testing.T) {
	t.Parallel()

	sample := "a,b;c\n1,2;3\n4,5;6\n"
	if got := guessDelimiterByFrequency(sample, "\n", map[byte]bool{';': true}); got != ";" {
		t.Fatalf("allowed set: got %q, want ;", got)
	}
	if got := guessDelimiterByFrequency(sample, "\n", map[byte]bool{'|': true}); got != "" {
		t.Fatalf("allowed set without candidates: got %q, want empty", got)
	}
}
