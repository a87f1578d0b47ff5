package sniff

import (
	"errors"
	"testing"
)

//
// detectNewline
//

// TestDetectNewline verifies terminator detection across the four candidates.
//
// Edge cases validated:
//   - two-character terminators suppress the spurious matches of their
//     one-character components
//   - a single occurrence is still enough when it is unambiguous
//   - mixed samples resolve by dominant line count
func TestDetectNewline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sample string
		want   string
	}{
		{"plain lf", "a,b\n1,2\n", "\n"},
		{"plain cr", "a\rb\rc\r", "\r"},
		{"crlf", "a\r\nb\r\nc\r\n", "\r\n"},
		{"lfcr", "a\n\rb\n\rc\n\r", "\n\r"},
		{"crlf single occurrence", "a\r\nb", "\r\n"},
		{"lf dominates stray cr", "a\nb\rc\nd\ne\nf\ng\nh\n", "\n"},
		{"lf without trailing terminator", "a\nb\nc", "\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := detectNewline(tt.sample)
			if err != nil {
				t.Fatalf("detectNewline(%q) error: %v", tt.sample, err)
			}
			if got != tt.want {
				t.Fatalf("detectNewline(%q) = %q, want %q", tt.sample, got, tt.want)
			}
		})
	}
}

// TestDetectNewline_NoTerminator verifies the fatal path: a sample without any
// terminator character must yield ErrNoNewline and nothing else.
func TestDetectNewline_NoTerminator(t *testing.T) {
	t.Parallel()

	for _, sample := range []string{"", "abc", "a,b,c"} {
		if _, err := detectNewline(sample); !errors.Is(err, ErrNoNewline) {
			t.Fatalf("detectNewline(%q) err = %v, want ErrNoNewline", sample, err)
		}
	}
}

// TestLengthDeviation verifies the length-consistency score used to settle
// multi-candidate ties: uniform segmentations score zero, uneven ones score
// higher.
func TestLengthDeviation(t *testing.T) {
	t.Parallel()

	if got := lengthDeviation([]int{5, 5, 5, 5}); got != 0 {
		t.Fatalf("uniform lengths score = %v, want 0", got)
	}
	if got := lengthDeviation(nil); got != 0 {
		t.Fatalf("empty lengths score = %v, want 0", got)
	}

	even := lengthDeviation([]int{10, 10, 10, 9})
	uneven := lengthDeviation([]int{2, 18, 1, 19})
	if even >= uneven {
		t.Fatalf("even score %v should be below uneven score %v", even, uneven)
	}
}
