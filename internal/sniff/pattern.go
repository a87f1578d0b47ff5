package sniff

import "strings"

// The structural guesser looks for quoted field shapes in the raw sample.
// Four patterns are tried in strict priority order, stopping at the first one
// producing at least one match:
//
//  1. delim quote ... quote delim   (same delimiter on both sides)
//  2. quote ... quote delim         (quote block at line start)
//  3. delim quote ... quote         (quote block at line end)
//  4. quote ... quote               (quote block spanning a whole line)
//
// Matching is leftmost and non-overlapping across the full sample. These were
// regular expressions once; Go's regexp has no backreferences, so the same
// semantics are expressed as explicit scans.

// patternMatch is one structural hit: a quote vote, plus a delimiter vote for
// the patterns that capture one.
type patternMatch struct {
	quote    byte
	delim    byte
	hasDelim bool
}

func isQuoteChar(c byte) bool { return c == '\'' || c == '"' }

// isPatternDelim reports whether c can act as a delimiter in a structural
// pattern: not a word character, not a quote, not part of the terminator.
func isPatternDelim(c byte, newline string) bool {
	switch {
	case c == '_',
		c >= '0' && c <= '9',
		c >= 'a' && c <= 'z',
		c >= 'A' && c <= 'Z':
		return false
	}
	if isQuoteChar(c) {
		return false
	}
	return strings.IndexByte(newline, c) < 0
}

// atLineStart reports whether position i begins a line with respect to the
// resolved terminator.
func atLineStart(sample, newline string, i int) bool {
	return i == 0 || strings.HasSuffix(sample[:i], newline)
}

// atLineEnd reports whether position i (exclusive) ends a line: end of sample
// or immediately followed by the terminator.
func atLineEnd(sample, newline string, i int) bool {
	return i == len(sample) || strings.HasPrefix(sample[i:], newline)
}

// matchPatternAt attempts pattern p at position i. The content between the
// quotes is minimal (non-greedy): it ends at the first closing quote whose
// successor satisfies the pattern. On success it returns the match and the
// position one past it.
func matchPatternAt(sample, newline string, p, i int) (patternMatch, int, bool) {
	s := sample
	switch p {
	case 1: // delim quote ... quote delim
		if i+3 >= len(s) || !isPatternDelim(s[i], newline) || !isQuoteChar(s[i+1]) {
			break
		}
		d, q := s[i], s[i+1]
		for j := i + 2; j+1 < len(s); j++ {
			if s[j] == q && s[j+1] == d {
				return patternMatch{quote: q, delim: d, hasDelim: true}, j + 2, true
			}
		}

	case 2: // line start, quote ... quote delim
		if i >= len(s) || !atLineStart(s, newline, i) || !isQuoteChar(s[i]) {
			break
		}
		q := s[i]
		for j := i + 1; j+1 < len(s); j++ {
			if s[j] == q && isPatternDelim(s[j+1], newline) {
				return patternMatch{quote: q, delim: s[j+1], hasDelim: true}, j + 2, true
			}
		}

	case 3: // delim quote ... quote, line end
		if i+2 >= len(s) || !isPatternDelim(s[i], newline) || !isQuoteChar(s[i+1]) {
			break
		}
		d, q := s[i], s[i+1]
		for j := i + 2; j < len(s); j++ {
			if s[j] == q && atLineEnd(s, newline, j+1) {
				return patternMatch{quote: q, delim: d, hasDelim: true}, j + 1, true
			}
		}

	case 4: // line start, quote ... quote, line end
		if i >= len(s) || !atLineStart(s, newline, i) || !isQuoteChar(s[i]) {
			break
		}
		q := s[i]
		for j := i + 1; j < len(s); j++ {
			if s[j] == q && atLineEnd(s, newline, j+1) {
				return patternMatch{quote: q}, j + 1, true
			}
		}
	}
	return patternMatch{}, 0, false
}

// scanPattern collects all leftmost non-overlapping matches of pattern p.
func scanPattern(sample, newline string, p int) []patternMatch {
	var out []patternMatch
	for i := 0; i < len(sample); {
		m, end, ok := matchPatternAt(sample, newline, p, i)
		if !ok {
			i++
			continue
		}
		out = append(out, m)
		i = end
	}
	return out
}

// guessQuoteAndDelimiter runs the structural patterns in priority order and
// tallies votes from the first pattern that matched. Ties resolve to the
// first-encountered character. A delimiter equal to the terminator itself is
// discarded (single-column sample). Both results may be empty.
func guessQuoteAndDelimiter(sample, newline string, allowed map[byte]bool) (delim, quote string) {
	var matches []patternMatch
	for p := 1; p <= 4; p++ {
		if matches = scanPattern(sample, newline, p); len(matches) > 0 {
			break
		}
	}
	if len(matches) == 0 {
		return "", ""
	}

	delimVotes := newVoteTally()
	quoteVotes := newVoteTally()
	for _, m := range matches {
		quoteVotes.add(m.quote)
		if !m.hasDelim {
			continue
		}
		if allowed != nil && !allowed[m.delim] {
			continue
		}
		delimVotes.add(m.delim)
	}

	quote = string(quoteVotes.winner())
	if d, ok := delimVotes.best(); ok && string(d) != newline {
		delim = string(d)
	}
	return delim, quote
}

// voteTally counts character votes preserving first-encounter order so ties
// break deterministically.
type voteTally struct {
	counts map[byte]int
	order  []byte
}

func newVoteTally() *voteTally {
	return &voteTally{counts: make(map[byte]int)}
}

func (t *voteTally) add(c byte) {
	if _, seen := t.counts[c]; !seen {
		t.order = append(t.order, c)
	}
	t.counts[c]++
}

func (t *voteTally) best() (byte, bool) {
	if len(t.order) == 0 {
		return 0, false
	}
	best := t.order[0]
	for _, c := range t.order[1:] {
		if t.counts[c] > t.counts[best] {
			best = c
		}
	}
	return best, true
}

func (t *voteTally) winner() byte {
	c, _ := t.best()
	return c
}
