package sniff

import "strings"

// The frequency guesser is the fallback when no quoted structure exists. It
// looks for a character whose per-line occurrence count is highly consistent
// across lines: a real delimiter appears the same number of times on almost
// every row.

// asciiLimit bounds the candidate alphabet to the printable ASCII range.
const asciiLimit = 127

// frequency relaxation: full consistency is demanded first, then relaxed one
// percent per round down to the floor. Tracked in integer percent to avoid
// float drift over twenty rounds.
const (
	startConsistencyPct = 100
	minConsistencyPct   = 80
)

// preferredDelimiters is the fixed tie-break order when several characters
// look equally consistent.
var preferredDelimiters = []byte{',', '\t', ';', ' ', ':', '|'}

// guessDelimiterByFrequency returns the most consistent candidate delimiter,
// or "" when no character reaches the consistency floor.
//
// Per line, a 127-slot occurrence table is built; per character this becomes a
// meta-frequency table (how many lines contained the character exactly k
// times). The mode score 2*max(meta) - sum(meta) rewards characters with one
// dominant per-line count. Lines made empty by the split are not evidence and
// are skipped.
func guessDelimiterByFrequency(sample, newline string, allowed map[byte]bool) string {
	var lines []string
	for _, ln := range strings.Split(sample, newline) {
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	total := len(lines)
	if total == 0 {
		return ""
	}

	// meta[c][k] = number of lines with exactly k occurrences of c.
	meta := make([]map[int]int, asciiLimit)
	for c := range meta {
		meta[c] = make(map[int]int)
	}
	for _, ln := range lines {
		var perLine [asciiLimit]int
		for i := 0; i < len(ln); i++ {
			if ln[i] < asciiLimit {
				perLine[ln[i]]++
			}
		}
		for c := 0; c < asciiLimit; c++ {
			meta[c][perLine[c]]++
		}
	}

	type mode struct {
		count int // the dominant per-line occurrence count
		score int // 2*meta[count] - sum(meta)
	}
	modes := make([]mode, asciiLimit)
	for c := 0; c < asciiLimit; c++ {
		bestK, bestN, sum := 0, -1, 0
		for k := 0; k <= maxKey(meta[c]); k++ {
			n, ok := meta[c][k]
			if !ok {
				continue
			}
			sum += n
			if n > bestN {
				bestK, bestN = k, n
			}
		}
		modes[c] = mode{count: bestK, score: 2*bestN - sum}
	}

	for pct := startConsistencyPct; pct >= minConsistencyPct; pct-- {
		consistency := float64(pct) / 100
		var candidates []byte
		for c := 0; c < asciiLimit; c++ {
			m := modes[c]
			if m.count <= 0 || m.score <= 0 {
				continue
			}
			if float64(m.score)/float64(total) < consistency {
				continue
			}
			b := byte(c)
			if allowed != nil && !allowed[b] {
				continue
			}
			candidates = append(candidates, b)
		}
		if len(candidates) == 0 {
			continue
		}
		if len(candidates) == 1 {
			return string(candidates[0])
		}
		for _, p := range preferredDelimiters {
			for _, c := range candidates {
				if c == p {
					return string(c)
				}
			}
		}
		return string(candidates[0])
	}
	return ""
}

func maxKey(m map[int]int) int {
	max := 0
	for k := range m {
		if k > max {
			max = k
		}
	}
	return max
}
