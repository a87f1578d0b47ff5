package sniff

import (
	"errors"
	"strings"
)

// ErrNoNewline is returned by Sniff when the sample contains no line
// terminator at all. This is the only fatal condition: without a terminator
// there is nothing to segment, so no partial result is produced.
var ErrNoNewline = errors.New("sniff: no line terminator found in sample")

// newlineCandidates holds the recognized terminators in declared priority
// order. The two-character terminators come first so substring elimination can
// run against their one-character components, and so ties resolve to them.
var newlineCandidates = []string{"\r\n", "\n\r", "\n", "\r"}

// newlineLineThreshold is the minimum induced line count a candidate must
// exceed before line-length consistency is used to settle a multi-way tie.
const newlineLineThreshold = 5

// detectNewline infers the most probable line terminator for the sample.
//
// For each candidate the sample is split on the terminator; the segment count
// and segment lengths form the candidate's evidence. Because "\r\n" and
// "\n\r" contain "\n" and "\r" as substrings, every match of a two-character
// terminator also registers a spurious match for its components. A
// one-character candidate whose segment count exactly mirrors a two-character
// candidate is therefore discarded.
//
// Of the surviving candidates (those inducing more than one segment):
//   - none      -> ErrNoNewline
//   - exactly 1 -> it wins outright
//   - several   -> candidates above newlineLineThreshold are scored by the
//     mean absolute deviation of their line lengths relative to the mean line
//     length; the most length-consistent segmentation wins. If none clear the
//     threshold, the highest segment count wins, ties in declared order.
func detectNewline(sample string) (string, error) {
	counts := make([]int, len(newlineCandidates))
	lengths := make([][]int, len(newlineCandidates))

	for i, cand := range newlineCandidates {
		parts := strings.Split(sample, cand)
		if len(parts) < 2 {
			// Terminator absent.
			continue
		}
		counts[i] = len(parts)
		ls := make([]int, len(parts))
		for j, p := range parts {
			ls[j] = len(p)
		}
		lengths[i] = ls
	}

	// Substring elimination.
	for i, cand := range newlineCandidates {
		if len(cand) != 2 || counts[i] <= 1 {
			continue
		}
		for j, sub := range newlineCandidates {
			if len(sub) != 1 || !strings.Contains(cand, sub) {
				continue
			}
			if counts[j] == counts[i] {
				counts[j] = 0
			}
		}
	}

	alive := indicesAbove(counts, 1)
	switch len(alive) {
	case 0:
		return "", ErrNoNewline
	case 1:
		return newlineCandidates[alive[0]], nil
	}

	over := indicesAbove(counts, newlineLineThreshold)
	if len(over) == 0 {
		best := alive[0]
		for _, i := range alive[1:] {
			if counts[i] > counts[best] {
				best = i
			}
		}
		return newlineCandidates[best], nil
	}
	if len(over) == 1 {
		return newlineCandidates[over[0]], nil
	}

	best := over[0]
	bestScore := lengthDeviation(lengths[best])
	for _, i := range over[1:] {
		if s := lengthDeviation(lengths[i]); s < bestScore {
			best, bestScore = i, s
		}
	}
	return newlineCandidates[best], nil
}

// indicesAbove returns the candidate indices whose count exceeds min, in
// declared order.
func indicesAbove(counts []int, min int) []int {
	out := make([]int, 0, len(counts))
	for i, c := range counts {
		if c > min {
			out = append(out, i)
		}
	}
	return out
}

// lengthDeviation scores how uneven a candidate's induced line lengths are:
// the mean absolute deviation normalized by the mean line length. Lower means
// a more regular segmentation.
func lengthDeviation(lengths []int) float64 {
	if len(lengths) == 0 {
		return 0
	}
	var sum float64
	for _, l := range lengths {
		sum += float64(l)
	}
	mean := sum / float64(len(lengths))
	if mean == 0 {
		return 0
	}

	var dev float64
	for _, l := range lengths {
		d := float64(l) - mean
		if d < 0 {
			d = -d
		}
		dev += d
	}
	return dev / float64(len(lengths)) / mean
}
