package sniff

// headerTypeVote is the weight of a per-column type break: the candidate
// header cell is non-numeric while the body below it is numeric. This is the
// strongest single signal a label row exists.
const headerTypeVote = 2

// voteHeader decides whether row 0 is a header by a signed per-column vote.
//
// Per column: a type break (first-row type string, tail type anything
// stronger) votes +headerTypeVote. Otherwise the column votes on length
// evidence: if the candidate header cell's length deviates from the mean tail
// field length by more than twice the variance it votes +1, else -1. The sum
// across columns decides; zero means no header.
func voteHeader(table [][]string, first, tail []string) bool {
	if len(table) == 0 {
		return false
	}
	width := len(table[0])

	vote := 0
	for j := 0; j < width; j++ {
		if first[j] != tail[j] && first[j] == TypeString {
			vote += headerTypeVote
			continue
		}

		mean, variance := lengthStats(table, j, width)
		dev := float64(len(table[0][j])) - mean
		if dev < 0 {
			dev = -dev
		}
		if dev > 2*variance {
			vote++
		} else {
			vote--
		}
	}
	return vote > 0
}

// lengthStats computes the mean and variance of column j's field lengths over
// the tail rows, skipping malformed rows just like the type profiles do.
func lengthStats(table [][]string, j, width int) (mean, variance float64) {
	n := 0
	sum := 0.0
	for _, row := range table[1:] {
		if len(row) != width {
			continue
		}
		sum += float64(len(row[j]))
		n++
	}
	if n == 0 {
		return 0, 0
	}
	mean = sum / float64(n)

	for _, row := range table[1:] {
		if len(row) != width {
			continue
		}
		d := float64(len(row[j])) - mean
		variance += d * d
	}
	variance /= float64(n)
	return mean, variance
}
