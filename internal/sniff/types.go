package sniff

import (
	"math"
	"strconv"
)

// Column type tags. They form a one-way lattice: an accumulated type only ever
// weakens integer -> float -> string, never strengthens back.
const (
	TypeInteger = "integer"
	TypeFloat   = "float"
	TypeString  = "string"
)

// accumulateType folds one field value into an accumulated column type.
// Values that do not parse as a finite number force string; a finite value
// with a fractional part forces float; otherwise the accumulated type is kept
// at its current strength.
func accumulateType(acc, value string) string {
	if acc == TypeString {
		return TypeString
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return TypeString
	}
	if acc == TypeFloat {
		return TypeFloat
	}
	if f != math.Trunc(f) {
		return TypeFloat
	}
	return TypeInteger
}

// typeProfiles computes three per-column profiles over the parsed table:
//
//	first: row 0 only, each column's type from that single value
//	tail:  rows 1..N accumulated, independent of row 0
//	all:   tail further weakened by folding in row 0
//
// Row 0 fixes the expected width; rows with a different field count are
// malformed lines and contribute to no column.
func typeProfiles(table [][]string) (first, tail, all []string) {
	if len(table) == 0 {
		return nil, nil, nil
	}
	width := len(table[0])

	first = make([]string, width)
	tail = make([]string, width)
	for j := range tail {
		first[j] = accumulateType(TypeInteger, table[0][j])
		tail[j] = TypeInteger
	}

	for _, row := range table[1:] {
		if len(row) != width {
			continue
		}
		for j, v := range row {
			tail[j] = accumulateType(tail[j], v)
		}
	}

	all = make([]string, width)
	for j := range all {
		all[j] = accumulateType(tail[j], table[0][j])
	}
	return first, tail, all
}
