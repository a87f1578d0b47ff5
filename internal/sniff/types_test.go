package sniff

import (
	"reflect"
	"testing"
)

//
// accumulateType
//

// TestAccumulateType verifies the one-way type lattice.
//
// Edge cases validated:
//   - string is absorbing: no later value strengthens it
//   - float never strengthens back to integer
//   - a finite value with zero fractional part keeps integer
//   - empty strings and non-finite values force string
func TestAccumulateType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		acc   string
		value string
		want  string
	}{
		{"integer stays integer", TypeInteger, "42", TypeInteger},
		{"negative integer", TypeInteger, "-7", TypeInteger},
		{"zero fraction keeps integer", TypeInteger, "3.0", TypeInteger},
		{"fraction weakens to float", TypeInteger, "2.5", TypeFloat},
		{"scientific with fraction", TypeInteger, "1.5e-1", TypeFloat},
		{"text weakens to string", TypeInteger, "bob", TypeString},
		{"empty weakens to string", TypeInteger, "", TypeString},
		{"nan is not finite", TypeInteger, "NaN", TypeString},
		{"inf is not finite", TypeInteger, "Inf", TypeString},
		{"float never strengthens", TypeFloat, "4", TypeFloat},
		{"float weakens to string", TypeFloat, "x", TypeString},
		{"string is absorbing", TypeString, "42", TypeString},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := accumulateType(tt.acc, tt.value); got != tt.want {
				t.Fatalf("accumulateType(%q, %q) = %q, want %q", tt.acc, tt.value, got, tt.want)
			}
		})
	}
}

// TestAccumulateType_Monotonic verifies that any value sequence only ever
// moves the accumulated type forward through the lattice.
func TestAccumulateType_Monotonic(t *testing.T) {
	t.Parallel()

	rank := map[string]int{TypeInteger: 0, TypeFloat: 1, TypeString: 2}
	values := []string{"1", "2.5", "x", "3", "4.0", "", "-1"}

	acc := TypeInteger
	for _, v := range values {
		next := accumulateType(acc, v)
		if rank[next] < rank[acc] {
			t.Fatalf("type strengthened from %q to %q on value %q", acc, next, v)
		}
		acc = next
	}
	if acc != TypeString {
		t.Fatalf("final type = %q, want string", acc)
	}
}

//
// typeProfiles
//

// TestTypeProfiles verifies the three per-column profiles: first row only,
// tail rows, and all rows.
func TestTypeProfiles(t *testing.T) {
	t.Parallel()

	table := [][]string{
		{"id", "score", "note"},
		{"1", "2.5", "x"},
		{"2", "3", "y"},
	}

	first, tail, all := typeProfiles(table)
	if want := []string{TypeString, TypeString, TypeString}; !reflect.DeepEqual(first, want) {
		t.Fatalf("first = %v, want %v", first, want)
	}
	if want := []string{TypeInteger, TypeFloat, TypeString}; !reflect.DeepEqual(tail, want) {
		t.Fatalf("tail = %v, want %v", tail, want)
	}
	if want := []string{TypeString, TypeString, TypeString}; !reflect.DeepEqual(all, want) {
		t.Fatalf("all = %v, want %v", all, want)
	}
}

// TestTypeProfiles_SkipsMalformedRows verifies that rows whose field count
// differs from row 0 contribute to no column.
func TestTypeProfiles_SkipsMalformedRows(t *testing.T) {
	t.Parallel()

	table := [][]string{
		{"1", "2"},
		{"x"},           // short: skipped
		{"y", "z", "w"}, // long: skipped
		{"3", "4"},
	}

	_, tail, _ := typeProfiles(table)
	if want := []string{TypeInteger, TypeInteger}; !reflect.DeepEqual(tail, want) {
		t.Fatalf("tail = %v, want %v (malformed rows must be skipped)", tail, want)
	}
}

// TestTypeProfiles_Empty verifies that an empty table yields empty profiles.
func TestTypeProfiles_Empty(t *testing.T) {
	t.Parallel()

	first, tail, all := typeProfiles(nil)
	if first != nil || tail != nil || all != nil {
		t.Fatalf("profiles of empty table = (%v,%v,%v), want nils", first, tail, all)
	}
}
