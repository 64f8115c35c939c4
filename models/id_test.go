package models

import "testing"

func TestNextID(t *testing.T) {
	cases := []struct {
		name     string
		prefix   string
		existing []string
		want     string
	}{
		{"empty sheet", CarIDPrefix, nil, "C1"},
		{"sequential", CarIDPrefix, []string{"C1", "C2", "C3"}, "C4"},
		{"gap does not backfill", CarIDPrefix, []string{"C1", "C2", "C5"}, "C6"},
		{"unordered", SaleIDPrefix, []string{"S9", "S2", "S4"}, "S10"},
		{"foreign prefixes ignored", CarIDPrefix, []string{"C3", "S7", "RN12"}, "C4"},
		{"non-numeric remainder ignored", CarIDPrefix, []string{"C3", "Cabc", "C"}, "C4"},
		{"whitespace tolerated", RentalIDPrefix, []string{" RN2 ", "RN1"}, "RN3"},
		{"R prefix does not match RN", RepairIDPrefix, []string{"R2", "RN9"}, "R3"},
	}
	for _, tc := range cases {
		if got := NextID(tc.prefix, tc.existing); got != tc.want {
			t.Fatalf("%s: NextID(%q, %v) = %q, want %q", tc.name, tc.prefix, tc.existing, got, tc.want)
		}
	}
}
