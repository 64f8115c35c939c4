package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Record ID prefixes. One unpadded scheme for everything: C1, R7, S2, RN1.
const (
	CarIDPrefix    = "C"
	RepairIDPrefix = "R"
	SaleIDPrefix   = "S"
	RentalIDPrefix = "RN"
)

// NextID derives the next identifier for a record type from the existing
// set: strip the prefix, take the largest numeric remainder, add one.
// Non-numeric remainders (and IDs with other prefixes) are ignored.
//
// The function is pure; the duplicate-ID race between two creates working
// from the same snapshot lives in the caller, which re-checks uniqueness
// before appending.
func NextID(prefix string, existing []string) string {
	max := 0
	for _, id := range existing {
		id = strings.TrimSpace(id)
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		n, err := strconv.Atoi(id[len(prefix):])
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%d", prefix, max+1)
}
