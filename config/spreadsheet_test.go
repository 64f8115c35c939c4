package config

import (
	"sync"
	"testing"

	"github.com/mmautosoft/dealership_backend/sheet"
)

// GetStore is read by serving goroutines while main is still opening
// the store; concurrent reads against the open must stay safe.
func TestGetStoreSafeDuringOpen(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	schemas := []sheet.Schema{{
		Sheet:        "Cars",
		FirstDataRow: 2,
		Columns:      []sheet.Column{{Name: "ID"}},
	}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				GetStore()
			}
		}()
	}
	OpenStoreWithRetry(schemas)
	wg.Wait()

	if GetStore() == nil {
		t.Fatal("store is nil after a successful open")
	}
}
