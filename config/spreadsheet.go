package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mmautosoft/dealership_backend/sheet"
)

var (
	storeMu sync.RWMutex
	store   sheet.Client
)

// GetStore returns the record store, nil until OpenStoreWithRetry has
// succeeded. The HTTP readiness gate keys off that nil. Guarded: the
// serving goroutines read it while main is still opening the store.
func GetStore() sheet.Client {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return store
}

func setStore(s sheet.Client) {
	storeMu.Lock()
	store = s
	storeMu.Unlock()
}

func init() {
	// Load env from .env
	godotenv.Load()
	// Do NOT open the workbook in init(): the container must start
	// listening quickly. main() calls OpenStoreWithRetry after the port
	// is open.
}

// OpenStoreWithRetry opens the backing store and sets the global.
// Call this from main() AFTER the HTTP server is listening.
//
// Env:
// - STORE_BACKEND: "xlsx" (default) or "memory"
// - SHEET_DB_PATH: workbook location (default "dealership.xlsx")
func OpenStoreWithRetry(schemas []sheet.Schema) {
	logger := GetLogger()

	if strings.EqualFold(strings.TrimSpace(os.Getenv("STORE_BACKEND")), "memory") {
		setStore(sheet.NewMemoryStore(schemas...))
		logger.WithFields(logrus.Fields{"field": "store"}).Warn("using in-memory store; data is not persisted")
		return
	}

	path := strings.TrimSpace(os.Getenv("SHEET_DB_PATH"))
	if path == "" {
		path = "dealership.xlsx"
	}

	var attempt int
	for {
		attempt++
		s, err := sheet.OpenXLSX(path, schemas)
		if err == nil {
			setStore(s)
			return
		}
		sleep := time.Second * time.Duration(1<<minInt(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "store",
			"attempt": attempt,
		}).Warn("failed to open workbook; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
