package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mmautosoft/dealership_backend/config"
	"github.com/mmautosoft/dealership_backend/models"
	"github.com/mmautosoft/dealership_backend/sheet"
	"github.com/mmautosoft/dealership_backend/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(store sheet.Client) *gin.Engine {
	return newRouter(config.GetLogger(),
		func() sheet.Client { return store },
		func() *config.StorageConfig { return nil })
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := utils.JwtGenerate("admin", "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

// seedCar places a raw Cars row with a literal derived status, the way
// a store snapshot would hold it.
func seedCar(store *sheet.MemoryStore, id string, status models.CarStatus) {
	row := make([]string, models.CarsSheet.NumCols())
	row[0] = id
	row[models.CarsSheet.NumCols()-1] = string(status)
	store.Seed(models.CarsSheet.Sheet, [][]string{row})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAPIRequiresBearerToken(t *testing.T) {
	r := testRouter(sheet.NewMemoryStore(models.AllSchemas()...))

	w := doJSON(t, r, http.MethodGet, "/api/cars", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: got %d, want 401", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/cars", "Bearer not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: got %d, want 401", w.Code)
	}
}

func TestReadinessGate(t *testing.T) {
	r := testRouter(nil)

	w := doJSON(t, r, http.MethodGet, "/api/cars", bearerToken(t), nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("store not open: got %d, want 503", w.Code)
	}

	// The startup probe must answer regardless of store state.
	w = doJSON(t, r, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("healthz: got %d, want 204", w.Code)
	}
}

func TestListCarsPagination(t *testing.T) {
	store := sheet.NewMemoryStore(models.AllSchemas()...)
	rows := make([][]string, 0, 3)
	for _, id := range []string{"C1", "C2", "C3"} {
		row := make([]string, models.CarsSheet.NumCols())
		row[0] = id
		rows = append(rows, row)
	}
	store.Seed(models.CarsSheet.Sheet, rows)
	r := testRouter(store)

	w := doJSON(t, r, http.MethodGet, "/api/cars?page=2&limit=2", bearerToken(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data       []models.Car     `json:"data"`
		Pagination sheet.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != "C3" {
		t.Fatalf("page 2 data = %+v", resp.Data)
	}
	if resp.Pagination.TotalItems != 3 || resp.Pagination.TotalPages != 2 ||
		resp.Pagination.CurrentPage != 2 || resp.Pagination.Limit != 2 {
		t.Fatalf("pagination = %+v", resp.Pagination)
	}
}

func TestCreateCarJSON(t *testing.T) {
	store := sheet.NewMemoryStore(models.AllSchemas()...)
	r := testRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/cars", bearerToken(t), map[string]any{
		"make":            "Toyota",
		"model":           "Vitz",
		"purchasePrice":   9000000,
		"purchaseDate":    "2024-01-10",
		"investmentSplit": []float64{0.5, 0.5},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}

	var car models.Car
	if err := json.Unmarshal(w.Body.Bytes(), &car); err != nil {
		t.Fatal(err)
	}
	if car.ID != "C1" || car.Make != "Toyota" {
		t.Fatalf("created car %+v", car)
	}
}

func TestCreateCarValidation(t *testing.T) {
	r := testRouter(sheet.NewMemoryStore(models.AllSchemas()...))

	// Missing required fields fail binding.
	w := doJSON(t, r, http.MethodPost, "/api/cars", bearerToken(t), map[string]any{
		"model": "Vitz",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: got %d: %s", w.Code, w.Body.String())
	}

	// A split that does not sum to one fails service validation.
	w = doJSON(t, r, http.MethodPost, "/api/cars", bearerToken(t), map[string]any{
		"make":            "Toyota",
		"model":           "Vitz",
		"purchasePrice":   9000000,
		"purchaseDate":    "2024-01-10",
		"investmentSplit": []float64{0.5, 0.1},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad split: got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateCarReplacesDocuments(t *testing.T) {
	store := sheet.NewMemoryStore(models.AllSchemas()...)
	row := make([]string, models.CarsSheet.NumCols())
	row[0] = "C1"
	row[14] = "old.pdf" // Documents cell
	store.Seed(models.CarsSheet.Sheet, [][]string{row})
	r := testRouter(store)

	// Storage is unconfigured here: the document swap must still go
	// through, only the orphan-blob cleanup is skipped.
	w := doJSON(t, r, http.MethodPut, "/api/cars/C1", bearerToken(t), map[string]any{
		"documents": []string{"new.pdf"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	var car models.Car
	if err := json.Unmarshal(w.Body.Bytes(), &car); err != nil {
		t.Fatal(err)
	}
	if len(car.Documents) != 1 || car.Documents[0] != "new.pdf" {
		t.Fatalf("documents = %v", car.Documents)
	}
}

func TestCreateSaleConflict(t *testing.T) {
	store := sheet.NewMemoryStore(models.AllSchemas()...)
	seedCar(store, "C1", models.CarStatusSold)
	r := testRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/sales", bearerToken(t), map[string]any{
		"carId":         "C1",
		"date":          "2024-04-05",
		"price":         10500000,
		"buyerName":     "Daw Hla",
		"paymentStatus": "Paid",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetCarNotFound(t *testing.T) {
	r := testRouter(sheet.NewMemoryStore(models.AllSchemas()...))
	w := doJSON(t, r, http.MethodGet, "/api/cars/C99", bearerToken(t), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD_HASH", hash)

	r := testRouter(sheet.NewMemoryStore(models.AllSchemas()...))

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "admin",
		"password": "s3cret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" || resp.Role != "admin" {
		t.Fatalf("login response %+v", resp)
	}

	// The issued token must be accepted by the API guard.
	req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("issued token rejected: %d", rec.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "admin",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: got %d", w.Code)
	}
}

func TestViewerTokenIsReadOnly(t *testing.T) {
	store := sheet.NewMemoryStore(models.AllSchemas()...)
	seedCar(store, "C1", models.CarStatusAvailable)
	r := testRouter(store)

	token, err := utils.JwtGenerate("viewer", "viewer")
	if err != nil {
		t.Fatal(err)
	}
	bearer := "Bearer " + token

	w := doJSON(t, r, http.MethodGet, "/api/cars", bearer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("viewer read: got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/cars", bearer, map[string]any{
		"make": "Toyota", "model": "Vitz", "purchasePrice": 1,
		"purchaseDate": "2024-01-10", "investmentSplit": []float64{1},
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("viewer write: got %d, want 403", w.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	r := testRouter(sheet.NewMemoryStore(models.AllSchemas()...))
	w := doJSON(t, r, http.MethodGet, "/api/nope", bearerToken(t), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("got %d", w.Code)
	}
}

func TestCorrelationIDEchoed(t *testing.T) {
	r := testRouter(sheet.NewMemoryStore(models.AllSchemas()...))

	w := doJSON(t, r, http.MethodGet, "/healthz", "", nil)
	if w.Header().Get("x-correlation-id") == "" {
		t.Fatal("missing generated correlation id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("x-correlation-id", "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("x-correlation-id"); got != "req-42" {
		t.Fatalf("correlation id = %q, want req-42", got)
	}
}
