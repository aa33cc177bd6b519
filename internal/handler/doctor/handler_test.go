package doctor

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	doctormodel "github.com/sridharsri/consultancy/backend/internal/model/doctor"
)

func setupRouter() (*chi.Mux, doctormodel.Store) {
	store := doctormodel.NewMemoryStore(doctormodel.Seed())
	handler := New(store)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, store
}

func TestListDoctors(t *testing.T) {
	r, store := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/doctors", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Doctors []doctormodel.Doctor `json:"doctors"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Doctors) != len(store.List()) {
		t.Fatalf("expected %d doctors, got %d", len(store.List()), len(body.Doctors))
	}
}

func TestGetDoctorByID(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/doctors/D1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Doctor doctormodel.Doctor `json:"doctor"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Doctor.ID != "D1" {
		t.Fatalf("expected doctor D1, got %q", body.Doctor.ID)
	}
}

func TestGetUnknownDoctor(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/doctors/D99", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestAddDoctorAssignsNextID(t *testing.T) {
	r, store := setupRouter()

	payload, _ := json.Marshal(map[string]string{
		"name":       "Dr. Test",
		"hospital":   "Test Hospital",
		"speciality": "Neurology",
	})
	req := httptest.NewRequest(http.MethodPost, "/doctors", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ID != "D4" {
		t.Fatalf("expected id D4 after the three seeded doctors, got %s", body.ID)
	}
	if _, ok := store.FindByID("D4"); !ok {
		t.Fatal("added doctor not found in store")
	}
}

func TestAddDoctorMissingFields(t *testing.T) {
	r, _ := setupRouter()

	payload, _ := json.Marshal(map[string]string{"name": "Dr. Test"})
	req := httptest.NewRequest(http.MethodPost, "/doctors", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestRemoveDoctor(t *testing.T) {
	r, store := setupRouter()

	req := httptest.NewRequest(http.MethodDelete, "/doctors/D2", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if _, ok := store.FindByID("D2"); ok {
		t.Fatal("doctor D2 should be removed")
	}
}

func TestRemoveUnknownDoctor(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodDelete, "/doctors/D99", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
