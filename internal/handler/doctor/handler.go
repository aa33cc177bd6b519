package doctor

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sridharsri/consultancy/backend/internal/model/doctor"
	"github.com/sridharsri/consultancy/backend/pkg/utils"
)

// Handler serves the doctor directory that backs the assistant's
// doctor-context answers.
type Handler struct {
	doctors doctor.Store
}

// New creates the doctor directory handler.
func New(doctors doctor.Store) *Handler {
	return &Handler{doctors: doctors}
}

// RegisterRoutes registers the directory routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/doctors", h.handleList)
	r.Get("/doctors/{doctorID}", h.handleGet)
	r.Post("/doctors", h.handleAdd)
	r.Delete("/doctors/{doctorID}", h.handleRemove)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"doctors": h.doctors.List(),
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")

	d, ok := h.doctors.FindByID(doctorID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "Doctor not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"doctor":  d,
	})
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name         string            `json:"name"`
		Hospital     string            `json:"hospital"`
		Speciality   string            `json:"speciality"`
		Availability map[string]string `json:"availability"`
		ProfilePhoto string            `json:"profilePhoto"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Name) == "" || strings.TrimSpace(payload.Hospital) == "" || strings.TrimSpace(payload.Speciality) == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	added := h.doctors.Add(doctor.Doctor{
		Name:         payload.Name,
		Hospital:     payload.Hospital,
		Speciality:   payload.Speciality,
		Availability: payload.Availability,
		ProfilePhoto: payload.ProfilePhoto,
	})

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Doctor added successfully",
		"id":      added.ID,
	})
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")

	if !h.doctors.Remove(doctorID) {
		utils.RespondError(w, http.StatusNotFound, "Doctor not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Doctor deleted successfully",
	})
}
