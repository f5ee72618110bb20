package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pet-health-chat/internal/middleware"
	"pet-health-chat/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc, log))
		pr.Post("/", createPetHandler(svc, log))

		pr.Get("/{petID}", getPetHandler(svc, log))
		// PUT es la ruta histórica; PATCH tiene la misma semántica de merge.
		pr.Put("/{petID}", updatePetHandler(svc, log))
		pr.Patch("/{petID}", updatePetHandler(svc, log))
		pr.Delete("/{petID}", deletePetHandler(svc, log))

		pr.Post("/{petID}/medical-records", addRecordHandler(svc, log))
		pr.Put("/{petID}/medical-records/{recordID}", updateRecordHandler(svc, log))
	})
}

// createPetRequest es el cuerpo para registrar una mascota.
type createPetRequest struct {
	Name    string  `json:"name"`
	Species string  `json:"species" enums:"dog,cat,other"`
	Breed   string  `json:"breed"`
	Age     float64 `json:"age"`
	Weight  float64 `json:"weight"`
}

// updatePetRequest: nil = no tocar.
type updatePetRequest struct {
	Name    *string  `json:"name"`
	Species *string  `json:"species"`
	Breed   *string  `json:"breed"`
	Age     *float64 `json:"age"`
	Weight  *float64 `json:"weight"`
}

// recordRequest acepta las dos formas del registro médico.
// date en epoch millis.
type recordRequest struct {
	Date        int64  `json:"date"`
	Symptoms    string `json:"symptoms"`
	Diagnosis   string `json:"diagnosis"`
	Treatment   string `json:"treatment"`
	Type        string `json:"type" enums:"symptom,diagnosis,treatment"`
	Description string `json:"description"`
	Notes       string `json:"notes,omitempty"`
}

// PetResponse es la mascota tal como la ve la API (timestamps en epoch millis).
type PetResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Species        Species          `json:"species"`
	Breed          string           `json:"breed,omitempty"`
	Age            float64          `json:"age"`
	Weight         float64          `json:"weight"`
	MedicalHistory []RecordResponse `json:"medicalHistory"`
	OwnerID        string           `json:"ownerId"`
	CreatedAt      int64            `json:"createdAt"`
	UpdatedAt      int64            `json:"updatedAt"`
}

type RecordResponse struct {
	ID          string     `json:"id"`
	Date        int64      `json:"date"`
	Symptoms    string     `json:"symptoms,omitempty"`
	Diagnosis   string     `json:"diagnosis,omitempty"`
	Treatment   string     `json:"treatment,omitempty"`
	Type        RecordType `json:"type,omitempty"`
	Description string     `json:"description,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   int64      `json:"createdAt"`
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Description Devuelve las mascotas del usuario autenticado, más nuevas primero.
// @Tags pets
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Success 200 {array} PetResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /pets [get]
func listPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.List(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, r, log, err)
			return
		}

		out := make([]PetResponse, 0, len(items))
		for _, p := range items {
			out = append(out, ToPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createPetHandler godoc
// @Summary Crear mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} PetResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Router /pets [post]
func createPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:    req.Name,
			Species: req.Species,
			Breed:   req.Breed,
			Age:     req.Age,
			Weight:  req.Weight,
		})
		if err != nil {
			writeError(w, r, log, err)
			return
		}

		writeJSON(w, http.StatusCreated, ToPetResponse(p))
	}
}

// getPetHandler godoc
// @Summary Perfil de mascota
// @Description 404 tanto si no existe como si pertenece a otro usuario.
// @Tags pets
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} PetResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		p, err := svc.Get(r.Context(), chi.URLParam(r, "petID"), claims.UserID)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, ToPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota (merge parcial)
// @Tags pets
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param petID path string true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a modificar"
// @Success 200 {object} PetResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [put]
func updatePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		// Campos desconocidos (id, ownerId, ...) se ignoran: algunos clientes mandan el pet entero.
		var req updatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), claims.UserID, UpdateInput{
			Name:    req.Name,
			Species: req.Species,
			Breed:   req.Breed,
			Age:     req.Age,
			Weight:  req.Weight,
		})
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, ToPetResponse(updated))
	}
}

// deletePetHandler godoc
// @Summary Borrar mascota
// @Tags pets
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param petID path string true "ID de la mascota"
// @Success 200
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := svc.Delete(r.Context(), chi.URLParam(r, "petID"), claims.UserID); err != nil {
			writeError(w, r, log, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// addRecordHandler godoc
// @Summary Agregar registro médico
// @Description Agrega al final del historial. Requiere date (epoch ms) y symptoms o type+description.
// @Tags medical-records
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param petID path string true "ID de la mascota"
// @Param payload body recordRequest true "Registro médico"
// @Success 201 {object} RecordResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/medical-records [post]
func addRecordHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req recordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rec, err := svc.AddMedicalRecord(r.Context(), chi.URLParam(r, "petID"), claims.UserID, req.toInput())
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

// updateRecordHandler godoc
// @Summary Editar registro médico
// @Tags medical-records
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param petID path string true "ID de la mascota"
// @Param recordID path string true "ID del registro"
// @Param payload body recordRequest true "Registro médico"
// @Success 200 {object} RecordResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found / medical record not found"
// @Router /pets/{petID}/medical-records/{recordID} [put]
func updateRecordHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req recordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rec, err := svc.UpdateMedicalRecord(r.Context(),
			chi.URLParam(r, "petID"), chi.URLParam(r, "recordID"), claims.UserID, req.toInput())
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

func (req recordRequest) toInput() RecordInput {
	var d time.Time
	if req.Date > 0 {
		d = time.UnixMilli(req.Date).UTC()
	}
	return RecordInput{
		Date:        d,
		Symptoms:    req.Symptoms,
		Diagnosis:   req.Diagnosis,
		Treatment:   req.Treatment,
		Type:        req.Type,
		Description: req.Description,
		Notes:       req.Notes,
	}
}

func ToPetResponse(p Pet) PetResponse {
	hist := make([]RecordResponse, 0, len(p.MedicalHistory))
	for _, rec := range p.MedicalHistory {
		hist = append(hist, toRecordResponse(rec))
	}
	return PetResponse{
		ID:             p.ID,
		Name:           p.Name,
		Species:        p.Species,
		Breed:          p.Breed,
		Age:            p.Age,
		Weight:         p.Weight,
		MedicalHistory: hist,
		OwnerID:        p.OwnerUserID,
		CreatedAt:      p.CreatedAt.UnixMilli(),
		UpdatedAt:      p.UpdatedAt.UnixMilli(),
	}
}

func toRecordResponse(r MedicalRecord) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		Date:        r.Date.UnixMilli(),
		Symptoms:    r.Symptoms,
		Diagnosis:   r.Diagnosis,
		Treatment:   r.Treatment,
		Type:        r.Type,
		Description: r.Description,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt.UnixMilli(),
	}
}

// writeError traduce errores de dominio a status. Lo no esperado va como 500
// genérico y el detalle solo al log.
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrRecordNotFound):
		http.Error(w, "medical record not found", http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	default:
		log.Error("pets: request failed", map[string]any{
			"err":        err,
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": middleware.RequestIDFrom(r.Context()),
		})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos (pets/chat)
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
