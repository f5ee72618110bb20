package chat

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"pet-health-chat/internal/domain/pets"
	"pet-health-chat/internal/middleware"
	"pet-health-chat/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// PetFinder resuelve la mascota del chat con las mismas reglas de ownership que /pets.
type PetFinder interface {
	Get(ctx context.Context, petID, ownerUserID string) (pets.Pet, error)
}

func RegisterRoutes(r chi.Router, mgr *Manager, finder PetFinder, log logger.Logger) {
	r.Route("/chat", func(cr chi.Router) {
		cr.Post("/", sendMessageHandler(mgr, finder, log))
		cr.Delete("/session", resetSessionHandler(mgr))
	})
}

type sendMessageRequest struct {
	Message string `json:"message"`
	PetID   string `json:"petId,omitempty"`
	// OwnerID es opcional; si no coincide con el usuario autenticado la mascota no se encuentra.
	OwnerID string `json:"ownerId,omitempty"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Role      Role   `json:"role" enums:"assistant"`
	Timestamp int64  `json:"timestamp"`
}

type sendMessageResponse struct {
	Message MessageResponse `json:"message"`
}

// sendMessageHandler godoc
// @Summary Enviar mensaje al asistente
// @Description Mensaje vacío devuelve un saludo sin consultar al modelo. Con petId, la conversación incluye el perfil e historial de la mascota.
// @Tags chat
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param payload body sendMessageRequest true "Mensaje"
// @Success 200 {object} sendMessageResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Failure 429 {string} string "too many requests"
// @Failure 500 {string} string "internal error"
// @Router /chat [post]
func sendMessageHandler(mgr *Manager, finder PetFinder, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var pet *pets.Pet
		if petID := strings.TrimSpace(req.PetID); petID != "" {
			owner := strings.TrimSpace(req.OwnerID)
			if owner != "" && owner != claims.UserID {
				http.Error(w, "pet not found", http.StatusNotFound)
				return
			}
			p, err := finder.Get(r.Context(), petID, claims.UserID)
			if err != nil {
				writeError(w, r, log, mgr, err)
				return
			}
			pet = &p
		}

		msg, err := mgr.HandleMessage(r.Context(), req.Message, pet, claims.UserID)
		if err != nil {
			writeError(w, r, log, mgr, err)
			return
		}
		writeJSON(w, http.StatusOK, sendMessageResponse{Message: toMessageResponse(msg)})
	}
}

// resetSessionHandler godoc
// @Summary Reiniciar conversación
// @Description Descarta la conversación general o la de petId. La próxima vez se crea de nuevo con datos actuales.
// @Tags chat
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param petId query string false "Mascota"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Router /chat/session [delete]
func resetSessionHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		mgr.Forget(claims.UserID, r.URL.Query().Get("petId"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func toMessageResponse(m Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Content:   m.Content,
		Role:      m.Role,
		Timestamp: m.Timestamp.UnixMilli(),
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, mgr *Manager, err error) {
	switch {
	case errors.Is(err, ErrRateLimited):
		secs := int(math.Ceil(mgr.RetryAfter().Seconds()))
		if secs < 1 {
			secs = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		http.Error(w, "too many requests, please try again later", http.StatusTooManyRequests)
	case errors.Is(err, pets.ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	default:
		log.Error("chat: request failed", map[string]any{
			"err":        err,
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": middleware.RequestIDFrom(r.Context()),
		})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
