package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"cinerec/internal/models"
	"cinerec/internal/service"

	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

type recommendRequest struct {
	Movie string `json:"movie"`
}

// @Summary Recomendaciones para una película
// @Description Ranking por similitud + póster y trailer por cada resultado. Título vacío o desconocido devuelve lista vacía.
// @Tags recommend
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body recommendRequest true "película seleccionada"
// @Param k query int false "cantidad de recomendaciones (máx 20)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.RecItem
// @Router /recommend [post]
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	refresh := r.URL.Query().Get("refresh") == "true"

	items, err := h.svc.GetRecommendations(r.Context(), service.RecRequest{
		UserID:  UserIDFromContext(r.Context()),
		Movie:   req.Movie,
		K:       k,
		Refresh: refresh,
	})
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(items)
}

// @Summary Historial de consultas del usuario
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param limit query int false "límite (default: 20)"
// @Success 200 {array} models.Recommendation
// @Router /me/history [get]
func (h *RecommendHandler) History(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	recs, err := h.svc.History(r.Context(), UserIDFromContext(r.Context()), int64(limit))
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}
	_ = json.NewEncoder(w).Encode(recs)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones en tiempo real (WebSocket)
// @Description Manda un mensaje de progreso por cada película enriquecida y al final la lista completa.
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param movie query string true "película seleccionada"
// @Param k query int false "cantidad de recomendaciones (máx 20)"
// @Success 200 {object} map[string]interface{}
// @Router /ws/recommend [get]
func (h *RecommendHandler) RecommendWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "No se pudo abrir WebSocket", 400)
		return
	}
	defer conn.Close()

	movie := r.URL.Query().Get("movie")
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))

	// los workers de enriquecimiento avisan en paralelo, pero gorilla no
	// banca escrituras concurrentes sobre la misma conexión
	var mu sync.Mutex
	writeJSON := func(v any) {
		mu.Lock()
		defer mu.Unlock()
		_ = conn.WriteJSON(v)
	}

	writeJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, iniciando cálculo…",
	})

	items, err := h.svc.GetRecommendationsStream(r.Context(), service.RecRequest{
		UserID: UserIDFromContext(r.Context()),
		Movie:  movie,
		K:      k,
	}, func(i int, item models.RecItem) {
		writeJSON(map[string]any{
			"type":  "progress",
			"index": i,
			"item":  item,
		})
	})
	if err != nil {
		writeJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	writeJSON(map[string]any{
		"type":        "recommendations",
		"movie":       movie,
		"items":       items,
		"generatedAt": time.Now(),
	})
}
