package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/letatnhien1912/Recommendation-System/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

type recommendRequest struct {
	CustomerID int `json:"customerId"`
}

type productRequest struct {
	ProductID int `json:"productId"`
}

type categoryRequest struct {
	CategoryID *int `json:"categoryId"`
}

// @Summary Recomendaciones para un cliente
// @Tags recommend
// @Accept json
// @Produce json
// @Param body body recommendRequest true "cliente"
// @Param model query string false "collaborative | content_based"
// @Param n query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} int
// @Router /recommend [post]
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	refresh := r.URL.Query().Get("refresh") == "true"

	items, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  req.CustomerID,
		N:       n,
		Model:   r.URL.Query().Get("model"),
		Refresh: refresh,
	})
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	// la API pública devuelve solo los ids, ordenados
	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	_ = json.NewEncoder(w).Encode(ids)
}

// @Summary Ítems similares a un producto (contenido)
// @Tags recommend
// @Accept json
// @Produce json
// @Param body body productRequest true "producto ancla"
// @Param n query int false "cantidad (máx 50)"
// @Success 200 {array} int
// @Router /similar-items [post]
func (h *RecommendHandler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))

	ids, err := h.svc.SimilarItems(r.Context(), req.ProductID, n)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(ids)
}

// @Summary Productos preferidos por categoría (fallback de popularidad)
// @Tags recommend
// @Accept json
// @Produce json
// @Param body body categoryRequest true "categoría (opcional)"
// @Param n query int false "cantidad (máx 50)"
// @Success 200 {array} int
// @Router /favorite-items [post]
func (h *RecommendHandler) FavoriteItems(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))

	ids, err := h.svc.FavoriteItems(r.Context(), req.CategoryID, n)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(ids)
}

// @Summary Recomendaciones del usuario autenticado
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Router /me/recommendations [get]
func (h *RecommendHandler) GetMyRecommendations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID := UserIDFromContext(r.Context())
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	refresh := r.URL.Query().Get("refresh") == "true"

	items, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  userID,
		N:       n,
		Model:   r.URL.Query().Get("model"),
		Refresh: refresh,
	})
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(items)
}

// @Summary Historial de recomendaciones servidas a un usuario
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Param id path int true "userId"
// @Router /users/{id}/recommendations/history [get]
func (h *RecommendHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	recs, err := h.svc.History(r.Context(), userID, 20)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(recs)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones en tiempo real (WebSocket)
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param model query string false "collaborative | content_based"
// @Param n query int false "cantidad (máx 50)"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/ws/recommendations [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "No se pudo abrir WebSocket", 400)
		return
	}
	defer conn.Close()

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))

	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, calculando recomendaciones…",
	})

	items, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  userID,
		N:       n,
		Model:   r.URL.Query().Get("model"),
		Refresh: r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		conn.WriteJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	conn.WriteJSON(map[string]any{
		"type":        "recommendations",
		"userId":      userID,
		"items":       items,
		"generatedAt": time.Now(),
	})
}
