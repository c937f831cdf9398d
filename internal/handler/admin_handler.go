package handler

import (
	"encoding/json"
	"net/http"

	"github.com/letatnhien1912/Recommendation-System/internal/service"

	"github.com/go-chi/chi/v5"
)

// AdminHandler expone el mantenimiento del pipeline: refresh de datasets,
// retrain del modelo y estado del entrenamiento.
type AdminHandler struct {
	refresh  *service.RefreshService
	training *service.TrainingService
}

func NewAdminHandler(refresh *service.RefreshService, training *service.TrainingService) *AdminHandler {
	return &AdminHandler{refresh: refresh, training: training}
}

// MountAdminRoutes cuelga las rutas de mantenimiento (ya protegidas por
// AdminOnly desde el router principal).
func MountAdminRoutes(r chi.Router, h *AdminHandler) {
	r.Post("/admin/refresh-data", h.RefreshData)
	r.Post("/admin/retrain", h.Retrain)
	r.Get("/admin/status", h.Status)
}

// @Summary Reconstruir datasets (ETL de eventos crudos)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.RefreshResult
// @Router /admin/refresh-data [post]
func (h *AdminHandler) RefreshData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	res, err := h.refresh.Refresh(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// @Summary Reentrenar modelos y publicar el snapshot nuevo
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.RetrainResult
// @Router /admin/retrain [post]
func (h *AdminHandler) Retrain(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	res, err := h.training.Retrain(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// @Summary Estado del modelo en servicio
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.TrainingStatus
// @Router /admin/status [get]
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.training.Status())
}
