package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tourism-booking/internal/dto/request"
	"tourism-booking/internal/usecase"
	"tourism-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type YachtHandler struct {
	service usecase.YachtService
	log     *zap.Logger
}

func NewYachtHandler(service usecase.YachtService, log *zap.Logger) *YachtHandler {
	return &YachtHandler{
		service: service,
		log:     log.With(zap.String("handler", "yacht")),
	}
}

// GetYachts handles GET /api/yachts (public)
func (h *YachtHandler) GetYachts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.YachtListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
	}

	if location := query.Get("location"); location != "" {
		req.Location = &location
	}
	if v, err := strconv.ParseFloat(query.Get("min_price"), 64); err == nil {
		req.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(query.Get("max_price"), 64); err == nil {
		req.MaxPrice = &v
	}
	if v, err := strconv.Atoi(query.Get("min_capacity")); err == nil {
		req.MinCapacity = &v
	}

	yachts, err := h.service.GetYachts(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "get yachts")
		return
	}

	utils.ResponseSuccess(w, "success", yachts)
}

// GetPopularYachts handles GET /api/yachts/popular (public)
func (h *YachtHandler) GetPopularYachts(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 10)

	yachts, err := h.service.GetPopularYachts(r.Context(), limit)
	if err != nil {
		writeServiceError(w, h.log, err, "get popular yachts")
		return
	}

	utils.ResponseSuccess(w, "success", yachts)
}

// GetYacht handles GET /api/yachts/{id} (public)
func (h *YachtHandler) GetYacht(w http.ResponseWriter, r *http.Request) {
	yacht, err := h.service.GetYachtByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get yacht")
		return
	}

	utils.ResponseSuccess(w, "success", yacht)
}

// CreateYacht handles POST /api/admin/yachts (admin)
func (h *YachtHandler) CreateYacht(w http.ResponseWriter, r *http.Request) {
	var req request.CreateYachtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	yacht, err := h.service.CreateYacht(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create yacht")
		return
	}

	utils.ResponseCreated(w, "yacht created", yacht)
}

// UpdateYacht handles PUT /api/admin/yachts/{id} (admin)
func (h *YachtHandler) UpdateYacht(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateYachtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	yacht, err := h.service.UpdateYacht(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update yacht")
		return
	}

	utils.ResponseSuccess(w, "yacht updated", yacht)
}

// DeleteYacht handles DELETE /api/admin/yachts/{id} (admin)
func (h *YachtHandler) DeleteYacht(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteYacht(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "delete yacht")
		return
	}

	utils.ResponseSuccess(w, "yacht deleted", nil)
}
