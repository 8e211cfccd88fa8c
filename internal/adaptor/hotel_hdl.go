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

type HotelHandler struct {
	service usecase.HotelService
	log     *zap.Logger
}

func NewHotelHandler(service usecase.HotelService, log *zap.Logger) *HotelHandler {
	return &HotelHandler{
		service: service,
		log:     log.With(zap.String("handler", "hotel")),
	}
}

// GetHotels handles GET /api/hotels (public)
func (h *HotelHandler) GetHotels(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.HotelListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
	}

	if city := query.Get("city"); city != "" {
		req.City = &city
	}
	if v, err := strconv.ParseFloat(query.Get("min_price"), 64); err == nil {
		req.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(query.Get("max_price"), 64); err == nil {
		req.MaxPrice = &v
	}
	if v, err := strconv.Atoi(query.Get("stars")); err == nil {
		req.Stars = &v
	}

	hotels, err := h.service.GetHotels(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "get hotels")
		return
	}

	utils.ResponseSuccess(w, "success", hotels)
}

// GetPopularHotels handles GET /api/hotels/popular (public)
func (h *HotelHandler) GetPopularHotels(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 10)

	hotels, err := h.service.GetPopularHotels(r.Context(), limit)
	if err != nil {
		writeServiceError(w, h.log, err, "get popular hotels")
		return
	}

	utils.ResponseSuccess(w, "success", hotels)
}

// GetHotel handles GET /api/hotels/{id} (public)
func (h *HotelHandler) GetHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.service.GetHotelByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get hotel")
		return
	}

	utils.ResponseSuccess(w, "success", hotel)
}

// CreateHotel handles POST /api/admin/hotels (admin)
func (h *HotelHandler) CreateHotel(w http.ResponseWriter, r *http.Request) {
	var req request.CreateHotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	hotel, err := h.service.CreateHotel(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create hotel")
		return
	}

	utils.ResponseCreated(w, "hotel created", hotel)
}

// UpdateHotel handles PUT /api/admin/hotels/{id} (admin)
func (h *HotelHandler) UpdateHotel(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateHotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	hotel, err := h.service.UpdateHotel(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update hotel")
		return
	}

	utils.ResponseSuccess(w, "hotel updated", hotel)
}

// DeleteHotel handles DELETE /api/admin/hotels/{id} (admin)
func (h *HotelHandler) DeleteHotel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteHotel(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "delete hotel")
		return
	}

	utils.ResponseSuccess(w, "hotel deleted", nil)
}
