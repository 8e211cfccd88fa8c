package usecase

import (
	"context"
	"time"

	"tourism-booking/internal/apperr"
	"tourism-booking/internal/data/entity"
	"tourism-booking/internal/data/repository"
	"tourism-booking/internal/dto/request"
	"tourism-booking/internal/dto/response"
	"tourism-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HotelService interface {
	GetHotels(ctx context.Context, req *request.HotelListRequest) (*response.PaginatedResponse[response.HotelResponse], error)
	GetPopularHotels(ctx context.Context, limit int) ([]response.HotelResponse, error)
	GetHotelByID(ctx context.Context, hotelID string) (*response.HotelResponse, error)

	// Admin endpoints
	CreateHotel(ctx context.Context, req *request.CreateHotelRequest) (*response.HotelResponse, error)
	UpdateHotel(ctx context.Context, hotelID string, req *request.UpdateHotelRequest) (*response.HotelResponse, error)
	DeleteHotel(ctx context.Context, hotelID string) error
}

type hotelService struct {
	hotels repository.HotelRepository
	log    *zap.Logger
}

func NewHotelService(hotels repository.HotelRepository, log *zap.Logger) HotelService {
	return &hotelService{
		hotels: hotels,
		log:    log.With(zap.String("service", "hotel")),
	}
}

func (s *hotelService) GetHotels(ctx context.Context, req *request.HotelListRequest) (*response.PaginatedResponse[response.HotelResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("%s", utils.FormatValidationErrors(errs))
	}

	filter := repository.HotelFilter{
		City:     req.City,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Stars:    req.Stars,
	}

	hotels, err := s.hotels.FindAll(ctx, req.Offset(), req.Limit(), filter)
	if err != nil {
		return nil, err
	}

	total, err := s.hotels.CountAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.HotelsToResponse(hotels), req.Page, req.Limit(), total), nil
}

func (s *hotelService) GetPopularHotels(ctx context.Context, limit int) ([]response.HotelResponse, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	hotels, err := s.hotels.FindPopular(ctx, limit)
	if err != nil {
		return nil, err
	}

	return response.HotelsToResponse(hotels), nil
}

func (s *hotelService) GetHotelByID(ctx context.Context, hotelID string) (*response.HotelResponse, error) {
	hotel, err := s.findHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	resp := response.HotelToResponse(hotel)
	return &resp, nil
}

func (s *hotelService) CreateHotel(ctx context.Context, req *request.CreateHotelRequest) (*response.HotelResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("%s", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	hotel := &entity.Hotel{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:          req.Name,
		Description:   req.Description,
		City:          req.City,
		Address:       req.Address,
		PricePerNight: req.PricePerNight,
		Stars:         req.Stars,
		IsActive:      true,
	}

	if err := s.hotels.Create(ctx, hotel); err != nil {
		return nil, err
	}

	s.log.Info("Hotel created",
		zap.String("hotel_id", hotel.ID.String()),
		zap.String("name", hotel.Name),
	)

	resp := response.HotelToResponse(hotel)
	return &resp, nil
}

func (s *hotelService) UpdateHotel(ctx context.Context, hotelID string, req *request.UpdateHotelRequest) (*response.HotelResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("%s", utils.FormatValidationErrors(errs))
	}

	hotel, err := s.findHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		hotel.Name = *req.Name
	}
	if req.Description != nil {
		hotel.Description = req.Description
	}
	if req.City != nil {
		hotel.City = *req.City
	}
	if req.Address != nil {
		hotel.Address = *req.Address
	}
	if req.PricePerNight != nil {
		hotel.PricePerNight = *req.PricePerNight
	}
	if req.Stars != nil {
		hotel.Stars = *req.Stars
	}
	if req.IsActive != nil {
		hotel.IsActive = *req.IsActive
	}
	hotel.UpdatedAt = time.Now()

	if err := s.hotels.Update(ctx, hotel); err != nil {
		return nil, err
	}

	resp := response.HotelToResponse(hotel)
	return &resp, nil
}

func (s *hotelService) DeleteHotel(ctx context.Context, hotelID string) error {
	hotel, err := s.findHotel(ctx, hotelID)
	if err != nil {
		return err
	}

	if err := s.hotels.Delete(ctx, hotel.ID); err != nil {
		return err
	}

	s.log.Info("Hotel deactivated", zap.String("hotel_id", hotel.ID.String()))
	return nil
}

func (s *hotelService) findHotel(ctx context.Context, hotelID string) (*entity.Hotel, error) {
	id, err := uuid.Parse(hotelID)
	if err != nil {
		return nil, apperr.Validationf("invalid hotel ID %s", hotelID)
	}

	hotel, err := s.hotels.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, apperr.NotFoundf("hotel %s", hotelID)
	}

	return hotel, nil
}
