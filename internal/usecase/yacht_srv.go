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

type YachtService interface {
	GetYachts(ctx context.Context, req *request.YachtListRequest) (*response.PaginatedResponse[response.YachtResponse], error)
	GetPopularYachts(ctx context.Context, limit int) ([]response.YachtResponse, error)
	GetYachtByID(ctx context.Context, yachtID string) (*response.YachtResponse, error)

	// Admin endpoints
	CreateYacht(ctx context.Context, req *request.CreateYachtRequest) (*response.YachtResponse, error)
	UpdateYacht(ctx context.Context, yachtID string, req *request.UpdateYachtRequest) (*response.YachtResponse, error)
	DeleteYacht(ctx context.Context, yachtID string) error
}

type yachtService struct {
	yachts repository.YachtRepository
	log    *zap.Logger
}

func NewYachtService(yachts repository.YachtRepository, log *zap.Logger) YachtService {
	return &yachtService{
		yachts: yachts,
		log:    log.With(zap.String("service", "yacht")),
	}
}

func (s *yachtService) GetYachts(ctx context.Context, req *request.YachtListRequest) (*response.PaginatedResponse[response.YachtResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("%s", utils.FormatValidationErrors(errs))
	}

	filter := repository.YachtFilter{
		Location:    req.Location,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		MinCapacity: req.MinCapacity,
	}

	yachts, err := s.yachts.FindAll(ctx, req.Offset(), req.Limit(), filter)
	if err != nil {
		return nil, err
	}

	total, err := s.yachts.CountAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.YachtsToResponse(yachts), req.Page, req.Limit(), total), nil
}

func (s *yachtService) GetPopularYachts(ctx context.Context, limit int) ([]response.YachtResponse, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	yachts, err := s.yachts.FindPopular(ctx, limit)
	if err != nil {
		return nil, err
	}

	return response.YachtsToResponse(yachts), nil
}

func (s *yachtService) GetYachtByID(ctx context.Context, yachtID string) (*response.YachtResponse, error) {
	yacht, err := s.findYacht(ctx, yachtID)
	if err != nil {
		return nil, err
	}

	resp := response.YachtToResponse(yacht)
	return &resp, nil
}

func (s *yachtService) CreateYacht(ctx context.Context, req *request.CreateYachtRequest) (*response.YachtResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("%s", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	yacht := &entity.Yacht{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		PricePerDay: req.PricePerDay,
		Capacity:    req.Capacity,
		Length:      req.Length,
		CrewSize:    req.CrewSize,
		IsActive:    true,
	}

	if err := s.yachts.Create(ctx, yacht); err != nil {
		return nil, err
	}

	s.log.Info("Yacht created",
		zap.String("yacht_id", yacht.ID.String()),
		zap.String("name", yacht.Name),
	)

	resp := response.YachtToResponse(yacht)
	return &resp, nil
}

func (s *yachtService) UpdateYacht(ctx context.Context, yachtID string, req *request.UpdateYachtRequest) (*response.YachtResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("%s", utils.FormatValidationErrors(errs))
	}

	yacht, err := s.findYacht(ctx, yachtID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		yacht.Name = *req.Name
	}
	if req.Description != nil {
		yacht.Description = req.Description
	}
	if req.Location != nil {
		yacht.Location = *req.Location
	}
	if req.PricePerDay != nil {
		yacht.PricePerDay = *req.PricePerDay
	}
	if req.Capacity != nil {
		yacht.Capacity = *req.Capacity
	}
	if req.Length != nil {
		yacht.Length = *req.Length
	}
	if req.CrewSize != nil {
		yacht.CrewSize = *req.CrewSize
	}
	if req.IsActive != nil {
		yacht.IsActive = *req.IsActive
	}
	yacht.UpdatedAt = time.Now()

	if err := s.yachts.Update(ctx, yacht); err != nil {
		return nil, err
	}

	resp := response.YachtToResponse(yacht)
	return &resp, nil
}

func (s *yachtService) DeleteYacht(ctx context.Context, yachtID string) error {
	yacht, err := s.findYacht(ctx, yachtID)
	if err != nil {
		return err
	}

	if err := s.yachts.Delete(ctx, yacht.ID); err != nil {
		return err
	}

	s.log.Info("Yacht deactivated", zap.String("yacht_id", yacht.ID.String()))
	return nil
}

func (s *yachtService) findYacht(ctx context.Context, yachtID string) (*entity.Yacht, error) {
	id, err := uuid.Parse(yachtID)
	if err != nil {
		return nil, apperr.Validationf("invalid yacht ID %s", yachtID)
	}

	yacht, err := s.yachts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if yacht == nil {
		return nil, apperr.NotFoundf("yacht %s", yachtID)
	}

	return yacht, nil
}
