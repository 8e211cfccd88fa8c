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

type ReviewService interface {
	CreateReview(ctx context.Context, userID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, userID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, actorID, reviewID string, isAdmin bool) error
	GetReviews(ctx context.Context, bookableType, bookableID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetRatingSummary(ctx context.Context, bookableType, bookableID string) (*response.RatingSummaryResponse, error)
}

// reviewService maintains reviews and keeps the denormalized rating on
// the reviewed resource in sync. A review is verified when its author
// has a confirmed booking for the resource.
type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, userID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("%s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.Validationf("invalid user ID %s", userID)
	}

	ref, err := parseRef(req.BookableType, req.BookableID)
	if err != nil {
		return nil, err
	}

	bookable, err := s.repo.Bookable.FindByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if bookable == nil {
		return nil, apperr.NotFoundf("%s", ref)
	}

	existing, err := s.repo.Review.FindByUserAndBookable(ctx, userUUID, ref)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validationf("user already reviewed %s", ref)
	}

	// The verified flag requires an explicit citation: the review must
	// name a confirmed booking of the author for this resource. A cited
	// booking that fails those checks is kept on the review unverified.
	var bookingID *uuid.UUID
	verified := false
	if req.BookingID != nil {
		id, err := uuid.Parse(*req.BookingID)
		if err != nil {
			return nil, apperr.Validationf("invalid booking ID %s", *req.BookingID)
		}

		booking, err := s.repo.Booking.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if booking == nil {
			return nil, apperr.Validationf("booking %s not found", *req.BookingID)
		}

		bookingID = &booking.ID
		verified = booking.UserID == userUUID &&
			booking.Bookable == ref &&
			booking.Status == entity.BookingStatusConfirmed
	}

	review := &entity.Review{
		UserID:     userUUID,
		Bookable:   ref,
		BookingID:  bookingID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		IsVerified: verified,
	}
	review.ID = uuid.New()
	review.CreatedAt = time.Now()

	if err := s.repo.Review.Create(ctx, review); err != nil {
		return nil, err
	}

	s.recomputeRating(ctx, ref)

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("bookable", ref.String()),
		zap.Bool("verified", review.IsVerified),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, userID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("%s", utils.FormatValidationErrors(errs))
	}

	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil || review.UserID != userUUID {
		return nil, apperr.Unauthorizedf("review %s does not belong to actor", reviewID)
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = req.Comment
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		return nil, err
	}

	s.recomputeRating(ctx, review.Bookable)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, actorID, reviewID string, isAdmin bool) error {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return err
	}

	if !isAdmin {
		actorUUID, err := uuid.Parse(actorID)
		if err != nil || review.UserID != actorUUID {
			return apperr.Unauthorizedf("review %s does not belong to actor", reviewID)
		}
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		return err
	}

	s.recomputeRating(ctx, review.Bookable)

	s.log.Info("Review deleted",
		zap.String("review_id", review.ID.String()),
		zap.Bool("by_admin", isAdmin),
	)

	return nil
}

func (s *reviewService) GetReviews(ctx context.Context, bookableType, bookableID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	ref, err := parseRef(bookableType, bookableID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByBookable(ctx, ref, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Review.CountByBookable(ctx, ref)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.ReviewsToResponse(reviews), req.Page, req.Limit(), total), nil
}

func (s *reviewService) GetRatingSummary(ctx context.Context, bookableType, bookableID string) (*response.RatingSummaryResponse, error) {
	ref, err := parseRef(bookableType, bookableID)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.repo.Review.AverageRating(ctx, ref)
	if err != nil {
		return nil, err
	}

	return &response.RatingSummaryResponse{
		BookableType:  ref.Kind,
		BookableID:    ref.ID.String(),
		AverageRating: avg,
		ReviewCount:   count,
	}, nil
}

func (s *reviewService) findReview(ctx context.Context, reviewID string) (*entity.Review, error) {
	id, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, apperr.Validationf("invalid review ID %s", reviewID)
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, apperr.NotFoundf("review %s", reviewID)
	}

	return review, nil
}

// recomputeRating refreshes the denormalized average on the resource.
// A stale rating is tolerable, so failures are logged and not returned.
func (s *reviewService) recomputeRating(ctx context.Context, ref entity.BookableRef) {
	avg, _, err := s.repo.Review.AverageRating(ctx, ref)
	if err != nil {
		s.log.Warn("Failed to recompute rating",
			zap.Error(err),
			zap.String("bookable", ref.String()),
		)
		return
	}

	if err := s.repo.Bookable.UpdateRating(ctx, ref, avg); err != nil {
		s.log.Warn("Failed to store recomputed rating",
			zap.Error(err),
			zap.String("bookable", ref.String()),
		)
	}
}
