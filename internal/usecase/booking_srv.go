package usecase

import (
	"context"
	"fmt"
	"time"

	"tourism-booking/internal/apperr"
	"tourism-booking/internal/data/entity"
	"tourism-booking/internal/data/repository"
	"tourism-booking/internal/dto/request"
	"tourism-booking/internal/dto/response"
	"tourism-booking/internal/notify"
	"tourism-booking/pkg/database"
	"tourism-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CheckAvailability(ctx context.Context, req *request.CheckAvailabilityRequest) (*response.AvailabilityResponse, error)
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	UpdateBooking(ctx context.Context, userID, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, actorID, bookingID string, isAdmin bool) error
	GetBookingByID(ctx context.Context, actorID, bookingID string, isAdmin bool) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Admin endpoints
	ConfirmBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

// bookingService is the reservation engine. Creation and date changes
// run inside a transaction that locks the target resource row, so two
// competing requests for the same hotel or yacht serialize and the
// loser sees the winner's rows when it re-checks for overlap.
type bookingService struct {
	db       database.PgxIface
	repo     *repository.Repository
	notifier notify.Notifier
	log      *zap.Logger
}

func NewBookingService(db database.PgxIface, repo *repository.Repository, notifier notify.Notifier, log *zap.Logger) BookingService {
	return &bookingService{
		db:       db,
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "booking")),
	}
}

const dateLayout = "2006-01-02"

func (s *bookingService) CheckAvailability(ctx context.Context, req *request.CheckAvailabilityRequest) (*response.AvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("%s", utils.FormatValidationErrors(errs))
	}

	ref, err := parseRef(req.BookableType, req.BookableID)
	if err != nil {
		return nil, err
	}

	checkIn, checkOut, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	bookable, err := s.repo.Bookable.FindByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if bookable == nil || !bookable.IsActive {
		return nil, apperr.NotFoundf("%s", ref)
	}

	taken, err := s.repo.Booking.HasOverlap(ctx, ref, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	return &response.AvailabilityResponse{
		BookableType: ref.Kind,
		BookableID:   ref.ID.String(),
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		Available:    !taken,
	}, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
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

	checkIn, checkOut, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Exclusive lock on the resource row. Held until commit, so the
	// overlap check below cannot race a concurrent insert for the
	// same resource.
	bookable, err := s.repo.Bookable.LockForUpdate(ctx, tx, ref)
	if err != nil {
		return nil, err
	}
	if bookable == nil || !bookable.IsActive {
		return nil, apperr.NotFoundf("%s", ref)
	}

	taken, err := s.repo.Booking.HasOverlapTx(ctx, tx, ref, checkIn, checkOut, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Unavailablef("%s from %s to %s", ref, req.CheckInDate, req.CheckOutDate)
	}

	now := time.Now()
	booking := &entity.Booking{
		Reference:       utils.GenerateBookingRef(),
		UserID:          userUUID,
		Bookable:        ref,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		TotalPrice:      bookable.UnitPrice * float64(entity.Nights(checkIn, checkOut)),
		Status:          entity.BookingStatusPending,
		GuestsCount:     req.GuestsCount,
		SpecialRequests: req.SpecialRequests,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   entity.PaymentStatusPending,
	}
	booking.ID = uuid.New()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := s.repo.Booking.CreateTx(ctx, tx, booking); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit booking", zap.Error(err))
		return nil, fmt.Errorf("commit booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.String("bookable", ref.String()),
	)

	s.dispatch(s.notifier.BookingCreated, booking, bookable.Name)

	return s.toResponse(booking), nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, userID, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("%s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.findOwned(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusPending {
		return nil, apperr.Validationf("only pending bookings can be updated, booking %s is %s",
			bookingID, booking.Status)
	}

	checkIn, checkOut := booking.CheckIn, booking.CheckOut
	if req.CheckInDate != nil {
		if checkIn, err = parseDate(*req.CheckInDate); err != nil {
			return nil, err
		}
	}
	if req.CheckOutDate != nil {
		if checkOut, err = parseDate(*req.CheckOutDate); err != nil {
			return nil, err
		}
	}
	datesChanged := !checkIn.Equal(booking.CheckIn) || !checkOut.Equal(booking.CheckOut)

	// Changed dates pass the same preconditions as a fresh request.
	if datesChanged {
		if err := validateStay(checkIn, checkOut); err != nil {
			return nil, err
		}
	} else if !checkIn.Before(checkOut) {
		return nil, apperr.Validationf("check-out must be after check-in")
	}

	if req.GuestsCount != nil {
		booking.GuestsCount = *req.GuestsCount
	}
	if req.SpecialRequests != nil {
		booking.SpecialRequests = req.SpecialRequests
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Date changes take the same lock and overlap re-check as a fresh
	// reservation, with the booking's own row excluded.
	if datesChanged {
		bookable, err := s.repo.Bookable.LockForUpdate(ctx, tx, booking.Bookable)
		if err != nil {
			return nil, err
		}
		if bookable == nil {
			return nil, apperr.NotFoundf("%s", booking.Bookable)
		}

		taken, err := s.repo.Booking.HasOverlapTx(ctx, tx, booking.Bookable, checkIn, checkOut, booking.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Unavailablef("%s from %s to %s",
				booking.Bookable, checkIn.Format(dateLayout), checkOut.Format(dateLayout))
		}

		booking.CheckIn = checkIn
		booking.CheckOut = checkOut
		booking.TotalPrice = bookable.UnitPrice * float64(booking.Nights())
	}

	booking.UpdatedAt = time.Now()

	if err := s.repo.Booking.UpdateTx(ctx, tx, booking); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit booking update", zap.Error(err))
		return nil, fmt.Errorf("commit booking update: %w", err)
	}

	s.log.Info("Booking updated",
		zap.String("booking_id", booking.ID.String()),
		zap.Bool("dates_changed", datesChanged),
	)

	return s.toResponse(booking), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actorID, bookingID string, isAdmin bool) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if !isAdmin {
		actorUUID, err := uuid.Parse(actorID)
		if err != nil || booking.UserID != actorUUID {
			return apperr.Unauthorizedf("booking %s does not belong to actor", bookingID)
		}
	}

	if booking.Terminal() {
		return apperr.CannotCancelf("booking %s is already cancelled", bookingID)
	}

	// Owners may only cancel a confirmed booking with enough notice
	// before check-in. Admins cancel any non-terminal booking.
	if !isAdmin && !booking.CanBeCancelledBy(time.Now()) {
		return apperr.CannotCancelf("booking %s cannot be cancelled by its owner", bookingID)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled); err != nil {
		return err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.Bool("by_admin", isAdmin),
	)

	booking.Status = entity.BookingStatusCancelled
	s.dispatch(s.notifier.BookingCancelled, booking, "")

	return nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusPending {
		return nil, apperr.Validationf("only pending bookings can be confirmed, booking %s is %s",
			bookingID, booking.Status)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusConfirmed); err != nil {
		return nil, err
	}

	s.log.Info("Booking confirmed", zap.String("booking_id", booking.ID.String()))

	booking.Status = entity.BookingStatusConfirmed
	s.dispatch(s.notifier.BookingConfirmed, booking, "")

	return s.toResponse(booking), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, actorID, bookingID string, isAdmin bool) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !isAdmin {
		actorUUID, err := uuid.Parse(actorID)
		if err != nil || booking.UserID != actorUUID {
			return nil, apperr.Unauthorizedf("booking %s does not belong to actor", bookingID)
		}
	}

	return s.toResponse(booking), nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.Validationf("invalid user ID %s", userID)
	}

	bookingStatus, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, bookingStatus, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID, bookingStatus)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.Limit(), total), nil
}

func (s *bookingService) ListBookings(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookingStatus, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.Booking.FindAll(ctx, bookingStatus, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Booking.CountAll(ctx, bookingStatus)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.Limit(), total), nil
}

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.Validationf("invalid booking ID %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFoundf("booking %s", bookingID)
	}

	return booking, nil
}

func (s *bookingService) findOwned(ctx context.Context, userID, bookingID string) (*entity.Booking, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil || booking.UserID != userUUID {
		return nil, apperr.Unauthorizedf("booking %s does not belong to actor", bookingID)
	}

	return booking, nil
}

func (s *bookingService) toResponse(booking *entity.Booking) *response.BookingResponse {
	resp := response.BookingToResponse(booking)
	return &resp
}

// dispatch fires a notification after the state change committed. The
// request context may be cancelled right after the response is written,
// so publishing gets its own deadline.
func (s *bookingService) dispatch(fn func(context.Context, notify.BookingEvent), booking *entity.Booking, name string) {
	event := notify.BookingEvent{
		BookingID:    booking.ID.String(),
		Reference:    booking.Reference,
		UserID:       booking.UserID.String(),
		BookableType: string(booking.Bookable.Kind),
		BookableID:   booking.Bookable.ID.String(),
		BookableName: name,
		CheckInDate:  booking.CheckIn.Format(dateLayout),
		CheckOutDate: booking.CheckOut.Format(dateLayout),
		TotalPrice:   booking.TotalPrice,
		Status:       string(booking.Status),
		OccurredAt:   time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		fn(ctx, event)
	}()
}

func parseRef(kindStr, idStr string) (entity.BookableRef, error) {
	kind, err := entity.ParseBookableKind(kindStr)
	if err != nil {
		return entity.BookableRef{}, apperr.Validationf("invalid bookable type %s", kindStr)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return entity.BookableRef{}, apperr.Validationf("invalid bookable ID %s", idStr)
	}

	return entity.BookableRef{Kind: kind, ID: id}, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, apperr.Validationf("invalid date %s", s)
	}
	return t, nil
}

// parseStay validates a requested interval: well-formed dates, at least
// one night, check-in strictly after today.
func parseStay(inStr, outStr string) (time.Time, time.Time, error) {
	checkIn, err := parseDate(inStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	checkOut, err := parseDate(outStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if err := validateStay(checkIn, checkOut); err != nil {
		return time.Time{}, time.Time{}, err
	}

	return checkIn, checkOut, nil
}

func validateStay(checkIn, checkOut time.Time) error {
	if !checkIn.Before(checkOut) {
		return apperr.Validationf("check-out must be after check-in")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if !checkIn.After(today) {
		return apperr.Validationf("check-in date must be in the future")
	}

	return nil
}

func parseStatusFilter(status string) (entity.BookingStatus, error) {
	switch entity.BookingStatus(status) {
	case "", entity.BookingStatusPending, entity.BookingStatusConfirmed, entity.BookingStatusCancelled:
		return entity.BookingStatus(status), nil
	default:
		return "", apperr.Validationf("unknown booking status %s", status)
	}
}
