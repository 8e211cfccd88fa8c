package usecase_test

import (
	"context"
	"testing"
	"time"

	"tourism-booking/internal/apperr"
	"tourism-booking/internal/data/entity"
	"tourism-booking/internal/data/repository"
	"tourism-booking/internal/dto/request"
	"tourism-booking/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ratingBookableMock records the denormalized rating pushed back to the
// catalog after review changes.
type ratingBookableMock struct {
	bookable    *entity.Bookable
	lastRating  float64
	ratingCalls int
}

func (m *ratingBookableMock) FindByRef(ctx context.Context, ref entity.BookableRef) (*entity.Bookable, error) {
	if m.bookable != nil && m.bookable.Ref == ref {
		return m.bookable, nil
	}
	return nil, nil
}

func (m *ratingBookableMock) LockForUpdate(ctx context.Context, tx pgx.Tx, ref entity.BookableRef) (*entity.Bookable, error) {
	return m.FindByRef(ctx, ref)
}

func (m *ratingBookableMock) UpdateRating(ctx context.Context, ref entity.BookableRef, rating float64) error {
	m.lastRating = rating
	m.ratingCalls++
	return nil
}

// stubBookingRepo answers only the citation lookup. Everything else is
// unreachable from the review flows.
type stubBookingRepo struct {
	repository.BookingRepository
	booking *entity.Booking
}

func (m *stubBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if m.booking != nil && m.booking.ID == id {
		return m.booking, nil
	}
	return nil, nil
}

type reviewRepoMock struct {
	reviews []*entity.Review
}

func (m *reviewRepoMock) Create(ctx context.Context, review *entity.Review) error {
	m.reviews = append(m.reviews, review)
	return nil
}

func (m *reviewRepoMock) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	for _, r := range m.reviews {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *reviewRepoMock) FindByBookable(ctx context.Context, ref entity.BookableRef, limit, offset int) ([]*entity.Review, error) {
	var out []*entity.Review
	for _, r := range m.reviews {
		if r.Bookable == ref {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *reviewRepoMock) CountByBookable(ctx context.Context, ref entity.BookableRef) (int64, error) {
	list, _ := m.FindByBookable(ctx, ref, 0, 0)
	return int64(len(list)), nil
}

func (m *reviewRepoMock) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	var out []*entity.Review
	for _, r := range m.reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *reviewRepoMock) FindByUserAndBookable(ctx context.Context, userID uuid.UUID, ref entity.BookableRef) (*entity.Review, error) {
	for _, r := range m.reviews {
		if r.UserID == userID && r.Bookable == ref {
			return r, nil
		}
	}
	return nil, nil
}

func (m *reviewRepoMock) Update(ctx context.Context, review *entity.Review) error {
	for i, r := range m.reviews {
		if r.ID == review.ID {
			m.reviews[i] = review
		}
	}
	return nil
}

func (m *reviewRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	kept := m.reviews[:0]
	for _, r := range m.reviews {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	m.reviews = kept
	return nil
}

func (m *reviewRepoMock) AverageRating(ctx context.Context, ref entity.BookableRef) (float64, int64, error) {
	sum, count := 0, int64(0)
	for _, r := range m.reviews {
		if r.Bookable == ref {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

type reviewFixture struct {
	svc       usecase.ReviewService
	reviews   *reviewRepoMock
	bookables *ratingBookableMock
	bookings  *stubBookingRepo
	ref       entity.BookableRef
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	ref := entity.BookableRef{Kind: entity.BookableYacht, ID: uuid.New()}
	bookables := &ratingBookableMock{
		bookable: &entity.Bookable{Ref: ref, Name: "Sea Breeze", UnitPrice: 500, IsActive: true},
	}
	reviews := &reviewRepoMock{}
	bookings := &stubBookingRepo{}

	repo := &repository.Repository{
		Bookable: bookables,
		Booking:  bookings,
		Review:   reviews,
	}

	return &reviewFixture{
		svc:       usecase.NewReviewService(repo, zap.NewNop()),
		reviews:   reviews,
		bookables: bookables,
		bookings:  bookings,
		ref:       ref,
	}
}

func reviewReq(ref entity.BookableRef, rating int) *request.CreateReviewRequest {
	return &request.CreateReviewRequest{
		BookableType: string(ref.Kind),
		BookableID:   ref.ID.String(),
		Rating:       rating,
	}
}

func stayFor(f *reviewFixture, userID uuid.UUID, status entity.BookingStatus) *entity.Booking {
	booking := &entity.Booking{
		UserID:   userID,
		Bookable: f.ref,
		CheckIn:  time.Now().Add(-96 * time.Hour),
		CheckOut: time.Now().Add(-48 * time.Hour),
		Status:   status,
	}
	booking.ID = uuid.New()
	f.bookings.booking = booking
	return booking
}

func citedReviewReq(ref entity.BookableRef, rating int, bookingID uuid.UUID) *request.CreateReviewRequest {
	req := reviewReq(ref, rating)
	id := bookingID.String()
	req.BookingID = &id
	return req
}

func TestCreateReviewVerifiedFlag(t *testing.T) {
	t.Run("cites a confirmed stay", func(t *testing.T) {
		f := newReviewFixture(t)
		userID := uuid.New()
		booking := stayFor(f, userID, entity.BookingStatusConfirmed)

		resp, err := f.svc.CreateReview(context.Background(), userID.String(),
			citedReviewReq(f.ref, 5, booking.ID))
		require.NoError(t, err)
		assert.True(t, resp.IsVerified)

		require.Len(t, f.reviews.reviews, 1)
		stored := f.reviews.reviews[0]
		require.NotNil(t, stored.BookingID)
		assert.Equal(t, booking.ID, *stored.BookingID)
	})

	t.Run("cites a pending stay", func(t *testing.T) {
		f := newReviewFixture(t)
		userID := uuid.New()
		booking := stayFor(f, userID, entity.BookingStatusPending)

		resp, err := f.svc.CreateReview(context.Background(), userID.String(),
			citedReviewReq(f.ref, 4, booking.ID))
		require.NoError(t, err)
		assert.False(t, resp.IsVerified)
	})

	t.Run("cites someone else's stay", func(t *testing.T) {
		f := newReviewFixture(t)
		booking := stayFor(f, uuid.New(), entity.BookingStatusConfirmed)

		resp, err := f.svc.CreateReview(context.Background(), uuid.New().String(),
			citedReviewReq(f.ref, 4, booking.ID))
		require.NoError(t, err)
		assert.False(t, resp.IsVerified)
	})

	t.Run("no citation stays unverified despite a confirmed stay", func(t *testing.T) {
		f := newReviewFixture(t)
		userID := uuid.New()
		stayFor(f, userID, entity.BookingStatusConfirmed)

		resp, err := f.svc.CreateReview(context.Background(), userID.String(), reviewReq(f.ref, 4))
		require.NoError(t, err)
		assert.False(t, resp.IsVerified)
		require.Len(t, f.reviews.reviews, 1)
		assert.Nil(t, f.reviews.reviews[0].BookingID)
	})

	t.Run("cites an unknown booking", func(t *testing.T) {
		f := newReviewFixture(t)

		_, err := f.svc.CreateReview(context.Background(), uuid.New().String(),
			citedReviewReq(f.ref, 4, uuid.New()))
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Empty(t, f.reviews.reviews)
	})
}

func TestCreateReviewDuplicate(t *testing.T) {
	f := newReviewFixture(t)
	userID := uuid.New().String()

	_, err := f.svc.CreateReview(context.Background(), userID, reviewReq(f.ref, 4))
	require.NoError(t, err)

	_, err = f.svc.CreateReview(context.Background(), userID, reviewReq(f.ref, 5))
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Len(t, f.reviews.reviews, 1)
}

func TestCreateReviewUnknownResource(t *testing.T) {
	f := newReviewFixture(t)

	other := entity.BookableRef{Kind: entity.BookableHotel, ID: uuid.New()}
	_, err := f.svc.CreateReview(context.Background(), uuid.New().String(), reviewReq(other, 4))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.svc.CreateReview(context.Background(), uuid.New().String(), reviewReq(f.ref, 6))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.CreateReview(context.Background(), uuid.New().String(), reviewReq(f.ref, 0))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestReviewRatingRecompute(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateReview(ctx, uuid.New().String(), reviewReq(f.ref, 4))
	require.NoError(t, err)
	assert.Equal(t, 4.0, f.bookables.lastRating)

	_, err = f.svc.CreateReview(ctx, uuid.New().String(), reviewReq(f.ref, 5))
	require.NoError(t, err)
	assert.Equal(t, 4.5, f.bookables.lastRating)
	assert.Equal(t, 2, f.bookables.ratingCalls)
}

func TestUpdateReviewOwnership(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	owner := uuid.New().String()

	created, err := f.svc.CreateReview(ctx, owner, reviewReq(f.ref, 3))
	require.NoError(t, err)

	rating := 5
	_, err = f.svc.UpdateReview(ctx, uuid.New().String(), created.ID, &request.UpdateReviewRequest{Rating: &rating})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	resp, err := f.svc.UpdateReview(ctx, owner, created.ID, &request.UpdateReviewRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Rating)
	assert.Equal(t, 5.0, f.bookables.lastRating)
}

func TestDeleteReview(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	owner := uuid.New().String()

	created, err := f.svc.CreateReview(ctx, owner, reviewReq(f.ref, 4))
	require.NoError(t, err)

	err = f.svc.DeleteReview(ctx, uuid.New().String(), created.ID, false)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	err = f.svc.DeleteReview(ctx, owner, created.ID, false)
	require.NoError(t, err)
	assert.Empty(t, f.reviews.reviews)

	// With the last review gone the catalog rating resets to zero.
	assert.Equal(t, 0.0, f.bookables.lastRating)
}

func TestDeleteReviewAsAdmin(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateReview(ctx, uuid.New().String(), reviewReq(f.ref, 4))
	require.NoError(t, err)

	err = f.svc.DeleteReview(ctx, uuid.New().String(), created.ID, true)
	require.NoError(t, err)
	assert.Empty(t, f.reviews.reviews)
}

func TestGetRatingSummary(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateReview(ctx, uuid.New().String(), reviewReq(f.ref, 2))
	require.NoError(t, err)
	_, err = f.svc.CreateReview(ctx, uuid.New().String(), reviewReq(f.ref, 5))
	require.NoError(t, err)

	summary, err := f.svc.GetRatingSummary(ctx, string(f.ref.Kind), f.ref.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3.5, summary.AverageRating)
	assert.Equal(t, int64(2), summary.ReviewCount)
}
