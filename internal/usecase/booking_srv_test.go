package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tourism-booking/internal/apperr"
	"tourism-booking/internal/data/entity"
	"tourism-booking/internal/data/repository"
	"tourism-booking/internal/dto/request"
	"tourism-booking/internal/notify"
	"tourism-booking/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore simulates the locked-row transaction discipline: the row
// mutex is taken by LockForUpdate and only released on commit or
// rollback, exactly like a FOR UPDATE lock.
type fakeStore struct {
	rowMu     sync.Mutex
	committed []*entity.Booking
}

type fakeTx struct {
	pgx.Tx
	store  *fakeStore
	staged []*entity.Booking
	locked bool
	done   bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("tx already closed")
	}
	t.done = true
	t.store.committed = append(t.store.committed, t.staged...)
	if t.locked {
		t.locked = false
		t.store.rowMu.Unlock()
	}
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	if t.locked {
		t.locked = false
		t.store.rowMu.Unlock()
	}
	return nil
}

// fakeDB hands out transactions bound to the shared store.
type fakeDB struct {
	store *fakeStore
	began int
	mu    sync.Mutex
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	db.mu.Lock()
	db.began++
	db.mu.Unlock()
	return &fakeTx{store: db.store}, nil
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}
func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not implemented")
}
func (db *fakeDB) Ping(ctx context.Context) error { return nil }
func (db *fakeDB) Close()                         {}

// bookableMock serves a single resource and honors the row lock.
type bookableMock struct {
	store    *fakeStore
	bookable *entity.Bookable
}

func (m *bookableMock) FindByRef(ctx context.Context, ref entity.BookableRef) (*entity.Bookable, error) {
	if m.bookable != nil && m.bookable.Ref == ref {
		return m.bookable, nil
	}
	return nil, nil
}

func (m *bookableMock) LockForUpdate(ctx context.Context, tx pgx.Tx, ref entity.BookableRef) (*entity.Bookable, error) {
	ftx := tx.(*fakeTx)
	m.store.rowMu.Lock()
	ftx.locked = true
	if m.bookable != nil && m.bookable.Ref == ref {
		return m.bookable, nil
	}
	return nil, nil
}

func (m *bookableMock) UpdateRating(ctx context.Context, ref entity.BookableRef, rating float64) error {
	return nil
}

// bookingMock reads committed bookings from the store and stages new
// rows on the transaction.
type bookingMock struct {
	store       *fakeStore
	lastExclude uuid.UUID
	lastUpdated *entity.Booking
}

func (m *bookingMock) CreateTx(ctx context.Context, tx pgx.Tx, booking *entity.Booking) error {
	ftx := tx.(*fakeTx)
	ftx.staged = append(ftx.staged, booking)
	return nil
}

func (m *bookingMock) UpdateTx(ctx context.Context, tx pgx.Tx, booking *entity.Booking) error {
	m.lastUpdated = booking
	return nil
}

func (m *bookingMock) HasOverlap(ctx context.Context, ref entity.BookableRef, checkIn, checkOut time.Time) (bool, error) {
	return m.overlap(ref, checkIn, checkOut, uuid.Nil), nil
}

func (m *bookingMock) HasOverlapTx(ctx context.Context, tx pgx.Tx, ref entity.BookableRef, checkIn, checkOut time.Time, exclude uuid.UUID) (bool, error) {
	m.lastExclude = exclude
	return m.overlap(ref, checkIn, checkOut, exclude), nil
}

func (m *bookingMock) overlap(ref entity.BookableRef, in, out time.Time, exclude uuid.UUID) bool {
	for _, b := range m.store.committed {
		if b.Bookable != ref || b.ID == exclude || b.Status == entity.BookingStatusCancelled {
			continue
		}
		if b.Overlaps(in, out) {
			return true
		}
	}
	return false
}

func (m *bookingMock) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	for _, b := range m.store.committed {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (m *bookingMock) FindByUserID(ctx context.Context, userID uuid.UUID, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range m.store.committed {
		if b.UserID == userID && (status == "" || b.Status == status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *bookingMock) CountByUserID(ctx context.Context, userID uuid.UUID, status entity.BookingStatus) (int64, error) {
	list, _ := m.FindByUserID(ctx, userID, status, 0, 0)
	return int64(len(list)), nil
}

func (m *bookingMock) FindAll(ctx context.Context, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	return m.store.committed, nil
}

func (m *bookingMock) CountAll(ctx context.Context, status entity.BookingStatus) (int64, error) {
	return int64(len(m.store.committed)), nil
}

func (m *bookingMock) FindByBookable(ctx context.Context, ref entity.BookableRef) ([]*entity.Booking, error) {
	return nil, nil
}

func (m *bookingMock) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	for _, b := range m.store.committed {
		if b.ID == id {
			b.Status = status
		}
	}
	return nil
}

type nopNotifier struct{}

func (nopNotifier) BookingCreated(ctx context.Context, event notify.BookingEvent)   {}
func (nopNotifier) BookingConfirmed(ctx context.Context, event notify.BookingEvent) {}
func (nopNotifier) BookingCancelled(ctx context.Context, event notify.BookingEvent) {}

type engineFixture struct {
	svc      usecase.BookingService
	db       *fakeDB
	store    *fakeStore
	bookings *bookingMock
	ref      entity.BookableRef
}

func newEngineFixture(t *testing.T, unitPrice float64) *engineFixture {
	t.Helper()

	store := &fakeStore{}
	ref := entity.BookableRef{Kind: entity.BookableHotel, ID: uuid.New()}
	bookables := &bookableMock{
		store: store,
		bookable: &entity.Bookable{
			Ref:       ref,
			Name:      "Harbor View",
			UnitPrice: unitPrice,
			IsActive:  true,
		},
	}
	bookings := &bookingMock{store: store}
	db := &fakeDB{store: store}

	repo := &repository.Repository{
		Bookable: bookables,
		Booking:  bookings,
	}

	return &engineFixture{
		svc:      usecase.NewBookingService(db, repo, nopNotifier{}, zap.NewNop()),
		db:       db,
		store:    store,
		bookings: bookings,
		ref:      ref,
	}
}

// day formats a date offset days from today, keeping the fixtures
// valid no matter when the tests run.
func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format("2006-01-02")
}

func createReq(ref entity.BookableRef, in, out string) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		BookableType:  string(ref.Kind),
		BookableID:    ref.ID.String(),
		CheckInDate:   in,
		CheckOutDate:  out,
		GuestsCount:   2,
		PaymentMethod: "credit_card",
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newEngineFixture(t, 100)
	userID := uuid.New().String()

	t.Run("bad payment method", func(t *testing.T) {
		req := createReq(f.ref, day(90), day(94))
		req.PaymentMethod = "cash"
		_, err := f.svc.CreateBooking(context.Background(), userID, req)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("checkout before checkin", func(t *testing.T) {
		_, err := f.svc.CreateBooking(context.Background(), userID,
			createReq(f.ref, day(94), day(90)))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("checkin in the past", func(t *testing.T) {
		_, err := f.svc.CreateBooking(context.Background(), userID,
			createReq(f.ref, "2020-01-01", "2020-01-05"))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("checkin today", func(t *testing.T) {
		_, err := f.svc.CreateBooking(context.Background(), userID,
			createReq(f.ref, day(0), day(1)))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("zero nights", func(t *testing.T) {
		_, err := f.svc.CreateBooking(context.Background(), userID,
			createReq(f.ref, day(90), day(90)))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	// Nothing above should have opened a transaction.
	assert.Equal(t, 0, f.db.began)
}

func TestCreateBookingPrice(t *testing.T) {
	f := newEngineFixture(t, 100)

	resp, err := f.svc.CreateBooking(context.Background(), uuid.New().String(),
		createReq(f.ref, day(90), day(93)))
	require.NoError(t, err)

	// 3 nights at 100 per night.
	assert.Equal(t, 300.0, resp.TotalPrice)
	assert.Equal(t, entity.BookingStatusPending, resp.Status)
	assert.NotEmpty(t, resp.Reference)
	assert.Len(t, f.store.committed, 1)
}

func TestCreateBookingUnavailable(t *testing.T) {
	f := newEngineFixture(t, 100)
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, uuid.New().String(),
		createReq(f.ref, day(90), day(94)))
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, uuid.New().String(),
		createReq(f.ref, day(92), day(96)))
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
	assert.Len(t, f.store.committed, 1)
}

func TestCreateBookingAdjacentIsAvailable(t *testing.T) {
	f := newEngineFixture(t, 100)
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, uuid.New().String(),
		createReq(f.ref, day(90), day(94)))
	require.NoError(t, err)

	// Back-to-back stays share a turnover day, not a night.
	_, err = f.svc.CreateBooking(ctx, uuid.New().String(),
		createReq(f.ref, day(94), day(97)))
	require.NoError(t, err)
	assert.Len(t, f.store.committed, 2)
}

func TestCreateBookingUnknownResource(t *testing.T) {
	f := newEngineFixture(t, 100)

	other := entity.BookableRef{Kind: entity.BookableYacht, ID: uuid.New()}
	_, err := f.svc.CreateBooking(context.Background(), uuid.New().String(),
		createReq(other, day(90), day(94)))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// TestCreateBookingRace drives two concurrent requests for overlapping
// dates at the same resource through real lock-until-commit semantics.
// Exactly one must win.
func TestCreateBookingRace(t *testing.T) {
	f := newEngineFixture(t, 100)

	reqs := []*request.CreateBookingRequest{
		createReq(f.ref, day(90), day(94)),
		createReq(f.ref, day(92), day(96)),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(reqs))
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req *request.CreateBookingRequest) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateBooking(context.Background(), uuid.New().String(), req)
		}(i, req)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, apperr.ErrUnavailable)
		}
	}
	assert.Equal(t, 1, winners)
	require.Len(t, f.store.committed, 1)

	// Post-hoc invariant: no two committed bookings for the resource
	// overlap.
	for i, a := range f.store.committed {
		for _, b := range f.store.committed[i+1:] {
			if a.Bookable == b.Bookable {
				assert.False(t, a.Overlaps(b.CheckIn, b.CheckOut))
			}
		}
	}
}

func TestUpdateBookingRechecksAvailability(t *testing.T) {
	f := newEngineFixture(t, 100)
	ctx := context.Background()
	userID := uuid.New().String()

	first, err := f.svc.CreateBooking(ctx, userID,
		createReq(f.ref, day(90), day(94)))
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, uuid.New().String(),
		createReq(f.ref, day(99), day(104)))
	require.NoError(t, err)

	newIn, newOut := day(101), day(103)
	_, err = f.svc.UpdateBooking(ctx, userID, first.ID, &request.UpdateBookingRequest{
		CheckInDate:  &newIn,
		CheckOutDate: &newOut,
	})
	assert.ErrorIs(t, err, apperr.ErrUnavailable)

	// Moving within its own interval must not collide with itself.
	shiftIn, shiftOut := day(91), day(93)
	resp, err := f.svc.UpdateBooking(ctx, userID, first.ID, &request.UpdateBookingRequest{
		CheckInDate:  &shiftIn,
		CheckOutDate: &shiftOut,
	})
	require.NoError(t, err)
	assert.Equal(t, uuid.MustParse(first.ID), f.bookings.lastExclude)
	assert.Equal(t, 200.0, resp.TotalPrice)
}

func TestUpdateBookingWithoutDateChangeSkipsLock(t *testing.T) {
	f := newEngineFixture(t, 100)
	ctx := context.Background()
	userID := uuid.New().String()

	created, err := f.svc.CreateBooking(ctx, userID,
		createReq(f.ref, day(90), day(94)))
	require.NoError(t, err)

	guests := 4
	resp, err := f.svc.UpdateBooking(ctx, userID, created.ID, &request.UpdateBookingRequest{
		GuestsCount: &guests,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.GuestsCount)
	assert.Equal(t, created.TotalPrice, resp.TotalPrice)
	require.NotNil(t, f.bookings.lastUpdated)
	assert.Equal(t, 4, f.bookings.lastUpdated.GuestsCount)
}

func TestUpdateBookingRequiresFutureCheckIn(t *testing.T) {
	f := newEngineFixture(t, 100)
	ctx := context.Background()
	userID := uuid.New().String()

	created, err := f.svc.CreateBooking(ctx, userID,
		createReq(f.ref, day(90), day(94)))
	require.NoError(t, err)

	todayIn, tomorrowOut := day(0), day(1)
	_, err = f.svc.UpdateBooking(ctx, userID, created.ID, &request.UpdateBookingRequest{
		CheckInDate:  &todayIn,
		CheckOutDate: &tomorrowOut,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	pastIn, pastOut := "2020-01-01", "2020-01-05"
	_, err = f.svc.UpdateBooking(ctx, userID, created.ID, &request.UpdateBookingRequest{
		CheckInDate:  &pastIn,
		CheckOutDate: &pastOut,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateBookingOnlyWhilePending(t *testing.T) {
	f := newEngineFixture(t, 100)
	ctx := context.Background()
	userID := uuid.New().String()

	created, err := f.svc.CreateBooking(ctx, userID,
		createReq(f.ref, day(90), day(94)))
	require.NoError(t, err)

	_, err = f.svc.ConfirmBooking(ctx, created.ID)
	require.NoError(t, err)

	guests := 3
	_, err = f.svc.UpdateBooking(ctx, userID, created.ID, &request.UpdateBookingRequest{
		GuestsCount: &guests,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCancelBookingRules(t *testing.T) {
	newBooking := func(status entity.BookingStatus, checkIn time.Time) (*engineFixture, *entity.Booking) {
		f := newEngineFixture(t, 100)
		b := &entity.Booking{
			UserID:   uuid.New(),
			Bookable: f.ref,
			CheckIn:  checkIn,
			CheckOut: checkIn.Add(96 * time.Hour),
			Status:   status,
		}
		b.ID = uuid.New()
		f.store.committed = append(f.store.committed, b)
		return f, b
	}

	t.Run("owner cannot cancel pending", func(t *testing.T) {
		f, b := newBooking(entity.BookingStatusPending, time.Now().Add(96*time.Hour))
		err := f.svc.CancelBooking(context.Background(), b.UserID.String(), b.ID.String(), false)
		assert.ErrorIs(t, err, apperr.ErrCannotCancel)
	})

	t.Run("owner cancels confirmed with notice", func(t *testing.T) {
		f, b := newBooking(entity.BookingStatusConfirmed, time.Now().Add(96*time.Hour))
		err := f.svc.CancelBooking(context.Background(), b.UserID.String(), b.ID.String(), false)
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCancelled, b.Status)
	})

	t.Run("admin cancels pending", func(t *testing.T) {
		f, b := newBooking(entity.BookingStatusPending, time.Now().Add(12*time.Hour))
		err := f.svc.CancelBooking(context.Background(), uuid.New().String(), b.ID.String(), true)
		require.NoError(t, err)
	})

	t.Run("owner blocked inside notice window", func(t *testing.T) {
		f, b := newBooking(entity.BookingStatusConfirmed, time.Now().Add(12*time.Hour))
		err := f.svc.CancelBooking(context.Background(), b.UserID.String(), b.ID.String(), false)
		assert.ErrorIs(t, err, apperr.ErrCannotCancel)
	})

	t.Run("admin skips the window", func(t *testing.T) {
		f, b := newBooking(entity.BookingStatusConfirmed, time.Now().Add(12*time.Hour))
		err := f.svc.CancelBooking(context.Background(), uuid.New().String(), b.ID.String(), true)
		require.NoError(t, err)
	})

	t.Run("already cancelled", func(t *testing.T) {
		f, b := newBooking(entity.BookingStatusCancelled, time.Now().Add(96*time.Hour))
		err := f.svc.CancelBooking(context.Background(), b.UserID.String(), b.ID.String(), false)
		assert.ErrorIs(t, err, apperr.ErrCannotCancel)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		f, b := newBooking(entity.BookingStatusPending, time.Now().Add(96*time.Hour))
		err := f.svc.CancelBooking(context.Background(), uuid.New().String(), b.ID.String(), false)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})
}

func TestConfirmBooking(t *testing.T) {
	f := newEngineFixture(t, 100)
	ctx := context.Background()

	created, err := f.svc.CreateBooking(ctx, uuid.New().String(),
		createReq(f.ref, day(90), day(94)))
	require.NoError(t, err)

	resp, err := f.svc.ConfirmBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)

	// A second confirm targets a non-pending booking.
	_, err = f.svc.ConfirmBooking(ctx, created.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGetBookingAuthorization(t *testing.T) {
	f := newEngineFixture(t, 100)
	ctx := context.Background()
	owner := uuid.New().String()

	created, err := f.svc.CreateBooking(ctx, owner,
		createReq(f.ref, day(90), day(94)))
	require.NoError(t, err)

	_, err = f.svc.GetBookingByID(ctx, owner, created.ID, false)
	require.NoError(t, err)

	_, err = f.svc.GetBookingByID(ctx, uuid.New().String(), created.ID, false)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = f.svc.GetBookingByID(ctx, uuid.New().String(), created.ID, true)
	require.NoError(t, err)
}

func TestCheckAvailability(t *testing.T) {
	f := newEngineFixture(t, 100)
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, uuid.New().String(),
		createReq(f.ref, day(90), day(94)))
	require.NoError(t, err)

	resp, err := f.svc.CheckAvailability(ctx, &request.CheckAvailabilityRequest{
		BookableType: string(f.ref.Kind),
		BookableID:   f.ref.ID.String(),
		CheckInDate:  day(92),
		CheckOutDate: day(95),
	})
	require.NoError(t, err)
	assert.False(t, resp.Available)

	resp, err = f.svc.CheckAvailability(ctx, &request.CheckAvailabilityRequest{
		BookableType: string(f.ref.Kind),
		BookableID:   f.ref.ID.String(),
		CheckInDate:  day(94),
		CheckOutDate: day(97),
	})
	require.NoError(t, err)
	assert.True(t, resp.Available)
}
