package repository

import (
	"context"
	"fmt"
	"time"

	"tourism-booking/internal/apperr"
	"tourism-booking/internal/data/entity"
	"tourism-booking/pkg/crypto"
	"tourism-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingRepository is the reservation store. The *Tx methods run inside
// the caller's transaction so the insert and the overlap re-check share
// the row lock taken on the bookable resource. All sensitive fields pass
// through the field cipher at this boundary: encrypted before INSERT and
// UPDATE, decrypted after every scan.
type BookingRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, booking *entity.Booking) error
	UpdateTx(ctx context.Context, tx pgx.Tx, booking *entity.Booking) error
	HasOverlap(ctx context.Context, ref entity.BookableRef, checkIn, checkOut time.Time) (bool, error)
	HasOverlapTx(ctx context.Context, tx pgx.Tx, ref entity.BookableRef, checkIn, checkOut time.Time, exclude uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID, status entity.BookingStatus) (int64, error)
	FindAll(ctx context.Context, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error)
	CountAll(ctx context.Context, status entity.BookingStatus) (int64, error)
	FindByBookable(ctx context.Context, ref entity.BookableRef) ([]*entity.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error
}

type bookingRepository struct {
	db     database.PgxIface
	cipher *crypto.FieldCipher
	log    *zap.Logger
}

func NewBookingRepository(db database.PgxIface, cipher *crypto.FieldCipher, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:     db,
		cipher: cipher,
		log:    log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, reference, user_id, bookable_kind, bookable_id, check_in_date,
	       check_out_date, total_price, status, guests_count, special_requests,
	       payment_method, payment_status, created_at, updated_at`

func (r *bookingRepository) CreateTx(ctx context.Context, tx pgx.Tx, booking *entity.Booking) error {
	if err := r.sealFields(booking); err != nil {
		return err
	}

	query := `
		INSERT INTO bookings (id, reference, user_id, bookable_kind, bookable_id,
		                      check_in_date, check_out_date, total_price, status,
		                      guests_count, special_requests, payment_method,
		                      payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := tx.Exec(ctx, query,
		booking.ID,
		booking.Reference,
		booking.UserID,
		booking.Bookable.Kind,
		booking.Bookable.ID,
		booking.CheckIn,
		booking.CheckOut,
		booking.TotalPrice,
		booking.Status,
		booking.GuestsCount,
		booking.SpecialRequests,
		booking.PaymentMethod,
		booking.PaymentStatus,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("reference", booking.Reference),
			zap.String("user_id", booking.UserID.String()),
		)
		if isTransient(err) {
			return apperr.Transientf("create booking %s", booking.Reference)
		}
		return fmt.Errorf("create booking %s: %w", booking.Reference, err)
	}

	r.openFields(booking)
	return nil
}

func (r *bookingRepository) UpdateTx(ctx context.Context, tx pgx.Tx, booking *entity.Booking) error {
	if err := r.sealFields(booking); err != nil {
		return err
	}

	query := `
		UPDATE bookings
		SET check_in_date = $2, check_out_date = $3, total_price = $4,
		    guests_count = $5, special_requests = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query,
		booking.ID,
		booking.CheckIn,
		booking.CheckOut,
		booking.TotalPrice,
		booking.GuestsCount,
		booking.SpecialRequests,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	r.openFields(booking)
	return nil
}

// HasOverlap is the advisory availability check: no lock, no guarantee
// the answer is still true by the time a reservation commits.
func (r *bookingRepository) HasOverlap(ctx context.Context, ref entity.BookableRef, checkIn, checkOut time.Time) (bool, error) {
	return r.hasOverlap(ctx, r.db, ref, checkIn, checkOut, uuid.Nil)
}

// HasOverlapTx re-runs the overlap check inside the caller's transaction
// while the bookable row lock is held. A non-nil exclude skips that
// booking's own row, for the date-change update path.
func (r *bookingRepository) HasOverlapTx(ctx context.Context, tx pgx.Tx, ref entity.BookableRef, checkIn, checkOut time.Time, exclude uuid.UUID) (bool, error) {
	return r.hasOverlap(ctx, tx, ref, checkIn, checkOut, exclude)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Two half-open intervals [a,b) and [c,d) overlap iff a < d && c < b.
// Cancelled bookings never block a date range.
func (r *bookingRepository) hasOverlap(ctx context.Context, q rowQuerier, ref entity.BookableRef, checkIn, checkOut time.Time, exclude uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE bookable_kind = $1 AND bookable_id = $2
			  AND status <> 'cancelled'
			  AND check_in_date < $4 AND check_out_date > $3
			  AND id <> $5
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, ref.Kind, ref.ID, checkIn, checkOut, exclude).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check booking overlap",
			zap.Error(err),
			zap.String("bookable", ref.String()),
		)
		return false, fmt.Errorf("check overlap for %s: %w", ref, err)
	}

	return exists, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := r.scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, userID, status, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return r.collectBookings(rows)
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID, status entity.BookingStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND ($2 = '' OR status = $2)`

	var count int64
	err := r.db.QueryRow(ctx, query, userID, status).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	return r.collectBookings(rows)
}

func (r *bookingRepository) CountAll(ctx context.Context, status entity.BookingStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE ($1 = '' OR status = $1)`

	var count int64
	err := r.db.QueryRow(ctx, query, status).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) FindByBookable(ctx context.Context, ref entity.BookableRef) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE bookable_kind = $1 AND bookable_id = $2
		ORDER BY check_in_date
	`

	rows, err := r.db.Query(ctx, query, ref.Kind, ref.ID)
	if err != nil {
		r.log.Error("Failed to find bookings by bookable",
			zap.Error(err),
			zap.String("bookable", ref.String()),
		)
		return nil, fmt.Errorf("find bookings for %s: %w", ref, err)
	}
	defer rows.Close()

	return r.collectBookings(rows)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.UserID,
		&booking.Bookable.Kind,
		&booking.Bookable.ID,
		&booking.CheckIn,
		&booking.CheckOut,
		&booking.TotalPrice,
		&booking.Status,
		&booking.GuestsCount,
		&booking.SpecialRequests,
		&booking.PaymentMethod,
		&booking.PaymentStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.openFields(&booking)
	return &booking, nil
}

func (r *bookingRepository) collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

// sealFields encrypts the sensitive attributes before they hit storage.
// A failure here must abort the write: sensitive data never lands in the
// clear.
func (r *bookingRepository) sealFields(booking *entity.Booking) error {
	if err := r.cipher.EncryptFields(booking.SpecialRequests, &booking.PaymentMethod); err != nil {
		r.log.Error("Failed to encrypt booking fields",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return apperr.Cipherf("encrypt booking %s fields", booking.ID.String())
	}
	return nil
}

// openFields decrypts after load. Values that fail to decrypt (legacy
// plaintext, missing key) stay as stored.
func (r *bookingRepository) openFields(booking *entity.Booking) {
	r.cipher.DecryptFields(booking.SpecialRequests, &booking.PaymentMethod)
}
