package repository

import (
	"context"
	"errors"
	"fmt"

	"tourism-booking/internal/apperr"
	"tourism-booking/internal/data/entity"
	"tourism-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// BookableRepository resolves a BookableRef to whichever catalog table it
// points at. LockForUpdate is the reservation engine's serialization
// point: it takes an exclusive row lock held until the surrounding
// transaction commits or rolls back.
type BookableRepository interface {
	FindByRef(ctx context.Context, ref entity.BookableRef) (*entity.Bookable, error)
	LockForUpdate(ctx context.Context, tx pgx.Tx, ref entity.BookableRef) (*entity.Bookable, error)
	UpdateRating(ctx context.Context, ref entity.BookableRef, rating float64) error
}

type bookableRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookableRepository(db database.PgxIface, log *zap.Logger) BookableRepository {
	return &bookableRepository{
		db:  db,
		log: log.With(zap.String("repository", "bookable")),
	}
}

func snapshotQuery(kind entity.BookableKind) string {
	if kind == entity.BookableHotel {
		return `SELECT id, name, price_per_night, is_active FROM hotels WHERE id = $1`
	}
	return `SELECT id, name, price_per_day, is_active FROM yachts WHERE id = $1`
}

func (r *bookableRepository) FindByRef(ctx context.Context, ref entity.BookableRef) (*entity.Bookable, error) {
	return r.scanSnapshot(ctx, r.db.QueryRow(ctx, snapshotQuery(ref.Kind), ref.ID), ref)
}

func (r *bookableRepository) LockForUpdate(ctx context.Context, tx pgx.Tx, ref entity.BookableRef) (*entity.Bookable, error) {
	query := snapshotQuery(ref.Kind) + ` FOR UPDATE`
	bookable, err := r.scanSnapshot(ctx, tx.QueryRow(ctx, query, ref.ID), ref)
	if err != nil {
		if isTransient(err) {
			return nil, apperr.Transientf("lock %s", ref)
		}
		return nil, err
	}
	return bookable, nil
}

func (r *bookableRepository) scanSnapshot(ctx context.Context, row pgx.Row, ref entity.BookableRef) (*entity.Bookable, error) {
	var b entity.Bookable
	b.Ref = ref

	err := row.Scan(&b.Ref.ID, &b.Name, &b.UnitPrice, &b.IsActive)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to load bookable",
			zap.Error(err),
			zap.String("bookable", ref.String()),
		)
		return nil, fmt.Errorf("load bookable %s: %w", ref, err)
	}

	return &b, nil
}

func (r *bookableRepository) UpdateRating(ctx context.Context, ref entity.BookableRef, rating float64) error {
	query := `UPDATE hotels SET rating = $2, updated_at = NOW() WHERE id = $1`
	if ref.Kind == entity.BookableYacht {
		query = `UPDATE yachts SET rating = $2, updated_at = NOW() WHERE id = $1`
	}

	result, err := r.db.Exec(ctx, query, ref.ID, rating)
	if err != nil {
		r.log.Error("Failed to update rating",
			zap.Error(err),
			zap.String("bookable", ref.String()),
		)
		return fmt.Errorf("update rating for %s: %w", ref, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bookable %s not found", ref)
	}

	return nil
}

// isTransient reports whether err is a lock timeout, deadlock, or
// serialization failure. Callers treat these as safe to retry.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "55P03", "40P01", "40001":
		return true
	}
	return false
}
