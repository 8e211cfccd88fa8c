package repository

import (
	"context"
	"fmt"

	"tourism-booking/internal/data/entity"
	"tourism-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByBookable(ctx context.Context, ref entity.BookableRef, limit, offset int) ([]*entity.Review, error)
	CountByBookable(ctx context.Context, ref entity.BookableRef) (int64, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	FindByUserAndBookable(ctx context.Context, userID uuid.UUID, ref entity.BookableRef) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AverageRating returns the mean rating and review count for a
	// resource, 0 and 0 when it has no reviews.
	AverageRating(ctx context.Context, ref entity.BookableRef) (float64, int64, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, user_id, bookable_kind, bookable_id, booking_id, rating, comment, is_verified, created_at`

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, bookable_kind, bookable_id, booking_id,
		                     rating, comment, is_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.Bookable.Kind,
		review.Bookable.ID,
		review.BookingID,
		review.Rating,
		review.Comment,
		review.IsVerified,
		review.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("bookable", review.Bookable.String()),
		)
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review: %w", err)
	}

	return review, nil
}

func (r *reviewRepository) FindByBookable(ctx context.Context, ref entity.BookableRef, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE bookable_kind = $1 AND bookable_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, ref.Kind, ref.ID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews",
			zap.Error(err),
			zap.String("bookable", ref.String()),
		)
		return nil, fmt.Errorf("find reviews for %s: %w", ref.String(), err)
	}
	defer rows.Close()

	return r.collectReviews(rows)
}

func (r *reviewRepository) CountByBookable(ctx context.Context, ref entity.BookableRef) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE bookable_kind = $1 AND bookable_id = $2`

	var count int64
	err := r.db.QueryRow(ctx, query, ref.Kind, ref.ID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reviews",
			zap.Error(err),
			zap.String("bookable", ref.String()),
		)
		return 0, fmt.Errorf("count reviews for %s: %w", ref.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find user reviews",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find user reviews: %w", err)
	}
	defer rows.Close()

	return r.collectReviews(rows)
}

func (r *reviewRepository) FindByUserAndBookable(ctx context.Context, userID uuid.UUID, ref entity.BookableRef) (*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1 AND bookable_kind = $2 AND bookable_id = $3
	`

	review, err := scanReview(r.db.QueryRow(ctx, query, userID, ref.Kind, ref.ID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by user and bookable",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("bookable", ref.String()),
		)
		return nil, fmt.Errorf("find review by user and bookable: %w", err)
	}

	return review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Rating,
		review.Comment,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", review.ID.String())
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", id.String())
	}

	return nil
}

func (r *reviewRepository) AverageRating(ctx context.Context, ref entity.BookableRef) (float64, int64, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0) AS avg_rating,
		       COUNT(*) AS review_count
		FROM reviews
		WHERE bookable_kind = $1 AND bookable_id = $2
	`

	var avg float64
	var count int64
	err := r.db.QueryRow(ctx, query, ref.Kind, ref.ID).Scan(&avg, &count)
	if err != nil {
		r.log.Error("Failed to compute average rating",
			zap.Error(err),
			zap.String("bookable", ref.String()),
		)
		return 0, 0, fmt.Errorf("average rating for %s: %w", ref.String(), err)
	}

	return avg, count, nil
}

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.Bookable.Kind,
		&review.Bookable.ID,
		&review.BookingID,
		&review.Rating,
		&review.Comment,
		&review.IsVerified,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &review, nil
}

func (r *reviewRepository) collectReviews(rows pgx.Rows) ([]*entity.Review, error) {
	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}
