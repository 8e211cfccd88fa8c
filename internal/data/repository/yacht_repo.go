package repository

import (
	"context"
	"fmt"
	"strings"

	"tourism-booking/internal/data/entity"
	"tourism-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// YachtFilter narrows yacht listings. Nil fields are ignored.
type YachtFilter struct {
	Location    *string
	MinPrice    *float64
	MaxPrice    *float64
	MinCapacity *int
}

type YachtRepository interface {
	Create(ctx context.Context, yacht *entity.Yacht) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Yacht, error)
	FindAll(ctx context.Context, offset, limit int, filter YachtFilter) ([]*entity.Yacht, error)
	CountAll(ctx context.Context, filter YachtFilter) (int64, error)
	FindPopular(ctx context.Context, limit int) ([]*entity.Yacht, error)
	Update(ctx context.Context, yacht *entity.Yacht) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type yachtRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewYachtRepository(db database.PgxIface, log *zap.Logger) YachtRepository {
	return &yachtRepository{
		db:  db,
		log: log.With(zap.String("repository", "yacht")),
	}
}

const yachtColumns = `id, name, description, location, price_per_day, rating, capacity, length, crew_size, is_active, created_at, updated_at`

func (r *yachtRepository) Create(ctx context.Context, yacht *entity.Yacht) error {
	query := `
		INSERT INTO yachts (id, name, description, location, price_per_day,
		                    rating, capacity, length, crew_size, is_active,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		yacht.ID,
		yacht.Name,
		yacht.Description,
		yacht.Location,
		yacht.PricePerDay,
		yacht.Rating,
		yacht.Capacity,
		yacht.Length,
		yacht.CrewSize,
		yacht.IsActive,
		yacht.CreatedAt,
		yacht.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create yacht",
			zap.Error(err),
			zap.String("name", yacht.Name),
		)
		return fmt.Errorf("create yacht: %w", err)
	}

	return nil
}

func (r *yachtRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Yacht, error) {
	query := `SELECT ` + yachtColumns + ` FROM yachts WHERE id = $1`

	var yacht entity.Yacht
	err := r.db.QueryRow(ctx, query, id).Scan(
		&yacht.ID,
		&yacht.Name,
		&yacht.Description,
		&yacht.Location,
		&yacht.PricePerDay,
		&yacht.Rating,
		&yacht.Capacity,
		&yacht.Length,
		&yacht.CrewSize,
		&yacht.IsActive,
		&yacht.CreatedAt,
		&yacht.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find yacht by ID",
			zap.Error(err),
			zap.String("yacht_id", id.String()),
		)
		return nil, fmt.Errorf("find yacht: %w", err)
	}

	return &yacht, nil
}

func (r *yachtRepository) FindAll(ctx context.Context, offset, limit int, filter YachtFilter) ([]*entity.Yacht, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + yachtColumns + ` FROM yachts WHERE is_active = TRUE`)

	args := []interface{}{}
	argCount := appendYachtFilter(&queryBuilder, &args, filter)

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY rating DESC, name ASC LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find yachts",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("find yachts: %w", err)
	}
	defer rows.Close()

	return r.collectYachts(rows)
}

func (r *yachtRepository) CountAll(ctx context.Context, filter YachtFilter) (int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT COUNT(*) FROM yachts WHERE is_active = TRUE`)

	args := []interface{}{}
	appendYachtFilter(&queryBuilder, &args, filter)

	var total int64
	err := r.db.QueryRow(ctx, queryBuilder.String(), args...).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count yachts", zap.Error(err))
		return 0, fmt.Errorf("count yachts: %w", err)
	}

	return total, nil
}

func (r *yachtRepository) FindPopular(ctx context.Context, limit int) ([]*entity.Yacht, error) {
	query := `
		SELECT ` + yachtColumns + `
		FROM yachts
		WHERE is_active = TRUE
		ORDER BY rating DESC, capacity DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to find popular yachts", zap.Error(err))
		return nil, fmt.Errorf("find popular yachts: %w", err)
	}
	defer rows.Close()

	return r.collectYachts(rows)
}

func (r *yachtRepository) Update(ctx context.Context, yacht *entity.Yacht) error {
	query := `
		UPDATE yachts
		SET name = $2, description = $3, location = $4, price_per_day = $5,
		    capacity = $6, length = $7, crew_size = $8, is_active = $9,
		    updated_at = $10
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		yacht.ID,
		yacht.Name,
		yacht.Description,
		yacht.Location,
		yacht.PricePerDay,
		yacht.Capacity,
		yacht.Length,
		yacht.CrewSize,
		yacht.IsActive,
		yacht.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update yacht",
			zap.Error(err),
			zap.String("yacht_id", yacht.ID.String()),
		)
		return fmt.Errorf("update yacht: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("yacht %s not found", yacht.ID.String())
	}

	return nil
}

// Delete deactivates the yacht instead of removing the row so existing
// bookings keep a valid reference.
func (r *yachtRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE yachts SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete yacht",
			zap.Error(err),
			zap.String("yacht_id", id.String()),
		)
		return fmt.Errorf("delete yacht: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("yacht %s not found", id.String())
	}

	return nil
}

func (r *yachtRepository) collectYachts(rows pgx.Rows) ([]*entity.Yacht, error) {
	var yachts []*entity.Yacht
	for rows.Next() {
		var yacht entity.Yacht
		err := rows.Scan(
			&yacht.ID,
			&yacht.Name,
			&yacht.Description,
			&yacht.Location,
			&yacht.PricePerDay,
			&yacht.Rating,
			&yacht.Capacity,
			&yacht.Length,
			&yacht.CrewSize,
			&yacht.IsActive,
			&yacht.CreatedAt,
			&yacht.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan yacht row", zap.Error(err))
			return nil, fmt.Errorf("scan yacht: %w", err)
		}
		yachts = append(yachts, &yacht)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate yacht rows: %w", err)
	}

	return yachts, nil
}

func appendYachtFilter(b *strings.Builder, args *[]interface{}, filter YachtFilter) int {
	argCount := 1

	if filter.Location != nil && *filter.Location != "" {
		b.WriteString(fmt.Sprintf(" AND LOWER(location) = LOWER($%d)", argCount))
		*args = append(*args, *filter.Location)
		argCount++
	}
	if filter.MinPrice != nil {
		b.WriteString(fmt.Sprintf(" AND price_per_day >= $%d", argCount))
		*args = append(*args, *filter.MinPrice)
		argCount++
	}
	if filter.MaxPrice != nil {
		b.WriteString(fmt.Sprintf(" AND price_per_day <= $%d", argCount))
		*args = append(*args, *filter.MaxPrice)
		argCount++
	}
	if filter.MinCapacity != nil {
		b.WriteString(fmt.Sprintf(" AND capacity >= $%d", argCount))
		*args = append(*args, *filter.MinCapacity)
		argCount++
	}

	return argCount
}
