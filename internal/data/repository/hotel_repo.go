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

// HotelFilter narrows hotel listings. Nil fields are ignored.
type HotelFilter struct {
	City     *string
	MinPrice *float64
	MaxPrice *float64
	Stars    *int
}

type HotelRepository interface {
	Create(ctx context.Context, hotel *entity.Hotel) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Hotel, error)
	FindAll(ctx context.Context, offset, limit int, filter HotelFilter) ([]*entity.Hotel, error)
	CountAll(ctx context.Context, filter HotelFilter) (int64, error)
	FindPopular(ctx context.Context, limit int) ([]*entity.Hotel, error)
	Update(ctx context.Context, hotel *entity.Hotel) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type hotelRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHotelRepository(db database.PgxIface, log *zap.Logger) HotelRepository {
	return &hotelRepository{
		db:  db,
		log: log.With(zap.String("repository", "hotel")),
	}
}

const hotelColumns = `id, name, description, city, address, price_per_night, rating, stars, is_active, created_at, updated_at`

func (r *hotelRepository) Create(ctx context.Context, hotel *entity.Hotel) error {
	query := `
		INSERT INTO hotels (id, name, description, city, address, price_per_night,
		                    rating, stars, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		hotel.ID,
		hotel.Name,
		hotel.Description,
		hotel.City,
		hotel.Address,
		hotel.PricePerNight,
		hotel.Rating,
		hotel.Stars,
		hotel.IsActive,
		hotel.CreatedAt,
		hotel.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create hotel",
			zap.Error(err),
			zap.String("name", hotel.Name),
		)
		return fmt.Errorf("create hotel: %w", err)
	}

	return nil
}

func (r *hotelRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels WHERE id = $1`

	var hotel entity.Hotel
	err := r.db.QueryRow(ctx, query, id).Scan(
		&hotel.ID,
		&hotel.Name,
		&hotel.Description,
		&hotel.City,
		&hotel.Address,
		&hotel.PricePerNight,
		&hotel.Rating,
		&hotel.Stars,
		&hotel.IsActive,
		&hotel.CreatedAt,
		&hotel.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find hotel by ID",
			zap.Error(err),
			zap.String("hotel_id", id.String()),
		)
		return nil, fmt.Errorf("find hotel: %w", err)
	}

	return &hotel, nil
}

func (r *hotelRepository) FindAll(ctx context.Context, offset, limit int, filter HotelFilter) ([]*entity.Hotel, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + hotelColumns + ` FROM hotels WHERE is_active = TRUE`)

	args := []interface{}{}
	argCount := appendHotelFilter(&queryBuilder, &args, filter)

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY rating DESC, name ASC LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find hotels",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("find hotels: %w", err)
	}
	defer rows.Close()

	return r.collectHotels(rows)
}

func (r *hotelRepository) CountAll(ctx context.Context, filter HotelFilter) (int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT COUNT(*) FROM hotels WHERE is_active = TRUE`)

	args := []interface{}{}
	appendHotelFilter(&queryBuilder, &args, filter)

	var total int64
	err := r.db.QueryRow(ctx, queryBuilder.String(), args...).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count hotels", zap.Error(err))
		return 0, fmt.Errorf("count hotels: %w", err)
	}

	return total, nil
}

func (r *hotelRepository) FindPopular(ctx context.Context, limit int) ([]*entity.Hotel, error) {
	query := `
		SELECT ` + hotelColumns + `
		FROM hotels
		WHERE is_active = TRUE
		ORDER BY rating DESC, stars DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to find popular hotels", zap.Error(err))
		return nil, fmt.Errorf("find popular hotels: %w", err)
	}
	defer rows.Close()

	return r.collectHotels(rows)
}

func (r *hotelRepository) Update(ctx context.Context, hotel *entity.Hotel) error {
	query := `
		UPDATE hotels
		SET name = $2, description = $3, city = $4, address = $5,
		    price_per_night = $6, stars = $7, is_active = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		hotel.ID,
		hotel.Name,
		hotel.Description,
		hotel.City,
		hotel.Address,
		hotel.PricePerNight,
		hotel.Stars,
		hotel.IsActive,
		hotel.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update hotel",
			zap.Error(err),
			zap.String("hotel_id", hotel.ID.String()),
		)
		return fmt.Errorf("update hotel: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("hotel %s not found", hotel.ID.String())
	}

	return nil
}

// Delete deactivates the hotel instead of removing the row so existing
// bookings keep a valid reference.
func (r *hotelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE hotels SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete hotel",
			zap.Error(err),
			zap.String("hotel_id", id.String()),
		)
		return fmt.Errorf("delete hotel: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("hotel %s not found", id.String())
	}

	return nil
}

func (r *hotelRepository) collectHotels(rows pgx.Rows) ([]*entity.Hotel, error) {
	var hotels []*entity.Hotel
	for rows.Next() {
		var hotel entity.Hotel
		err := rows.Scan(
			&hotel.ID,
			&hotel.Name,
			&hotel.Description,
			&hotel.City,
			&hotel.Address,
			&hotel.PricePerNight,
			&hotel.Rating,
			&hotel.Stars,
			&hotel.IsActive,
			&hotel.CreatedAt,
			&hotel.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan hotel row", zap.Error(err))
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		hotels = append(hotels, &hotel)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate hotel rows: %w", err)
	}

	return hotels, nil
}

// appendHotelFilter writes the optional WHERE clauses and returns the next
// positional argument index.
func appendHotelFilter(b *strings.Builder, args *[]interface{}, filter HotelFilter) int {
	argCount := 1

	if filter.City != nil && *filter.City != "" {
		b.WriteString(fmt.Sprintf(" AND LOWER(city) = LOWER($%d)", argCount))
		*args = append(*args, *filter.City)
		argCount++
	}
	if filter.MinPrice != nil {
		b.WriteString(fmt.Sprintf(" AND price_per_night >= $%d", argCount))
		*args = append(*args, *filter.MinPrice)
		argCount++
	}
	if filter.MaxPrice != nil {
		b.WriteString(fmt.Sprintf(" AND price_per_night <= $%d", argCount))
		*args = append(*args, *filter.MaxPrice)
		argCount++
	}
	if filter.Stars != nil {
		b.WriteString(fmt.Sprintf(" AND stars = $%d", argCount))
		*args = append(*args, *filter.Stars)
		argCount++
	}

	return argCount
}
