package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-reservation/internal/data/entity"
	"movie-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CartRepository stores provisional line items per user. Line items are
// reservations that have not been committed yet.
type CartRepository interface {
	Items(ctx context.Context, userID uuid.UUID) ([]*entity.Reservation, error)
	// AddItem reports false when the screening is already in the cart.
	AddItem(ctx context.Context, userID uuid.UUID, item *entity.Reservation) (bool, error)
	// RemoveItem returns the removed item, or nil when it was not in the cart.
	RemoveItem(ctx context.Context, userID, reservationID uuid.UUID) (*entity.Reservation, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCartRepository(db database.PgxIface, log *zap.Logger) CartRepository {
	return &cartRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart")),
	}
}

func scanCartItem(row scanner) (*entity.Reservation, error) {
	item := entity.Reservation{Status: entity.ReservationStatusReserved}
	err := row.Scan(&item.ID, &item.UserID, &item.ScreeningID, &item.ReservationDate, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) Items(ctx context.Context, userID uuid.UUID) ([]*entity.Reservation, error) {
	query := `
		SELECT id, user_id, screening_id, reservation_date, created_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to load cart", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("load cart for user %s: %w", userID, err)
	}
	defer rows.Close()

	items := make([]*entity.Reservation, 0)
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			r.log.Error("Failed to scan cart row", zap.Error(err))
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *cartRepository) AddItem(ctx context.Context, userID uuid.UUID, item *entity.Reservation) (bool, error) {
	query := `
		INSERT INTO cart_items (id, user_id, screening_id, reservation_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, screening_id) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query, item.ID, userID, item.ScreeningID, item.ReservationDate, item.CreatedAt)
	if err != nil {
		r.log.Error("Failed to add cart item",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("screening_id", item.ScreeningID.String()),
		)
		return false, fmt.Errorf("add screening %s to cart: %w", item.ScreeningID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, userID, reservationID uuid.UUID) (*entity.Reservation, error) {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1 AND id = $2
		RETURNING id, user_id, screening_id, reservation_date, created_at
	`

	item, err := scanCartItem(r.db.QueryRow(ctx, query, userID, reservationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to remove cart item",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
		)
		return nil, fmt.Errorf("remove cart item %s: %w", reservationID, err)
	}
	return item, nil
}

func (r *cartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		r.log.Error("Failed to clear cart", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("clear cart for user %s: %w", userID, err)
	}
	return nil
}
