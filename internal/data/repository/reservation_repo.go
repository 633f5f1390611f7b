package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-reservation/internal/data/entity"
	"movie-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Reservation, error)

	// Commit stores items as permanent reservations and takes one seat per
	// item from the referenced screenings. Either everything is applied or
	// nothing is. With fromCart every item must still be in the user's cart
	// and is removed from it; items added since the cart was read stay.
	// A missing cart item or an already stored reservation is ErrConflict.
	Commit(ctx context.Context, userID uuid.UUID, items []*entity.Reservation, fromCart bool) error

	// Transition moves a reservation from one status to another and adjusts
	// the screening's seat count by seatDelta in the same step. A change that
	// would leave the screening below zero seats is ErrSoldOut.
	Transition(ctx context.Context, id uuid.UUID, from, to entity.ReservationStatus, seatDelta int) (*entity.Reservation, error)

	// UpdateRating only succeeds on watched reservations. A non-nil review is
	// upserted together with the rating.
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviewText *string, review *entity.Review) (*entity.Reservation, error)
}

const reservationColumns = `id, screening_id, user_id, reservation_date, status, rating, review_text, created_at`

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

func scanReservation(row scanner) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID,
		&res.ScreeningID,
		&res.UserID,
		&res.ReservationDate,
		&res.Status,
		&res.Rating,
		&res.ReviewText,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation by ID %s: %w", id.String(), err)
	}
	return res, nil
}

func (r *reservationRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find reservations by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find reservations by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	reservations := make([]*entity.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func (r *reservationRepository) Commit(ctx context.Context, userID uuid.UUID, items []*entity.Reservation, fromCart bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin commit reservations: %w", err)
	}
	defer tx.Rollback(ctx)

	if fromCart {
		if err := r.takeFromCart(ctx, tx, userID, items); err != nil {
			return err
		}
	}

	for _, it := range items {
		tag, err := tx.Exec(ctx, `
			UPDATE screenings
			SET available_seats = available_seats - 1, updated_at = NOW()
			WHERE id = $1 AND available_seats > 0
		`, it.ScreeningID)
		if err != nil {
			return fmt.Errorf("take seat for screening %s: %w", it.ScreeningID, err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM screenings WHERE id = $1)`, it.ScreeningID).Scan(&exists); err != nil {
				return fmt.Errorf("check screening %s: %w", it.ScreeningID, err)
			}
			if !exists {
				return fmt.Errorf("commit reservations: screening %s: %w", it.ScreeningID, ErrNotFound)
			}
			r.log.Warn("Commit rejected, screening sold out", zap.String("screening_id", it.ScreeningID.String()))
			return fmt.Errorf("commit reservations: screening %s: %w", it.ScreeningID, ErrSoldOut)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO reservations (id, screening_id, user_id, reservation_date, status, rating, review_text, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, it.ID, it.ScreeningID, it.UserID, it.ReservationDate, it.Status, it.Rating, it.ReviewText, it.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("commit reservations: reservation %s already exists: %w", it.ID, ErrConflict)
			}
			r.log.Error("Failed to insert reservation",
				zap.Error(err),
				zap.String("reservation_id", it.ID.String()),
			)
			return fmt.Errorf("insert reservation %s: %w", it.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit reservations", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("commit reservations: %w", err)
	}
	return nil
}

// takeFromCart deletes exactly the given items from the cart. A concurrent
// checkout of the same cart blocks on the row locks and then finds fewer rows.
func (r *reservationRepository) takeFromCart(ctx context.Context, tx pgx.Tx, userID uuid.UUID, items []*entity.Reservation) error {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID.String())
	}

	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2::uuid[])`, userID, ids)
	if err != nil {
		return fmt.Errorf("take items from cart of user %s: %w", userID, err)
	}
	if tag.RowsAffected() != int64(len(items)) {
		r.log.Warn("Commit rejected, cart changed",
			zap.String("user_id", userID.String()),
			zap.Int64("found", tag.RowsAffected()),
			zap.Int("expected", len(items)),
		)
		return fmt.Errorf("commit reservations: %d of %d items still in cart: %w", tag.RowsAffected(), len(items), ErrConflict)
	}
	return nil
}

func (r *reservationRepository) Transition(ctx context.Context, id uuid.UUID, from, to entity.ReservationStatus, seatDelta int) (*entity.Reservation, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin reservation transition: %w", err)
	}
	defer tx.Rollback(ctx)

	var screeningID uuid.UUID
	err = tx.QueryRow(ctx, `
		UPDATE reservations SET status = $3 WHERE id = $1 AND status = $2 RETURNING screening_id
	`, id, from, to).Scan(&screeningID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.missingOrConflict(ctx, tx, id, from)
	}
	if err != nil {
		return nil, fmt.Errorf("update reservation %s status to %s: %w", id, to, err)
	}

	if seatDelta != 0 {
		if err := adjustSeats(ctx, tx, screeningID, seatDelta); err != nil {
			return nil, fmt.Errorf("reservation %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reservation transition: %w", err)
	}

	r.log.Debug("Reservation status changed",
		zap.String("reservation_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return r.FindByID(ctx, id)
}

// adjustSeats leaves a deleted screening alone.
func adjustSeats(ctx context.Context, tx pgx.Tx, screeningID uuid.UUID, delta int) error {
	var seats int
	err := tx.QueryRow(ctx, `SELECT available_seats FROM screenings WHERE id = $1 FOR UPDATE`, screeningID).Scan(&seats)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lock screening %s: %w", screeningID, err)
	}
	if seats+delta < 0 {
		return fmt.Errorf("screening %s: %w", screeningID, ErrSoldOut)
	}

	_, err = tx.Exec(ctx, `
		UPDATE screenings SET available_seats = available_seats + $2, updated_at = NOW() WHERE id = $1
	`, screeningID, delta)
	if err != nil {
		return fmt.Errorf("adjust seats for screening %s: %w", screeningID, err)
	}
	return nil
}

func (r *reservationRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviewText *string, review *entity.Review) (*entity.Reservation, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin rate reservation: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE reservations SET rating = $2, review_text = $3 WHERE id = $1 AND status = $4
	`, id, rating, reviewText, entity.ReservationStatusWatched)
	if err != nil {
		r.log.Error("Failed to update reservation rating",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("update reservation %s rating: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, r.missingOrConflict(ctx, tx, id, entity.ReservationStatusWatched)
	}

	if review != nil {
		if _, err := upsertReview(ctx, tx, review); err != nil {
			r.log.Error("Failed to upsert review with rating",
				zap.Error(err),
				zap.String("reservation_id", id.String()),
				zap.Int64("movie_id", review.MovieID),
			)
			return nil, fmt.Errorf("upsert review for reservation %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit rate reservation: %w", err)
	}
	return r.FindByID(ctx, id)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *reservationRepository) missingOrConflict(ctx context.Context, q queryRower, id uuid.UUID, expected entity.ReservationStatus) error {
	var status entity.ReservationStatus
	err := q.QueryRow(ctx, `SELECT status FROM reservations WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check reservation %s: %w", id, err)
	}
	return fmt.Errorf("reservation %s is %s, expected %s: %w", id, status, expected, ErrConflict)
}
