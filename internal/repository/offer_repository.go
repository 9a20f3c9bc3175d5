package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Eco-nexion/econexion/internal/models"
)

var ErrOfferNotFound = errors.New("offer not found")

type OfferRepository struct {
	pool *pgxpool.Pool
}

func NewOfferRepository(pool *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{pool: pool}
}

const offerColumns = `id, post_id, user_id, amount, message, status, created_at, updated_at`

func (r *OfferRepository) Create(ctx context.Context, offer models.Offer) error {
	const query = `
		INSERT INTO offers (
			id, post_id, user_id, amount, message, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		offer.ID,
		offer.PostID,
		offer.UserID,
		offer.Amount,
		offer.Message,
		offer.Status,
	)
	return err
}

// UpdateStatus moves an offer out of its current status. The WHERE clause
// re-checks the expected current status so a concurrent decision loses cleanly.
func (r *OfferRepository) UpdateStatus(ctx context.Context, id string, from, to models.OfferStatus) error {
	const query = `
		UPDATE offers SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	cmd, err := r.pool.Exec(ctx, query, id, from, to)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepository) UpdateTerms(ctx context.Context, id string, amount float64, message *string) error {
	const query = `
		UPDATE offers SET amount = $2, message = $3, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, amount, message)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM offers WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// ExpirePending rejects pending offers older than the given age. Run by the
// worker's hourly sweep; PENDING to REJECTED is a legal transition so readers
// see an ordinary rejection.
func (r *OfferRepository) ExpirePending(ctx context.Context, days int) (int64, error) {
	const query = `
		UPDATE offers SET status = $1, updated_at = NOW()
		WHERE status = $2 AND created_at < NOW() - ($3 || ' days')::interval
	`
	cmd, err := r.pool.Exec(ctx, query, models.OfferStatusRejected, models.OfferStatusPending, days)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *OfferRepository) DeleteByPost(ctx context.Context, postID string) error {
	const query = `DELETE FROM offers WHERE post_id = $1`
	_, err := r.pool.Exec(ctx, query, postID)
	return err
}

func (r *OfferRepository) GetByID(ctx context.Context, id string) (models.Offer, error) {
	const query = `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	offer, err := scanOffer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Offer{}, ErrOfferNotFound
		}
		return models.Offer{}, err
	}
	return offer, nil
}

func (r *OfferRepository) ListBySender(ctx context.Context, userID string) ([]models.Offer, error) {
	const query = `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOffers(rows)
}

// ListReceived returns offers made against the given generator's posts,
// limited to the statuses the dashboard shows.
func (r *OfferRepository) ListReceived(ctx context.Context, ownerID string, statuses []models.OfferStatus) ([]models.Offer, error) {
	const query = `
		SELECT o.id, o.post_id, o.user_id, o.amount, o.message, o.status, o.created_at, o.updated_at
		FROM offers o
		JOIN posts p ON p.id = o.post_id
		WHERE p.user_id = $1 AND o.status = ANY($2)
		ORDER BY o.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, ownerID, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOffers(rows)
}

func (r *OfferRepository) ListByPost(ctx context.Context, postID string) ([]models.Offer, error) {
	const query = `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE post_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOffers(rows)
}

func scanOffer(row pgx.Row) (models.Offer, error) {
	var offer models.Offer
	err := row.Scan(
		&offer.ID,
		&offer.PostID,
		&offer.UserID,
		&offer.Amount,
		&offer.Message,
		&offer.Status,
		&offer.CreatedAt,
		&offer.UpdatedAt,
	)
	return offer, err
}

func collectOffers(rows pgx.Rows) ([]models.Offer, error) {
	var offers []models.Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}
