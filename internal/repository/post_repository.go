package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Eco-nexion/econexion/internal/models"
)

var ErrPostNotFound = errors.New("post not found")

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

const postColumns = `id, user_id, title, description, waste_type, quantity, unit, price, location, image_url, created_at, updated_at`

func (r *PostRepository) Create(ctx context.Context, post models.Post) error {
	const query = `
		INSERT INTO posts (
			id, user_id, title, description, waste_type, quantity, unit, price, location, image_url, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.UserID,
		post.Title,
		post.Description,
		post.WasteType,
		post.Quantity,
		post.Unit,
		post.Price,
		post.Location,
		post.ImageURL,
	)
	return err
}

func (r *PostRepository) Update(ctx context.Context, post models.Post) error {
	const query = `
		UPDATE posts
		SET title = $2, description = $3, waste_type = $4, quantity = $5, unit = $6,
		    price = $7, location = $8, image_url = $9, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Description,
		post.WasteType,
		post.Quantity,
		post.Unit,
		post.Price,
		post.Location,
		post.ImageURL,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) UpdateImageURL(ctx context.Context, id string, imageURL string) error {
	const query = `UPDATE posts SET image_url = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, imageURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM posts WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (models.Post, error) {
	const query = `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, ErrPostNotFound
		}
		return models.Post{}, err
	}
	return post, nil
}

func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPosts(rows)
}

func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPosts(rows)
}

func scanPost(row pgx.Row) (models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Description,
		&post.WasteType,
		&post.Quantity,
		&post.Unit,
		&post.Price,
		&post.Location,
		&post.ImageURL,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	return post, err
}

func collectPosts(rows pgx.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
