package client

import (
	"context"
	"net/http"
	"time"
)

// Post mirrors the backend's post representation.
type Post struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	WasteType   string    `json:"wasteType"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreatePostInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	WasteType   string  `json:"wasteType"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.do(ctx, http.MethodGet, "/api/v1/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) Post(ctx context.Context, id string) (Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodGet, "/api/v1/posts/"+id, nil, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

func (c *Client) MyPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.do(ctx, http.MethodGet, "/api/v1/posts/my-posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost validates the input locally before calling the backend.
func (c *Client) CreatePost(ctx context.Context, session Session, input CreatePostInput) (Post, error) {
	if err := CanCreatePost(session, input); err != nil {
		return Post{}, err
	}

	var post Post
	if err := c.do(ctx, http.MethodPost, "/api/v1/posts", input, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

func (c *Client) UpdatePost(ctx context.Context, session Session, post Post, input CreatePostInput) (Post, error) {
	if err := CanDeletePost(session, post); err != nil {
		return Post{}, err
	}
	if err := CanCreatePost(session, input); err != nil {
		return Post{}, err
	}

	var updated Post
	if err := c.do(ctx, http.MethodPut, "/api/v1/posts/"+post.ID, input, &updated); err != nil {
		return Post{}, err
	}
	return updated, nil
}

// DeletePost removes a post. Offers against it are invalidated server-side;
// callers must re-fetch their offer lists rather than trust local copies.
func (c *Client) DeletePost(ctx context.Context, session Session, post Post) error {
	if err := CanDeletePost(session, post); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/posts/"+post.ID, nil, nil)
}
