package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Eco-nexion/econexion/internal/ids"
	"github.com/Eco-nexion/econexion/internal/models"
)

var (
	ErrNotGenerator = errors.New("only generators can publish posts")
	ErrNotOwner     = errors.New("not the owner")
	ErrInvalidPost  = errors.New("invalid post data")
)

type PostStore interface {
	Create(ctx context.Context, post models.Post) error
	Update(ctx context.Context, post models.Post) error
	UpdateImageURL(ctx context.Context, id string, imageURL string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (models.Post, error)
	List(ctx context.Context, limit, offset int) ([]models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)
}

type OfferStore interface {
	Create(ctx context.Context, offer models.Offer) error
	UpdateStatus(ctx context.Context, id string, from, to models.OfferStatus) error
	UpdateTerms(ctx context.Context, id string, amount float64, message *string) error
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) error
	GetByID(ctx context.Context, id string) (models.Offer, error)
	ListBySender(ctx context.Context, userID string) ([]models.Offer, error)
	ListReceived(ctx context.Context, ownerID string, statuses []models.OfferStatus) ([]models.Offer, error)
	ListByPost(ctx context.Context, postID string) ([]models.Offer, error)
}

type PostService struct {
	posts  PostStore
	offers OfferStore
	log    zerolog.Logger
}

func NewPostService(posts PostStore, offers OfferStore, log zerolog.Logger) *PostService {
	return &PostService{posts: posts, offers: offers, log: log}
}

type PostInput struct {
	Title       string
	Description string
	WasteType   string
	Quantity    float64
	Unit        string
	Price       float64
	Location    string
	ImageURL    *string
}

func (in PostInput) validate() error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.WasteType) == "" ||
		strings.TrimSpace(in.Location) == "" {
		return ErrInvalidPost
	}
	if in.Quantity <= 0 || in.Price < 0 {
		return ErrInvalidPost
	}
	return nil
}

func (s *PostService) Create(ctx context.Context, actor models.User, input PostInput) (models.Post, error) {
	if actor.Role != models.RoleGenerator {
		return models.Post{}, ErrNotGenerator
	}
	if err := input.validate(); err != nil {
		return models.Post{}, err
	}

	post := models.Post{
		ID:          ids.New(),
		UserID:      actor.ID,
		Title:       input.Title,
		Description: input.Description,
		WasteType:   input.WasteType,
		Quantity:    input.Quantity,
		Unit:        input.Unit,
		Price:       input.Price,
		Location:    input.Location,
		ImageURL:    input.ImageURL,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, actor models.User, postID string, input PostInput) (models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return models.Post{}, err
	}
	if post.UserID != actor.ID {
		return models.Post{}, ErrNotOwner
	}
	if err := input.validate(); err != nil {
		return models.Post{}, err
	}

	post.Title = input.Title
	post.Description = input.Description
	post.WasteType = input.WasteType
	post.Quantity = input.Quantity
	post.Unit = input.Unit
	post.Price = input.Price
	post.Location = input.Location
	if input.ImageURL != nil {
		post.ImageURL = input.ImageURL
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// Delete removes a post and its offers. Offers go first so a crash between the
// two statements never leaves offers pointing at a missing post.
func (s *PostService) Delete(ctx context.Context, actor models.User, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != actor.ID {
		return ErrNotOwner
	}

	if err := s.offers.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	return s.posts.Delete(ctx, postID)
}

func (s *PostService) SetImage(ctx context.Context, actor models.User, postID, imageURL string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != actor.ID {
		return ErrNotOwner
	}
	return s.posts.UpdateImageURL(ctx, postID, imageURL)
}

func (s *PostService) Get(ctx context.Context, postID string) (models.Post, error) {
	return s.posts.GetByID(ctx, postID)
}

func (s *PostService) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return s.posts.List(ctx, limit, offset)
}

func (s *PostService) ListMine(ctx context.Context, actor models.User) ([]models.Post, error) {
	return s.posts.ListByUser(ctx, actor.ID)
}
