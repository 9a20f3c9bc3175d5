package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Eco-nexion/econexion/internal/config"
	"github.com/Eco-nexion/econexion/internal/events"
	"github.com/Eco-nexion/econexion/internal/middleware"
	"github.com/Eco-nexion/econexion/internal/models"
	"github.com/Eco-nexion/econexion/internal/repository"
	"github.com/Eco-nexion/econexion/internal/service"
	"github.com/Eco-nexion/econexion/internal/storage"
)

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	authService   *service.AuthService
	postService   *service.PostService
	offerService  *service.OfferService
	db            *pgxpool.Pool
	cache         *redis.Client
	store         *storage.ObjectStore
	users         *repository.UserRepository
	notifications *repository.NotificationRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	publisher := events.NewPublisher(cache, cfg.Events.Stream)

	auth := service.NewAuthService(userRepo, cfg, log)
	posts := service.NewPostService(postRepo, offerRepo, log)
	offers := service.NewOfferService(offerRepo, postRepo, publisher, log)

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		authService:   auth,
		postService:   posts,
		offerService:  offers,
		db:            db,
		cache:         cache,
		store:         store,
		users:         userRepo,
		notifications: notificationRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.Login)
		auth.POST("/logout", middleware.Auth(h.cfg, h.users), h.Logout)
		auth.GET("/me", middleware.Auth(h.cfg, h.users), h.Me)

		posts := v1.Group("/posts")
		posts.Use(middleware.Auth(h.cfg, h.users))
		posts.GET("", h.ListPosts)
		posts.GET("/my-posts", middleware.RequireRoles(models.RoleGenerator), h.ListMyPosts)
		posts.GET("/:id", h.GetPost)
		posts.POST("", middleware.RequireRoles(models.RoleGenerator), h.CreatePost)
		posts.PUT("/:id", middleware.RequireRoles(models.RoleGenerator), h.UpdatePost)
		posts.DELETE("/:id", middleware.RequireRoles(models.RoleGenerator), h.DeletePost)
		posts.POST("/:id/image", middleware.RequireRoles(models.RoleGenerator), h.UploadPostImage)
		posts.GET("/:id/offers", h.ListPostOffers)

		offers := v1.Group("/offers")
		offers.Use(middleware.Auth(h.cfg, h.users))
		offers.GET("/received", middleware.RequireRoles(models.RoleGenerator), h.ListReceivedOffers)
		offers.GET("/sent", middleware.RequireRoles(models.RoleRecycler), h.ListSentOffers)
		offers.GET("/:id", h.GetOffer)
		offers.POST("", middleware.RequireRoles(models.RoleRecycler), h.CreateOffer)
		offers.PUT("/:id", middleware.RequireRoles(models.RoleRecycler), h.UpdateOffer)
		offers.DELETE("/:id", middleware.RequireRoles(models.RoleRecycler), h.DeleteOffer)
		offers.POST("/:id/accept", middleware.RequireRoles(models.RoleGenerator), h.AcceptOffer)
		offers.POST("/:id/reject", middleware.RequireRoles(models.RoleGenerator), h.RejectOffer)
		offers.POST("/:id/complete", h.CompleteOffer)

		notifications := v1.Group("/notifications")
		notifications.Use(middleware.Auth(h.cfg, h.users))
		notifications.GET("", h.ListNotifications)
		notifications.POST("/:id/read", h.MarkNotificationRead)
	}
}

func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("current_user")
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_user"})
		return models.User{}, false
	}
	return user, true
}

// serviceError maps service sentinels onto HTTP statuses. Anything the client
// should have blocked locally comes back as 4xx with a plain message.
func (h HandlerSet) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrPostNotFound),
		errors.Is(err, repository.ErrOfferNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrNotPostOwner),
		errors.Is(err, service.ErrNotOfferOwner),
		errors.Is(err, service.ErrNotGenerator),
		errors.Is(err, service.ErrNotRecycler),
		errors.Is(err, service.ErrOwnPost):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPost),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidRole):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
	}
}
