package handlers

import (
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Eco-nexion/econexion/internal/models"
	"github.com/Eco-nexion/econexion/internal/service"
)

type postRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	WasteType   string  `json:"wasteType" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	Unit        string  `json:"unit"`
	Price       float64 `json:"price" binding:"gte=0"`
	Location    string  `json:"location" binding:"required"`
	ImageURL    *string `json:"imageUrl"`
}

type postResponse struct {
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

func toPostResponse(post models.Post) postResponse {
	return postResponse{
		ID:          post.ID,
		UserID:      post.UserID,
		Title:       post.Title,
		Description: post.Description,
		WasteType:   post.WasteType,
		Quantity:    post.Quantity,
		Unit:        post.Unit,
		Price:       post.Price,
		Location:    post.Location,
		ImageURL:    post.ImageURL,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

func toPostResponses(posts []models.Post) []postResponse {
	resp := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, toPostResponse(post))
	}
	return resp
}

func (h HandlerSet) CreatePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postService.Create(c.Request.Context(), user, service.PostInput{
		Title:       req.Title,
		Description: req.Description,
		WasteType:   req.WasteType,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Price:       req.Price,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPostResponse(post))
}

func (h HandlerSet) UpdatePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postService.Update(c.Request.Context(), user, c.Param("id"), service.PostInput{
		Title:       req.Title,
		Description: req.Description,
		WasteType:   req.WasteType,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Price:       req.Price,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponse(post))
}

func (h HandlerSet) DeletePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		h.serviceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) GetPost(c *gin.Context) {
	post, err := h.postService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(post))
}

func (h HandlerSet) ListPosts(c *gin.Context) {
	limit := 50
	offset := 0
	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}

	posts, err := h.postService.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponses(posts))
}

func (h HandlerSet) ListMyPosts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	posts, err := h.postService.ListMine(c.Request.Context(), user)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponses(posts))
}

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

func (h HandlerSet) UploadPostImage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// Ownership check comes before the upload; the object key is derived from
	// the post id, so a non-owner write would clobber the owner's image.
	postID := c.Param("id")
	post, err := h.postService.Get(c.Request.Context(), postID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if post.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage unavailable"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		// Fall back on the filename when the part has no content type.
		switch strings.ToLower(path.Ext(header.Filename)) {
		case ".jpg", ".jpeg":
			contentType, ext = "image/jpeg", "jpg"
		case ".png":
			contentType, ext = "image/png", "png"
		case ".webp":
			contentType, ext = "image/webp", "webp"
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
			return
		}
	}

	url, err := h.store.PutPostImage(c.Request.Context(), postID, ext, file, header.Size, contentType)
	if err != nil {
		h.log.Error().Err(err).Str("post_id", postID).Msg("image upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	if err := h.postService.SetImage(c.Request.Context(), user, postID, url); err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}
