package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Eco-nexion/econexion/internal/models"
	"github.com/Eco-nexion/econexion/internal/service"
)

type offerRequest struct {
	PostID  string  `json:"postId" binding:"required"`
	Amount  float64 `json:"amount" binding:"required,gt=0"`
	Message *string `json:"message"`
}

type offerUpdateRequest struct {
	Amount  float64 `json:"amount" binding:"required,gt=0"`
	Message *string `json:"message"`
}

type offerResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Amount    float64   `json:"amount"`
	Message   *string   `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toOfferResponse(offer models.Offer) offerResponse {
	return offerResponse{
		ID:        offer.ID,
		PostID:    offer.PostID,
		UserID:    offer.UserID,
		Amount:    offer.Amount,
		Message:   offer.Message,
		Status:    string(offer.Status),
		CreatedAt: offer.CreatedAt,
		UpdatedAt: offer.UpdatedAt,
	}
}

func toOfferResponses(offers []models.Offer) []offerResponse {
	resp := make([]offerResponse, 0, len(offers))
	for _, offer := range offers {
		resp = append(resp, toOfferResponse(offer))
	}
	return resp
}

func (h HandlerSet) CreateOffer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req offerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offer, err := h.offerService.Create(c.Request.Context(), user, service.OfferInput{
		PostID:  req.PostID,
		Amount:  req.Amount,
		Message: req.Message,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOfferResponse(offer))
}

func (h HandlerSet) UpdateOffer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req offerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offer, err := h.offerService.UpdateTerms(c.Request.Context(), user, c.Param("id"), req.Amount, req.Message)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOfferResponse(offer))
}

func (h HandlerSet) DeleteOffer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.offerService.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		h.serviceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) GetOffer(c *gin.Context) {
	offer, err := h.offerService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOfferResponse(offer))
}

func (h HandlerSet) AcceptOffer(c *gin.Context) {
	h.decideOffer(c, h.offerService.Accept)
}

func (h HandlerSet) RejectOffer(c *gin.Context) {
	h.decideOffer(c, h.offerService.Reject)
}

func (h HandlerSet) CompleteOffer(c *gin.Context) {
	h.decideOffer(c, h.offerService.Complete)
}

func (h HandlerSet) decideOffer(c *gin.Context, decide func(ctx context.Context, actor models.User, offerID string) (models.Offer, error)) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	offer, err := decide(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOfferResponse(offer))
}

func (h HandlerSet) ListReceivedOffers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	offers, err := h.offerService.ListReceived(c.Request.Context(), user)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOfferResponses(offers))
}

func (h HandlerSet) ListSentOffers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	offers, err := h.offerService.ListSent(c.Request.Context(), user)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOfferResponses(offers))
}

func (h HandlerSet) ListPostOffers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	post, err := h.postService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if post.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	offers, err := h.offerService.ListByPost(c.Request.Context(), post.ID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOfferResponses(offers))
}
