package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Eco-nexion/econexion/internal/models"
	"github.com/Eco-nexion/econexion/internal/service"
)

type registerRequest struct {
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required,min=6"`
	Email          string `json:"email" binding:"required,email"`
	EnterpriseName string `json:"enterpriseName" binding:"required"`
	Position       string `json:"position"`
	Rol            string `json:"rol" binding:"required"`
}

type userResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	EnterpriseName string `json:"enterpriseName"`
	Rol            string `json:"rol"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		EnterpriseName: user.EnterpriseName,
		Rol:            string(user.Role),
	}
}

// RegisterUser creates the account without issuing a token; the client logs
// in separately afterwards.
func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		EnterpriseName: req.EnterpriseName,
		Position:       req.Position,
		Role:           req.Rol,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: result.Token})
}

// Logout exists for API symmetry. The access token is stateless, so there is
// nothing to revoke server-side; clients drop their stored session.
func (h HandlerSet) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
