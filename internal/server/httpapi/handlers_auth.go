package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skycover/skycover/internal/server/models"
)

func (s *Server) createUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.logger.Warn(c.Request.Context(), "user registration failed", "email", req.Email, "error", err.Error())
		respondError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "user created", "email", user.Email)
	c.JSON(http.StatusOK, user)
}

func (s *Server) signIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Warn(c.Request.Context(), "sign-in failed", "email", req.Email)
		respondError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "sign-in successful", "email", req.Email)
	c.JSON(http.StatusOK, models.SignInResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
	})
}

func (s *Server) tokenValid(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, models.UserResponse{Email: user.Email, Name: user.Name})
}

func (s *Server) updateWallet(c *gin.Context) {
	user := currentUser(c)

	var req models.UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := s.users.BindWallet(c.Request.Context(), user.ID, req.WalletAddress)
	if err != nil {
		s.logger.Warn(c.Request.Context(), "wallet update failed", "email", user.Email, "error", err.Error())
		respondError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "wallet address updated", "email", updated.Email)
	c.JSON(http.StatusOK, models.UserResponse{Email: updated.Email, Name: updated.Name})
}
