package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skycover/skycover/internal/server/models"
)

func (s *Server) policyTemplates(c *gin.Context) {
	templates, err := s.policies.Templates(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "failed to fetch policy templates", "error", err.Error())
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, templates)
}

func (s *Server) createPolicy(c *gin.Context) {
	user := currentUser(c)

	var req models.CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	policy, err := s.policies.Create(c.Request.Context(), user, &req)
	if err != nil {
		s.logger.Warn(c.Request.Context(), "policy creation failed", "email", user.Email, "error", err.Error())
		respondError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "policy created", "policy_id", policy.ID, "email", user.Email)
	c.JSON(http.StatusCreated, policy)
}

func (s *Server) listPolicies(c *gin.Context) {
	user := currentUser(c)

	policies, err := s.policies.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		s.logger.Error(c.Request.Context(), "failed to fetch policies", "email", user.Email, "error", err.Error())
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, policies)
}
