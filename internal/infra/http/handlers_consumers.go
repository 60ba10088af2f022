package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleCreateConsumer(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	consumer, err := s.consumers.Create(c.Request.Context(), principal.AccountID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"consumerId": consumer.ID})
}

type attachConsumerRequest struct {
	ConsumerID string `json:"consumerId" binding:"required"`
}

func (s *Server) handleAttachConsumer(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	var req attachConsumerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid attachment payload")
		return
	}
	err := s.consumers.Attach(c.Request.Context(), principal.AccountID, c.Param("project_id"), req.ConsumerID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"consumerId": req.ConsumerID})
}

func (s *Server) handleDetachConsumer(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	err := s.consumers.Detach(c.Request.Context(), principal.AccountID, c.Param("project_id"), c.Param("consumer_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGrantConsumerToken(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	tokenValue, err := s.consumers.GrantToken(c.Request.Context(),
		principal.AccountID, c.Param("project_id"), c.Param("service_catalog_code"), c.Param("consumer_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": tokenValue})
}

func (s *Server) handleRevokeConsumerToken(c *gin.Context) {
	err := s.consumers.RevokeToken(c.Request.Context(),
		c.Param("project_id"), c.Param("service_catalog_code"), c.Param("token"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
