package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zopsm/internal/auth"
	"zopsm/internal/domain"
)

type errorResponse struct {
	Error          string   `json:"error"`
	AllowedMethods []string `json:"allowed_methods,omitempty"`
}

// writeError maps the domain taxonomy onto status codes. Rejection bodies
// are stable and role-agnostic: a missing, expired, revoked or
// role-mismatched token all read identically, and method-not-allowed
// enumerates nothing. Infrastructure detail is logged here and never sent.
func (s *Server) writeError(c *gin.Context, err error) {
	if gateErr, ok := auth.IsGateError(err); ok {
		s.logger.Debug("gate rejected request",
			zap.String("code", gateErr.Code),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))
	}
	switch {
	case errors.Is(err, domain.ErrMethodNotAllowed):
		c.JSON(http.StatusMethodNotAllowed, errorResponse{
			Error:          "method not allowed for this resource",
			AllowedMethods: []string{},
		})
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "you can not access this resource"})
	case errors.Is(err, domain.ErrLimitExceeded):
		c.JSON(http.StatusPaymentRequired, errorResponse{Error: "please check your plan limits"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse{Error: "conflict"})
	default:
		s.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
