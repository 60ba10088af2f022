package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zopsm/internal/usecase"
)

type registerRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	OrganizationName string `json:"organizationName"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid registration payload")
		return
	}
	out, err := s.registration.Register(c.Request.Context(), usecase.RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"registrationId": out.AccountID,
	})
}

type approveRequest struct {
	Email       string `json:"email" binding:"required,email"`
	ApproveCode string `json:"approveCode" binding:"required"`
}

func (s *Server) handleApprove(c *gin.Context) {
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid approve payload")
		return
	}
	authToken, err := s.registration.Approve(c.Request.Context(), req.Email, req.ApproveCode)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": authToken})
}

type resendApproveCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (s *Server) handleResendApproveCode(c *gin.Context) {
	var req resendApproveCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid payload")
		return
	}
	if err := s.registration.ResendApproveCode(c.Request.Context(), req.Email); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid login payload")
		return
	}
	authToken, err := s.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": authToken})
}

func (s *Server) handleLogout(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	if err := s.authSvc.Logout(c.Request.Context(), principal, c.GetHeader("Authorization")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleLogoutAll(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	if err := s.authSvc.LogoutEverywhere(c.Request.Context(), principal); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (s *Server) handleForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid payload")
		return
	}
	if err := s.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func (s *Server) handleResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid payload")
		return
	}
	if err := s.authSvc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMe(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	user, err := s.users.Get(c.Request.Context(), principal.AccountID, principal.Subject)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponseFromEntity(user))
}
