package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zopsm/internal/domain"
	"zopsm/internal/usecase"
)

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func userResponseFromEntity(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.String(),
	}
}

// managedRole maps the resource being served to the staff role it manages.
func managedRole(resource string) domain.Role {
	if resource == resourceDeveloper {
		return domain.RoleDeveloper
	}
	return domain.RoleAdmin
}

type createUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s *Server) createUserHandler(resource string) gin.HandlerFunc {
	role := managedRole(resource)
	return func(c *gin.Context) {
		principal, ok := getPrincipal(c)
		if !ok {
			s.badRequest(c, "no session")
			return
		}
		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.badRequest(c, "invalid user payload")
			return
		}
		user, err := s.users.Create(c.Request.Context(), principal.AccountID, usecase.CreateUserInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      role,
		})
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, userResponseFromEntity(user))
	}
}

func (s *Server) listUsersHandler(resource string) gin.HandlerFunc {
	role := managedRole(resource)
	return func(c *gin.Context) {
		principal, ok := getPrincipal(c)
		if !ok {
			s.badRequest(c, "no session")
			return
		}
		users, err := s.users.ListByRole(c.Request.Context(), principal.AccountID, role)
		if err != nil {
			s.writeError(c, err)
			return
		}
		out := make([]userResponse, 0, len(users))
		for _, u := range users {
			out = append(out, userResponseFromEntity(u))
		}
		c.JSON(http.StatusOK, gin.H{"users": out})
	}
}

func (s *Server) handleGetUser(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	user, err := s.users.Get(c.Request.Context(), principal.AccountID, c.Param("user_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponseFromEntity(user))
}

type updateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid user payload")
		return
	}
	err := s.users.Update(c.Request.Context(), domain.User{
		ID:        c.Param("user_id"),
		AccountID: principal.AccountID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	if err := s.users.Delete(c.Request.Context(), principal.AccountID, c.Param("user_id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
