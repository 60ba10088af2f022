package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zopsm/internal/domain"
)

type projectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UserLimit   int    `json:"userLimit"`
	UserUsed    int    `json:"userUsed"`
}

func projectResponseFromEntity(p domain.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UserLimit:   p.UserLimit,
		UserUsed:    p.UserUsed,
	}
}

type projectRequest struct {
	Name        string `json:"name" binding:"required,max=70"`
	Description string `json:"description" binding:"max=200"`
}

func (s *Server) handleCreateProject(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid project payload")
		return
	}
	project, err := s.projects.Create(c.Request.Context(), principal.AccountID, req.Name, req.Description)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projectResponseFromEntity(project))
}

func (s *Server) handleListProjects(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	projects, err := s.projects.List(c.Request.Context(), principal.AccountID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectResponseFromEntity(p))
	}
	c.JSON(http.StatusOK, gin.H{"projects": out})
}

func (s *Server) handleGetProject(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	project, err := s.projects.Get(c.Request.Context(), principal.AccountID, c.Param("project_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectResponseFromEntity(project))
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid project payload")
		return
	}
	err := s.projects.Update(c.Request.Context(), domain.Project{
		ID:          c.Param("project_id"),
		AccountID:   principal.AccountID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	if err := s.projects.Delete(c.Request.Context(), principal.AccountID, c.Param("project_id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
