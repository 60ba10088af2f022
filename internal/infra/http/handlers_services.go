package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zopsm/internal/domain"
)

type serviceResponse struct {
	ID                 string `json:"id"`
	ServiceCatalogCode string `json:"serviceCatalogCode"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	ItemLimit          int    `json:"itemLimit"`
	ItemUsed           int    `json:"itemUsed"`
}

func serviceResponseFromEntity(s domain.Service) serviceResponse {
	return serviceResponse{
		ID:                 s.ID,
		ServiceCatalogCode: s.ServiceCatalogCode,
		Name:               s.Name,
		Description:        s.Description,
		ItemLimit:          s.ItemLimit,
		ItemUsed:           s.ItemUsed,
	}
}

type serviceCatalogResponse struct {
	CodeName    string `json:"codeName"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleListServiceCatalogs(c *gin.Context) {
	catalogs, err := s.services.ListCatalog(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]serviceCatalogResponse, 0, len(catalogs))
	for _, entry := range catalogs {
		out = append(out, serviceCatalogResponse{
			CodeName:    entry.CodeName,
			Name:        entry.Name,
			Description: entry.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"serviceCatalogs": out})
}

type provisionServiceRequest struct {
	ServiceCatalogCode string `json:"serviceCatalogCode" binding:"required,max=32"`
	Name               string `json:"name" binding:"max=70"`
	Description        string `json:"description" binding:"max=200"`
}

func (s *Server) handleProvisionService(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	var req provisionServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid service payload")
		return
	}
	service, err := s.services.Provision(c.Request.Context(),
		principal.AccountID, c.Param("project_id"), req.ServiceCatalogCode, req.Name, req.Description)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serviceResponseFromEntity(service))
}

func (s *Server) handleListServices(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	services, err := s.services.List(c.Request.Context(), principal.AccountID, c.Param("project_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]serviceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, serviceResponseFromEntity(svc))
	}
	c.JSON(http.StatusOK, gin.H{"services": out})
}

func (s *Server) handleGetService(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	service, err := s.services.Get(c.Request.Context(),
		principal.AccountID, c.Param("project_id"), c.Param("service_catalog_code"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, serviceResponseFromEntity(service))
}

func (s *Server) handleDeleteService(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	err := s.services.Delete(c.Request.Context(),
		principal.AccountID, c.Param("project_id"), c.Param("service_catalog_code"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleConsumeItem(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		s.badRequest(c, "no session")
		return
	}
	err := s.services.ConsumeItem(c.Request.Context(),
		principal.AccountID, c.Param("project_id"), c.Param("service_catalog_code"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
