// Package http is the gin transport. The authorization gate runs as the
// first stage of every route's pipeline; handlers stay thin and map usecase
// errors through a single writer.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zopsm/internal/auth"
	"zopsm/internal/auth/policy"
	"zopsm/internal/config"
	"zopsm/internal/usecase"
)

type Server struct {
	cfg    config.Config
	r      *gin.Engine
	logger *zap.Logger

	gate     *auth.Gate
	registry *policy.Registry

	registration *usecase.RegistrationService
	authSvc      *usecase.AuthService
	users        *usecase.UserService
	projects     *usecase.ProjectService
	services     *usecase.ServiceService
	consumers    *usecase.ConsumerService
}

type ServerDeps struct {
	Registry     *policy.Registry
	Gate         *auth.Gate
	Registration *usecase.RegistrationService
	Auth         *usecase.AuthService
	Users        *usecase.UserService
	Projects     *usecase.ProjectService
	Services     *usecase.ServiceService
	Consumers    *usecase.ConsumerService
	Logger       *zap.Logger
}

func NewServer(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:          cfg,
		r:            r,
		logger:       logger,
		gate:         deps.Gate,
		registry:     deps.Registry,
		registration: deps.Registration,
		authSvc:      deps.Auth,
		users:        deps.Users,
		projects:     deps.Projects,
		services:     deps.Services,
		consumers:    deps.Consumers,
	}
	s.registerPolicies()
	s.routes()
	return s
}

// registerPolicies builds the access table. Every exposed resource method is
// declared here; a method missing from this table is rejected by the gate.
// The role sets are carried from the platform's access matrix.
func (s *Server) registerPolicies() {
	reg := s.registry

	reg.Register(resourceRegister, http.MethodPost, roleAnonym)
	reg.Register(resourceRegisterSingle, http.MethodPut, roleAnonym)
	reg.Register(resourceApproveCode, http.MethodPost, roleAnonym)
	reg.Register(resourceLogin, http.MethodPost, roleAnonym)
	reg.Register(resourceForgotPassword, http.MethodPost, roleAnonym)
	reg.Register(resourceResetPassword, http.MethodPost, roleAnonym)

	reg.Register(resourceLogout, http.MethodDelete, roleAdmin, roleDeveloper, roleBilling)
	reg.Register(resourceLogoutAll, http.MethodDelete, roleAdmin, roleDeveloper, roleBilling)
	reg.Register(resourceMe, http.MethodGet, roleAdmin, roleDeveloper, roleBilling)

	reg.Register(resourceAdmin, http.MethodGet, roleAdmin)
	reg.Register(resourceAdmin, http.MethodPost, roleAdmin)
	reg.Register(resourceAdminSingle, http.MethodGet, roleAdmin)
	reg.Register(resourceAdminSingle, http.MethodPut, roleAdmin)
	reg.Register(resourceAdminSingle, http.MethodDelete, roleAdmin)

	reg.Register(resourceDeveloper, http.MethodGet, roleAdmin)
	reg.Register(resourceDeveloper, http.MethodPost, roleAdmin)
	reg.Register(resourceDeveloperSingle, http.MethodGet, roleAdmin)
	reg.Register(resourceDeveloperSingle, http.MethodPut, roleAdmin)
	reg.Register(resourceDeveloperSingle, http.MethodDelete, roleAdmin)

	reg.Register(resourceProject, http.MethodGet, roleAdmin, roleDeveloper)
	reg.Register(resourceProject, http.MethodPost, roleAdmin, roleDeveloper)
	reg.Register(resourceProjectSingle, http.MethodGet, roleAdmin, roleDeveloper)
	reg.Register(resourceProjectSingle, http.MethodPut, roleAdmin, roleDeveloper)
	reg.Register(resourceProjectSingle, http.MethodDelete, roleAdmin, roleDeveloper)

	reg.Register(resourceServiceCatalog, http.MethodGet, roleAdmin, roleDeveloper)

	reg.Register(resourceService, http.MethodGet, roleAdmin, roleDeveloper)
	reg.Register(resourceService, http.MethodPost, roleAdmin, roleDeveloper)
	reg.Register(resourceServiceSingle, http.MethodGet, roleAdmin, roleDeveloper)
	reg.Register(resourceServiceSingle, http.MethodDelete, roleAdmin, roleDeveloper)
	reg.Register(resourceServiceItem, http.MethodPost, roleAdmin, roleDeveloper)

	reg.Register(resourceConsumer, http.MethodPost, roleAdmin, roleDeveloper)
	reg.Register(resourceProjectConsumer, http.MethodPost, roleAdmin, roleDeveloper)
	reg.Register(resourceProjectConsumerSingle, http.MethodDelete, roleAdmin, roleDeveloper)
	reg.Register(resourceConsumerToken, http.MethodPost, roleAdmin, roleDeveloper)
	reg.Register(resourceConsumerTokenSingle, http.MethodDelete, roleAdmin, roleDeveloper)
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.r.Group("/api/v1")
	{
		// CORS preflight. The OPTIONS method tree holds only this route, so
		// the catch-all path cannot conflict; the gate admits preflights
		// before any token work.
		v1.OPTIONS("/*path", s.authorize(resourcePreflight), s.handlePreflight)

		v1.POST("/register", s.authorize(resourceRegister), s.handleRegister)
		v1.PUT("/register", s.authorize(resourceRegisterSingle), s.handleApprove)
		v1.POST("/approve-code", s.authorize(resourceApproveCode), s.handleResendApproveCode)
		v1.POST("/login", s.authorize(resourceLogin), s.handleLogin)
		v1.DELETE("/logout", s.authorize(resourceLogout), s.handleLogout)
		v1.DELETE("/logout-all", s.authorize(resourceLogoutAll), s.handleLogoutAll)
		v1.POST("/forgot-password", s.authorize(resourceForgotPassword), s.handleForgotPassword)
		v1.POST("/reset-password", s.authorize(resourceResetPassword), s.handleResetPassword)
		v1.GET("/me", s.authorize(resourceMe), s.handleMe)

		v1.GET("/admins", s.authorize(resourceAdmin), s.listUsersHandler(resourceAdmin))
		v1.POST("/admins", s.authorize(resourceAdmin), s.createUserHandler(resourceAdmin))
		v1.GET("/admins/:user_id", s.authorize(resourceAdminSingle), s.handleGetUser)
		v1.PUT("/admins/:user_id", s.authorize(resourceAdminSingle), s.handleUpdateUser)
		v1.DELETE("/admins/:user_id", s.authorize(resourceAdminSingle), s.handleDeleteUser)

		v1.GET("/developers", s.authorize(resourceDeveloper), s.listUsersHandler(resourceDeveloper))
		v1.POST("/developers", s.authorize(resourceDeveloper), s.createUserHandler(resourceDeveloper))
		v1.GET("/developers/:user_id", s.authorize(resourceDeveloperSingle), s.handleGetUser)
		v1.PUT("/developers/:user_id", s.authorize(resourceDeveloperSingle), s.handleUpdateUser)
		v1.DELETE("/developers/:user_id", s.authorize(resourceDeveloperSingle), s.handleDeleteUser)

		v1.GET("/projects", s.authorize(resourceProject), s.handleListProjects)
		v1.POST("/projects", s.authorize(resourceProject), s.handleCreateProject)
		v1.GET("/projects/:project_id", s.authorize(resourceProjectSingle), s.handleGetProject)
		v1.PUT("/projects/:project_id", s.authorize(resourceProjectSingle), s.handleUpdateProject)
		v1.DELETE("/projects/:project_id", s.authorize(resourceProjectSingle), s.handleDeleteProject)

		v1.GET("/service-catalogs", s.authorize(resourceServiceCatalog), s.handleListServiceCatalogs)

		v1.GET("/projects/:project_id/services", s.authorize(resourceService), s.handleListServices)
		v1.POST("/projects/:project_id/services", s.authorize(resourceService), s.handleProvisionService)
		v1.GET("/projects/:project_id/services/:service_catalog_code", s.authorize(resourceServiceSingle), s.handleGetService)
		v1.DELETE("/projects/:project_id/services/:service_catalog_code", s.authorize(resourceServiceSingle), s.handleDeleteService)
		v1.POST("/projects/:project_id/services/:service_catalog_code/items", s.authorize(resourceServiceItem), s.handleConsumeItem)

		v1.POST("/consumers", s.authorize(resourceConsumer), s.handleCreateConsumer)
		v1.POST("/projects/:project_id/consumers", s.authorize(resourceProjectConsumer), s.handleAttachConsumer)
		v1.DELETE("/projects/:project_id/consumers/:consumer_id", s.authorize(resourceProjectConsumerSingle), s.handleDetachConsumer)
		v1.POST("/projects/:project_id/services/:service_catalog_code/consumers/:consumer_id/tokens",
			s.authorize(resourceConsumerToken), s.handleGrantConsumerToken)
		v1.DELETE("/projects/:project_id/services/:service_catalog_code/tokens/:token",
			s.authorize(resourceConsumerTokenSingle), s.handleRevokeConsumerToken)
	}
}

func (s *Server) handlePreflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}

// Handler exposes the engine to tests.
func (s *Server) Handler() http.Handler {
	return s.r
}
