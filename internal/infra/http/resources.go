package http

import "zopsm/internal/domain"

// Resource identifiers used by the policy table and the gate. They are part
// of the access matrix, not the URL space: renaming one silently unregisters
// its methods.
const (
	// resourcePreflight never appears in the policy table; the gate passes
	// any OPTIONS request whose (resource, method) pair is unregistered.
	resourcePreflight = "PreflightResource"

	resourceRegister       = "RegisterResource"
	resourceRegisterSingle = "RegisterSingleResource"
	resourceApproveCode    = "ApproveCodeResource"
	resourceLogin          = "LoginResource"
	resourceLogout         = "LogoutResource"
	resourceLogoutAll      = "LogoutAllResource"
	resourceForgotPassword = "ForgotPasswordResource"
	resourceResetPassword  = "ResetPasswordResource"
	resourceMe             = "MeResource"

	resourceAdmin           = "AdminResource"
	resourceAdminSingle     = "AdminSingleResource"
	resourceDeveloper       = "DeveloperResource"
	resourceDeveloperSingle = "DeveloperSingleResource"

	resourceProject       = "ProjectResource"
	resourceProjectSingle = "ProjectSingleResource"

	resourceServiceCatalog = "ServiceCatalogResource"

	resourceService       = "ServiceResource"
	resourceServiceSingle = "ServiceSingleResource"
	resourceServiceItem   = "ServiceItemResource"

	resourceConsumer              = "ConsumerResource"
	resourceProjectConsumer       = "ProjectConsumerCreateResource"
	resourceProjectConsumerSingle = "ProjectConsumerDeleteResource"
	resourceConsumerToken         = "ConsumerTokenResource"
	resourceConsumerTokenSingle   = "ConsumerTokenSingleResource"
)

// Role aliases keep the policy table readable.
const (
	roleAdmin     = domain.RoleAdmin
	roleDeveloper = domain.RoleDeveloper
	roleBilling   = domain.RoleBilling
	roleAnonym    = domain.RoleAnonym
)
