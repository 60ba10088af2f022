package http

import (
	"github.com/gin-gonic/gin"

	"zopsm/internal/domain"
)

const principalContextKey = "principal"

// authorize is the gate stage of the pipeline. It runs before the handler,
// writes the rejection itself and aborts, so gate failures never reach
// resource code. On success the decoded principal is stored on the request
// context and nothing else happens.
func (s *Server) authorize(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := s.gate.Authorize(c.Request.Context(), resource, c.Request.Method, c.GetHeader("Authorization"))
		if err != nil {
			s.writeError(c, err)
			c.Abort()
			return
		}
		if principal.Subject != "" {
			c.Set(principalContextKey, principal)
		}
		c.Next()
	}
}

func getPrincipal(c *gin.Context) (domain.Principal, bool) {
	raw, ok := c.Get(principalContextKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := raw.(domain.Principal)
	return principal, ok
}
