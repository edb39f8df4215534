package service

import (
	"github.com/ayyaapp/ayya/auth"
	"github.com/ayyaapp/ayya/export"
	"github.com/ayyaapp/ayya/metrics"
	"github.com/gin-gonic/gin"
)

// guardAdmin reject requests without an admin session, nothing behind the guard runs
func guardAdmin(authorizer auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authorizer != nil && authorizer.IsAdmin(c.Request) {
			c.Next()
			return
		}

		if c.FullPath() == "/api/admin/export" {
			format := export.ParseFormat(c.Query("format"))
			metrics.Exports.WithLabelValues(string(format), "unauthorized").Inc()
		}
		c.AbortWithStatusJSON(401, gin.H{"error": "Unauthorized"})
	}
}

// guardCrossOrigin answer CORS for the allowed origins, credentials included
func guardCrossOrigin(allowFrom []string) gin.HandlerFunc {
	allowed := map[string]bool{}
	for _, origin := range allowFrom {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || !(allowed["*"] || allowed[origin]) {
			c.Next()
			return
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-Id")
		c.Writer.Header().Add("Vary", "Origin")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
