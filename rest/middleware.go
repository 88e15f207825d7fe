package rest

import (
	"errors"
	"net/http"

	"github.com/clientdesk/clientdesk/service"
	"github.com/gin-gonic/gin"
)

// ErrorHandler is the single place where service errors become HTTP status
// codes. Handlers push failures with c.Error and return; after the chain runs
// this middleware maps the last recorded error to a status and the
// {"error": ...} envelope. Unrecognized errors become a 500 with a fixed
// message so internal details never leak to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		status := http.StatusInternalServerError
		message := "Unexpected error."

		var nf *service.NotFoundError
		var cf *service.ConflictError
		var vd *service.ValidationError
		switch {
		case errors.As(err, &nf):
			status, message = http.StatusNotFound, nf.Message
		case errors.As(err, &cf):
			status, message = http.StatusBadRequest, cf.Message
		case errors.As(err, &vd):
			status, message = http.StatusBadRequest, vd.Message
		}
		c.JSON(status, gin.H{"error": message})
	}
}

// CORS allows the configured browser origin. The SPA is normally served by
// this binary and needs no CORS at all; this covers dev setups running the
// frontend from its own dev server.
func CORS(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
