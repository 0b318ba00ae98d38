package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, generating one when the client
// did not supply its own. The id is echoed in the response so API calls can
// be correlated with server logs.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			ctx.Request.Header.Set(requestIDHeader, id)
		}
		ctx.Header(requestIDHeader, id)
		ctx.Next()
	}
}
