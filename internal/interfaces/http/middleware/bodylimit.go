package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/receivable360/backend/internal/interfaces/http/dto"
)

// BodyLimit caps the request body size. Spreadsheet uploads are the only
// large requests this API takes, so anything past the limit is rejected
// before the multipart parser touches it.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeValidation, "request body exceeds the upload limit"))
			return
		}

		// Chunked uploads carry no Content-Length; cap those while the
		// body is being read.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
