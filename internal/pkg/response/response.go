package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError is the per-field entry of a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Page writes a paginated list.
func Page(c *gin.Context, data interface{}, count int, total int64, page, pages int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   count,
		"total":   total,
		"page":    page,
		"pages":   pages,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}

func ValidationError(c *gin.Context, statusCode int, message string, errors []FieldError) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
		"errors":  errors,
	})
}

