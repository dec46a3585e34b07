package response

import "github.com/gin-gonic/gin"

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// Success writes a success envelope
func Success(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, "success", code, message, data, nil)
}

// Error writes an error envelope
func Error(c *gin.Context, code int, message string, details interface{}) {
	RespondJSON(c, "error", code, message, nil, details)
}
