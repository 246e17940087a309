package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewOKResp returns a new OK response with the given data.
func NewOKResp(data any) Resp {
	return Resp{
		ErrorCode: 0,
		Message:   MessageSuccess,
		Data:      data,
	}
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// Error sends error response with status code and message.
func Error(c *gin.Context, err error, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}

	c.JSON(http.StatusBadRequest, Resp{
		ErrorCode: ErrorCodeBadRequest,
		Message:   err.Error(),
		Data:      data,
	})
}

// InternalError sends 500 internal server error. The error itself is not exposed.
func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Resp{
		ErrorCode: InternalServerErrorCode,
		Message:   DefaultErrorMessage,
	})
}

// Unauthorized sends 401 response.
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Resp{
		ErrorCode: UnauthorizedErrorCode,
		Message:   "Unauthorized",
	})
}

// Forbidden sends 403 response.
func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, Resp{
		ErrorCode: ForbiddenErrorCode,
		Message:   "Forbidden",
	})
}

// TooManyRequests sends 429 response.
func TooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, Resp{
		ErrorCode: TooManyRequestsErrorCode,
		Message:   "Too Many Requests",
	})
}

// ServiceUnavailable sends 503 with data describing what is not ready.
func ServiceUnavailable(c *gin.Context, data any) {
	c.JSON(http.StatusServiceUnavailable, Resp{
		ErrorCode: ServiceUnavailableErrorCode,
		Message:   "Service Unavailable",
		Data:      data,
	})
}
