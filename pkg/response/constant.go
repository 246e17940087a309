package response

const (
	MessageSuccess      = "Success"
	DefaultErrorMessage = "Something went wrong"

	ErrorCodeBadRequest         = 1
	UnauthorizedErrorCode       = 401
	ForbiddenErrorCode          = 403
	TooManyRequestsErrorCode    = 429
	InternalServerErrorCode     = 500
	ServiceUnavailableErrorCode = 503

	// DateTimeFormat is used for timestamps in HTTP responses.
	DateTimeFormat = "2006-01-02T15:04:05Z07:00"
)
