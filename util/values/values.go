package values

type ContextKey string

const (
	ContextTracingKey ContextKey = "tracing-context"

	HeaderRequestID     = "X-Request-Id"
	HeaderRequestSource = "X-Request-Source"
)

const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	SystemErr      = "system-error"
	BadRequestBody = "bad-request-body"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not-allowed"
	Conflict       = "conflict"
	NotFound       = "not-found"
	NotAuthorised  = "not-authorised"
	TokenExpired   = "token-expired"
	ActiveLogin    = "active-login"
)
