package httpdto

// Response is the JSON envelope every endpoint returns. Success carries the
// payload under data; failure carries a human-readable error plus a stable
// machine code so clients can branch without parsing the message text.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse builds a failure envelope. Code is one of the constants
// the handlers map from service errors (VALIDATION_ERROR, NOT_FOUND, ...).
func NewErrorResponse(err string, code string) Response[any] {
	return Response[any]{
		Success: false,
		Error:   err,
		Code:    code,
	}
}
