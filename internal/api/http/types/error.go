package types

// ErrorResponse 统一错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// 错误码
const (
	ErrInvalidArgument   = "INVALID_ARGUMENT"
	ErrNotFound          = "NOT_FOUND"
	ErrUnknownNetwork    = "UNKNOWN_NETWORK"
	ErrNotDeployed       = "NOT_DEPLOYED"
	ErrUpstream          = "UPSTREAM_ERROR"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrRequestTooLarge   = "REQUEST_TOO_LARGE"
	ErrInternal          = "INTERNAL"
)

// NewErrorResponse 创建错误响应
func NewErrorResponse(code, message, requestID string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, RequestID: requestID}}
}
