package types

// ErrorResponse 统一错误响应.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse 只带提示信息的响应.
type MessageResponse struct {
	Message string `json:"message"`
}
