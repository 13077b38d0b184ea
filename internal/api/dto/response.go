package dto

// Response 统一响应结构
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ListResponse 分页列表响应
type ListResponse struct {
	Success bool         `json:"success"`
	Data    any          `json:"data"`
	Details *PageDetails `json:"details"`
}
