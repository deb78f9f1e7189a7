// Package types 定义读接口的响应结构
package types

// SuccessResponse 统一成功响应格式
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"requestId,omitempty"`
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *SuccessResponse {
	return &SuccessResponse{Data: data}
}

// WithRequestID 添加请求ID
func (r *SuccessResponse) WithRequestID(requestID string) *SuccessResponse {
	r.RequestID = requestID
	return r
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string            `json:"status"` // healthy, degraded
	Version  string            `json:"version"`
	Uptime   string            `json:"uptime"`
	Networks map[string]string `json:"networks"` // 网络 → 合约部署状态
}

// BundleResponse 未签名交易包与费用明细
type BundleResponse struct {
	Bundle interface{} `json:"bundle"`
	Quote  interface{} `json:"quote"`
}
