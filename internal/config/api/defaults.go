package api

import "time"

// 读接口默认配置值
const (
	// defaultHTTPHost 只监听本机，对外暴露需显式配置
	defaultHTTPHost = "127.0.0.1"

	// defaultHTTPPort 默认端口
	defaultHTTPPort = 8080

	// defaultRequestTimeout 单个请求处理超时
	// 挂单列表需要对每条挂单发起多次节点调用，给足时间
	defaultRequestTimeout = 30 * time.Second

	defaultHTTPReadTimeout  = 15 * time.Second
	defaultHTTPWriteTimeout = 45 * time.Second

	// defaultRateLimitRPM 每个客户端 IP 每分钟 600 请求
	defaultRateLimitRPM = 600

	// defaultMaxRequestSize 最大请求体 1MB
	defaultMaxRequestSize = 1 << 20
)
