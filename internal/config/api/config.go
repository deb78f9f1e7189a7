// Package api 读接口服务的配置
package api

import (
	"net"
	"strconv"
	"time"
)

// HTTPConfig HTTP 读接口配置
type HTTPConfig struct {
	Host string `json:"host" yaml:"host"` // 监听地址
	Port int    `json:"port" yaml:"port"` // 监听端口

	// 超时配置
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"` // 单个请求处理超时，含节点调用
	ReadTimeout    time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout" yaml:"write_timeout"`

	// 限流，0 表示不限流
	RateLimitRequestsPerMinute int `json:"rate_limit_requests_per_minute" yaml:"rate_limit_requests_per_minute"`
	MaxRequestSize             int `json:"max_request_size" yaml:"max_request_size"` // 最大请求体(字节)
}

// Addr 监听地址 host:port
func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// UserHTTPConfig 用户配置，指针字段区分"未设置"与"设置为零值"
type UserHTTPConfig struct {
	Host                       *string        `json:"host,omitempty" yaml:"host,omitempty"`
	Port                       *int           `json:"port,omitempty" yaml:"port,omitempty"`
	RequestTimeout             *time.Duration `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`
	RateLimitRequestsPerMinute *int           `json:"rate_limit_requests_per_minute,omitempty" yaml:"rate_limit_requests_per_minute,omitempty"`
	MaxRequestSize             *int           `json:"max_request_size,omitempty" yaml:"max_request_size,omitempty"`
}

// New 以默认配置为基础合并用户配置
func New(user *UserHTTPConfig) HTTPConfig {
	cfg := Default()
	if user == nil {
		return cfg
	}
	if user.Host != nil {
		cfg.Host = *user.Host
	}
	if user.Port != nil {
		cfg.Port = *user.Port
	}
	if user.RequestTimeout != nil {
		cfg.RequestTimeout = *user.RequestTimeout
	}
	if user.RateLimitRequestsPerMinute != nil {
		cfg.RateLimitRequestsPerMinute = *user.RateLimitRequestsPerMinute
	}
	if user.MaxRequestSize != nil {
		cfg.MaxRequestSize = *user.MaxRequestSize
	}
	return cfg
}

// Default 默认配置
func Default() HTTPConfig {
	return HTTPConfig{
		Host:                       defaultHTTPHost,
		Port:                       defaultHTTPPort,
		RequestTimeout:             defaultRequestTimeout,
		ReadTimeout:                defaultHTTPReadTimeout,
		WriteTimeout:               defaultHTTPWriteTimeout,
		RateLimitRequestsPerMinute: defaultRateLimitRPM,
		MaxRequestSize:             defaultMaxRequestSize,
	}
}
