// Package log 定义票务客户端各组件共用的日志接口
//
// 组件只依赖本接口，具体实现位于 internal/core/infrastructure/log。
// 调用方通过 With("module", "market") 之类的键值对附加结构化字段，
// 日志实现据此区分来源模块。
package log

import "go.uber.org/zap"

// Logger 定义日志记录器接口
type Logger interface {
	// Debug 记录调试级别的日志
	Debug(msg string)

	// Debugf 使用格式化字符串记录调试级别的日志
	Debugf(format string, args ...interface{})

	// Info 记录信息级别的日志
	Info(msg string)

	// Infof 使用格式化字符串记录信息级别的日志
	Infof(format string, args ...interface{})

	// Warn 记录警告级别的日志
	Warn(msg string)

	// Warnf 使用格式化字符串记录警告级别的日志
	Warnf(format string, args ...interface{})

	// Error 记录错误级别的日志
	Error(msg string)

	// Errorf 使用格式化字符串记录错误级别的日志
	Errorf(format string, args ...interface{})

	// With 返回一个带有额外字段的Logger，参数为键值对
	With(args ...interface{}) Logger

	// Sync 同步日志缓冲区到输出
	Sync() error

	// GetZapLogger 获取原始的zap日志记录器
	GetZapLogger() *zap.Logger
}

// 常用的 module 字段取值
const (
	ModuleConfig    = "config"
	ModuleTransport = "transport"
	ModuleBuilder   = "builder"
	ModuleInspect   = "inspect"
	ModuleReconcile = "reconcile"
	ModuleFees      = "fees"
	ModuleMarket    = "market"
	ModuleWallet    = "wallet"
	ModuleSession   = "session"
	ModuleActions   = "actions"
	ModuleAPI       = "api"
)
