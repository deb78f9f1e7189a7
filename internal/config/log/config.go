package log

import (
	"go.uber.org/zap/zapcore"
)

const (
	defaultLogLevel         = "info"
	defaultToConsole        = true
	defaultMaxSize          = 100 // MB
	defaultMaxBackups       = 10
	defaultMaxAge           = 30 // days
	defaultCompress         = true
	defaultEnableCaller     = true
	defaultEnableStacktrace = true
)

var defaultLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// LogOptions 日志配置选项
type LogOptions struct {
	Level     string `json:"level" yaml:"level"`           // 日志级别 (debug, info, warn, error)
	ToConsole bool   `json:"to_console" yaml:"to_console"` // 是否输出到控制台(stderr)
	FilePath  string `json:"file_path" yaml:"file_path"`   // 日志文件路径，为空则不写文件

	// 轮转配置
	MaxSize    int  `json:"max_size" yaml:"max_size"`
	MaxBackups int  `json:"max_backups" yaml:"max_backups"`
	MaxAge     int  `json:"max_age" yaml:"max_age"`
	Compress   bool `json:"compress" yaml:"compress"`

	EnableCaller     bool `json:"enable_caller" yaml:"enable_caller"`
	EnableStacktrace bool `json:"enable_stacktrace" yaml:"enable_stacktrace"`
}

// Config 日志配置实现
type Config struct {
	options *LogOptions
}

// New 创建日志配置，userOptions 中的非零字段覆盖默认值
func New(userOptions *LogOptions) *Config {
	options := &LogOptions{
		Level:            defaultLogLevel,
		ToConsole:        defaultToConsole,
		MaxSize:          defaultMaxSize,
		MaxBackups:       defaultMaxBackups,
		MaxAge:           defaultMaxAge,
		Compress:         defaultCompress,
		EnableCaller:     defaultEnableCaller,
		EnableStacktrace: defaultEnableStacktrace,
	}

	if userOptions != nil {
		if userOptions.Level != "" {
			options.Level = userOptions.Level
		}
		if userOptions.FilePath != "" {
			options.FilePath = userOptions.FilePath
			// 指定文件路径时默认不输出到控制台
			options.ToConsole = userOptions.ToConsole
		}
		if userOptions.MaxSize > 0 {
			options.MaxSize = userOptions.MaxSize
		}
		if userOptions.MaxBackups > 0 {
			options.MaxBackups = userOptions.MaxBackups
		}
		if userOptions.MaxAge > 0 {
			options.MaxAge = userOptions.MaxAge
		}
	}

	return &Config{options: options}
}

// GetOptions 获取完整的日志配置选项
func (c *Config) GetOptions() *LogOptions {
	return c.options
}

// GetLevel 获取日志级别
func (c *Config) GetLevel() string {
	return c.options.Level
}

// GetZapLevel 获取zap日志级别，未知级别按 info 处理
func (c *Config) GetZapLevel() zapcore.Level {
	if level, exists := defaultLevelMap[c.options.Level]; exists {
		return level
	}
	return zapcore.InfoLevel
}

// IsConsoleEnabled 是否启用控制台输出
func (c *Config) IsConsoleEnabled() bool {
	return c.options.ToConsole
}

// GetFilePath 获取日志文件路径
func (c *Config) GetFilePath() string {
	return c.options.FilePath
}

func (c *Config) GetMaxSize() int            { return c.options.MaxSize }
func (c *Config) GetMaxBackups() int         { return c.options.MaxBackups }
func (c *Config) GetMaxAge() int             { return c.options.MaxAge }
func (c *Config) IsCompressionEnabled() bool { return c.options.Compress }
func (c *Config) IsCallerEnabled() bool      { return c.options.EnableCaller }
func (c *Config) IsStacktraceEnabled() bool  { return c.options.EnableStacktrace }

// CreateFileEncoder 创建文件编码器(JSON)
func (c *Config) CreateFileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
	})
}

// CreateConsoleEncoder 创建控制台编码器
func (c *Config) CreateConsoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	})
}
