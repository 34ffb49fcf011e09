package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// CipherMode 决定数据文件是否加密。
type CipherMode string

const (
	CipherModeNone      CipherMode = "none"
	CipherModeXChaCha20 CipherMode = "xchacha20"
)

// GlobalConfig 描述全局运行时行为。
type GlobalConfig struct {
	ListenPort    int      `mapstructure:"ListenPort"`
	LogLevel      string   `mapstructure:"LogLevel"`
	LogFilePath   string   `mapstructure:"LogFilePath"`
	LogMaxSize    int      `mapstructure:"LogMaxSize"`
	LogMaxBackups int      `mapstructure:"LogMaxBackups"`
	LogCompress   bool     `mapstructure:"LogCompress"`
	StoragePath   string   `mapstructure:"StoragePath"`
	DefaultTTL    Duration `mapstructure:"DefaultTTL"`
}

// CipherConfig 控制数据文件的压缩与加密，先压缩再加密。
type CipherConfig struct {
	Mode        CipherMode `mapstructure:"Mode"`
	Passphrase  string     `mapstructure:"Passphrase"`
	Salt        string     `mapstructure:"Salt"`
	Compression int        `mapstructure:"Compression"`
}

// Enabled 表示是否启用了任何负载转换。
func (c CipherConfig) Enabled() bool {
	return c.Mode == CipherModeXChaCha20 || c.Compression > 0
}

// Config 是配置文件映射的整体结构。
type Config struct {
	Global GlobalConfig `mapstructure:",squash"`
	Cipher CipherConfig `mapstructure:"Cipher"`
}
