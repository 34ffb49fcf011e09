package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if g.StoragePath == "" {
		return newFieldError("Global.StoragePath", "不能为空")
	}
	if g.LogLevel != "" {
		if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
			return newFieldError("Global.LogLevel", fmt.Sprintf("无法识别: %s", g.LogLevel))
		}
	}
	if g.LogMaxSize < 0 {
		return newFieldError("Global.LogMaxSize", "不能为负数")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError("Global.LogMaxBackups", "不能为负数")
	}

	return c.Cipher.validate()
}

func (c CipherConfig) validate() error {
	switch c.Mode {
	case CipherModeNone:
	case CipherModeXChaCha20:
		if c.Passphrase == "" {
			return newFieldError(cipherField("Passphrase"), "启用加密时不能为空")
		}
	default:
		return newFieldError(cipherField("Mode"), "仅支持 none/xchacha20")
	}
	if c.Compression < 0 || c.Compression > 22 {
		return newFieldError(cipherField("Compression"), "必须在 0-22")
	}
	return nil
}

// EffectiveTTL 返回写入时生效的 TTL：显式值优先，否则回退到全局 DefaultTTL。
func (c *Config) EffectiveTTL(explicit *time.Duration) time.Duration {
	if explicit != nil {
		return *explicit
	}
	return c.Global.DefaultTTL.DurationValue()
}
