package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

// EnvPrefix 是环境变量覆盖的前缀，例如 DEVCACHE_CIPHER_PASSPHRASE。
const EnvPrefix = "DEVCACHE"

// Load 读取并解析配置文件，同时注入默认值、环境变量覆盖与校验逻辑。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}
	return decode(v)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := applyGlobalDefaults(&cfg.Global); err != nil {
		return nil, err
	}
	applyCipherDefaults(&cfg.Cipher)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absStorage, err := filepath.Abs(cfg.Global.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("无法解析缓存目录: %w", err)
	}
	cfg.Global.StoragePath = absStorage

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 5000)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("StoragePath", "")
	v.SetDefault("DefaultTTL", 0)
	v.SetDefault("Cipher.Mode", string(CipherModeNone))
	v.SetDefault("Cipher.Passphrase", "")
	v.SetDefault("Cipher.Salt", "devcache")
	v.SetDefault("Cipher.Compression", 0)
}

func applyGlobalDefaults(g *GlobalConfig) error {
	if g.ListenPort == 0 {
		g.ListenPort = 5000
	}
	if strings.TrimSpace(g.StoragePath) == "" {
		dir, err := DefaultStoragePath()
		if err != nil {
			return err
		}
		g.StoragePath = dir
	}
	expanded, err := homedir.Expand(g.StoragePath)
	if err != nil {
		return newFieldError("Global.StoragePath", err.Error())
	}
	g.StoragePath = expanded
	return nil
}

func applyCipherDefaults(c *CipherConfig) {
	mode := strings.ToLower(strings.TrimSpace(string(c.Mode)))
	if mode == "" {
		mode = string(CipherModeNone)
	}
	c.Mode = CipherMode(mode)
	if c.Salt == "" {
		c.Salt = "devcache"
	}
}

// DefaultStoragePath 返回当前用户缓存目录下的 devcache 子目录。
func DefaultStoragePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "devcache").CacheDir()
	if err != nil {
		return "", fmt.Errorf("无法定位用户缓存目录: %w", err)
	}
	return dir, nil
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
