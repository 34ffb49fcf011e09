package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(testConfigPath(t, "valid.toml"))
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	if cfg.Global.ListenPort != 5001 {
		t.Fatalf("ListenPort 应当被解析，得到 %d", cfg.Global.ListenPort)
	}
	if cfg.Global.DefaultTTL.DurationValue() != 10*time.Minute {
		t.Fatalf("DefaultTTL 解析错误: %v", cfg.Global.DefaultTTL.DurationValue())
	}
	if !filepath.IsAbs(cfg.Global.StoragePath) {
		t.Fatalf("StoragePath 应转换为绝对路径: %s", cfg.Global.StoragePath)
	}
	if cfg.Cipher.Mode != CipherModeXChaCha20 || cfg.Cipher.Compression != 3 {
		t.Fatalf("Cipher 段解析错误: %+v", cfg.Cipher)
	}
	if cfg.Cipher.Salt != "devcache" {
		t.Fatalf("Salt 应使用默认值，得到 %s", cfg.Cipher.Salt)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	if _, err := Load(testConfigPath(t, "invalid.toml")); err == nil {
		t.Fatalf("不合法的配置应返回错误")
	}
}

func TestLoadDefaults(t *testing.T) {
	storage := filepath.Join(t.TempDir(), "store")
	path := writeTempConfig(t, `StoragePath = "`+filepath.ToSlash(storage)+`"`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	if cfg.Global.ListenPort != 5000 || cfg.Global.LogLevel != "info" {
		t.Fatalf("默认值未生效: %+v", cfg.Global)
	}
	if cfg.Global.DefaultTTL.DurationValue() != 0 {
		t.Fatalf("默认 TTL 应为永久")
	}
	if cfg.Cipher.Enabled() {
		t.Fatalf("默认不应启用加密或压缩")
	}
}

func TestLoadEnvOverridesPassphrase(t *testing.T) {
	t.Setenv("DEVCACHE_CIPHER_PASSPHRASE", "from-env")
	path := writeTempConfig(t, `
StoragePath = "./data"

[Cipher]
Mode = "xchacha20"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("环境变量应补全口令: %v", err)
	}
	if cfg.Cipher.Passphrase != "from-env" {
		t.Fatalf("口令应来自环境变量，得到 %q", cfg.Cipher.Passphrase)
	}
}

func TestLoadExpandsHomeDir(t *testing.T) {
	path := writeTempConfig(t, `StoragePath = "~/devcache-test"`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	if strings.HasPrefix(cfg.Global.StoragePath, "~") {
		t.Fatalf("~ 应被展开: %s", cfg.Global.StoragePath)
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	path := writeTempConfig(t, `
StoragePath = "./data"
DefaultTTL = "boom"
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("无效 Duration 应失败")
	}
}

func TestValidateCipher(t *testing.T) {
	testCases := []struct {
		name      string
		cipher    CipherConfig
		shouldErr bool
	}{
		{"none ok", CipherConfig{Mode: CipherModeNone}, false},
		{"xchacha ok", CipherConfig{Mode: CipherModeXChaCha20, Passphrase: "p"}, false},
		{"xchacha without passphrase", CipherConfig{Mode: CipherModeXChaCha20}, true},
		{"unknown mode", CipherConfig{Mode: "aes"}, true},
		{"compression max", CipherConfig{Mode: CipherModeNone, Compression: 22}, false},
		{"compression too high", CipherConfig{Mode: CipherModeNone, Compression: 23}, true},
		{"compression negative", CipherConfig{Mode: CipherModeNone, Compression: -1}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Cipher = tc.cipher
			err := cfg.Validate()
			if tc.shouldErr && err == nil {
				t.Fatalf("expected error for %+v", tc.cipher)
			}
			if !tc.shouldErr && err != nil {
				t.Fatalf("unexpected error for %+v: %v", tc.cipher, err)
			}
		})
	}
}

func TestValidateEnforcesListenPortRange(t *testing.T) {
	cfg := validConfig()
	cfg.Global.ListenPort = 70000
	err := cfg.Validate()
	var fieldErr FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "Global.ListenPort" {
		t.Fatalf("ListenPort 超出范围应返回 FieldError，得到 %v", err)
	}
}

func TestEffectiveTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Global.DefaultTTL = Duration(time.Hour)
	if ttl := cfg.EffectiveTTL(nil); ttl != time.Hour {
		t.Fatalf("未指定时应回退到 DefaultTTL")
	}
	explicit := 2 * time.Second
	if ttl := cfg.EffectiveTTL(&explicit); ttl != explicit {
		t.Fatalf("显式 TTL 应优先生效")
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	storage := filepath.ToSlash(filepath.Join(t.TempDir(), "store"))
	path := writeTempConfig(t, `StoragePath = "`+storage+`"`+"\nLogLevel = \"info\"\n")

	changed := make(chan *Config, 4)
	cfg, err := Watch(path, func(c *Config) { changed <- c }, nil)
	if err != nil {
		t.Fatalf("Watch 返回错误: %v", err)
	}
	if cfg.Global.LogLevel != "info" {
		t.Fatalf("初始配置错误: %s", cfg.Global.LogLevel)
	}

	content := `StoragePath = "` + storage + `"` + "\nLogLevel = \"debug\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case next := <-changed:
			if next.Global.LogLevel == "debug" {
				return
			}
		case <-deadline:
			t.Fatalf("未收到配置变更回调")
		}
	}
}

func validConfig() *Config {
	return &Config{
		Global: GlobalConfig{
			ListenPort:  5000,
			StoragePath: "./data",
		},
		Cipher: CipherConfig{Mode: CipherModeNone},
	}
}
