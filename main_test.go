package main

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/devcache/devcache/internal/config"
)

func TestParseCLIFlagsPriority(t *testing.T) {
	t.Setenv("DEVCACHE_CONFIG", "/tmp/env.toml")

	opts, err := parseCLIFlags([]string{})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "/tmp/env.toml" {
		t.Fatalf("应优先使用环境变量，得到 %s", opts.configPath)
	}

	opts, err = parseCLIFlags([]string{"--config", "/tmp/flag.toml"})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "/tmp/flag.toml" {
		t.Fatalf("flag 应高于环境变量，得到 %s", opts.configPath)
	}
}

func TestRunCheckConfigSuccess(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{configPath: configFixture(t, "valid.toml"), checkOnly: true})
	if code != 0 {
		t.Fatalf("期望退出码 0，得到 %d", code)
	}
}

func TestRunCheckConfigFailure(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{configPath: configFixture(t, "missing.toml"), checkOnly: true})
	if code == 0 {
		t.Fatalf("无效配置应返回非零退出码")
	}
}

func TestRunVersionOutput(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{showVersion: true})
	if code != 0 {
		t.Fatalf("version 模式应成功退出，得到 %d", code)
	}
	if !strings.Contains(stdOutBuffer().String(), "devcache") {
		t.Fatalf("version 输出应包含 devcache 标识")
	}
}

func TestParseCLIFlagsDefaultPath(t *testing.T) {
	t.Setenv("DEVCACHE_CONFIG", "")

	opts, err := parseCLIFlags([]string{"-check-config"})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "config.toml" || !opts.checkOnly {
		t.Fatalf("默认配置路径应为 config.toml，得到 %+v", opts)
	}

	if _, err := parseCLIFlags([]string{"-unknown"}); err == nil {
		t.Fatalf("未知参数应返回错误")
	}
}

func TestRunCheckConfigRejectsInvalidValues(t *testing.T) {
	useBufferWriters(t)
	code := run(cliOptions{configPath: configFixture(t, "invalid.toml"), checkOnly: true})
	if code == 0 {
		t.Fatalf("非法配置应返回非零退出码")
	}
	if stdErrBuffer().Len() == 0 {
		t.Fatalf("错误信息应写入 stderr")
	}
}

func TestReloadLogLevel(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	next := &config.Config{}
	next.Global.LogLevel = "debug"
	reloadLogLevel(logger)(next)
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("日志级别应更新为 debug，得到 %s", logger.GetLevel())
	}

	next.Global.LogLevel = "loud"
	reloadLogLevel(logger)(next)
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("非法级别不应覆盖当前级别，得到 %s", logger.GetLevel())
	}
}
