package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/devcache/devcache/internal/cache"
	"github.com/devcache/devcache/internal/config"
	"github.com/devcache/devcache/internal/crypt"
	"github.com/devcache/devcache/internal/logging"
	"github.com/devcache/devcache/internal/server"
	"github.com/devcache/devcache/internal/server/routes"
	"github.com/devcache/devcache/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

// envOptions 描述可由环境变量提供的 CLI 默认值。
type envOptions struct {
	ConfigPath string `env:"DEVCACHE_CONFIG"`
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	cipher, err := crypt.FromConfig(cfg.Cipher)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化加密失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["storage_path"] = cfg.Global.StoragePath
		fields["cipher_mode"] = string(cfg.Cipher.Mode)
		fields["compression"] = cfg.Cipher.Compression
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 启动顺序：配置 → 日志 → 加密 → 磁盘缓存 → Fiber server。
	store, err := cache.New(cfg.Global.StoragePath, cache.Options{
		Cipher: cipher,
		Logger: logger,
	})
	if err != nil {
		fmt.Fprintf(stdErr, "初始化缓存目录失败: %v\n", err)
		return 1
	}
	go logScanResult(logger, store, opts.configPath)

	if _, err := config.Watch(opts.configPath, reloadLogLevel(logger), func(err error) {
		logger.WithFields(logging.BaseFields("config_reload", opts.configPath)).WithError(err).Warn("配置热加载失败")
	}); err != nil {
		logger.WithFields(logging.BaseFields("config_watch", opts.configPath)).WithError(err).Warn("无法监听配置文件")
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["listen_port"] = cfg.Global.ListenPort
	fields["storage_path"] = store.Root()
	fields["cipher_enabled"] = cfg.Cipher.Enabled()
	fields["default_ttl"] = cfg.EffectiveTTL(nil).String()
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, store, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("devcache", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 DEVCACHE_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	var envOpts envOptions
	if err := env.Parse(&envOpts); err != nil {
		return cliOptions{}, fmt.Errorf("解析环境变量失败: %w", err)
	}

	path := envOpts.ConfigPath
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

// reloadLogLevel 返回配置变更回调，目前只热更新日志级别。
func reloadLogLevel(logger *logrus.Logger) func(*config.Config) {
	return func(next *config.Config) {
		fields := logging.BaseFields("config_reload", "")
		fields["log_level"] = next.Global.LogLevel
		if err := logging.SetLevel(logger, next.Global.LogLevel); err != nil {
			logger.WithFields(fields).WithError(err).Warn("日志级别更新失败")
			return
		}
		logger.WithFields(fields).Info("日志级别已更新")
	}
}

// logScanResult 等待启动扫描结束后输出条目统计。
func logScanResult(logger *logrus.Logger, store *cache.Store, configPath string) {
	store.Wait()
	fields := logging.BaseFields("cache_scan", configPath)
	for k, v := range logging.StatsFields(store.EntryCount(), store.TotalBytes()) {
		fields[k] = v
	}
	logger.WithFields(fields).Info("缓存统计完成")
}

// buildApp 组装 Fiber 应用并挂载条目与诊断路由。
func buildApp(cfg *config.Config, store *cache.Store, logger *logrus.Logger) (*fiber.App, error) {
	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Store:      store,
		ListenPort: cfg.Global.ListenPort,
	})
	if err != nil {
		return nil, err
	}
	routes.RegisterEntryRoutes(app, store, cache.NewTTLWriter(store, cfg.EffectiveTTL(nil)), logger)
	routes.RegisterAdminRoutes(app, store, logger)
	return app, nil
}

func startHTTPServer(cfg *config.Config, store *cache.Store, logger *logrus.Logger) error {
	app, err := buildApp(cfg, store, logger)
	if err != nil {
		return err
	}

	port := cfg.Global.ListenPort
	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
