package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"Monad-MCP/internal/chain"
	"Monad-MCP/internal/config"
	"Monad-MCP/internal/directory"
	"Monad-MCP/internal/observability/metrics"
	"Monad-MCP/internal/pricing"
	"Monad-MCP/internal/tools"
	"Monad-MCP/pkg/logger"
)

const serverVersion = "0.1.0"

// main 是 monadmcpd 守护进程的入口。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("monadmcpd 运行失败: %v", err)
	}
}

func run(ctx context.Context) error {
	// 加载配置：未设置 MONADMCP_CONFIG 时使用内置默认值。
	cfg := config.Default()
	if path := os.Getenv("MONADMCP_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if err := logger.Init(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: cfg.Logging.OutputPaths,
	}); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// 加载链参数描述。
	profile, err := chain.LoadProfile(cfg.Chain.ProfilePath)
	if err != nil {
		return err
	}

	// 两个上游客户端共享同一个带超时的 HTTP 客户端。
	httpClient := &http.Client{Timeout: cfg.Upstream.Timeout()}

	dir, err := directory.NewClient(cfg.Upstream.DirectoryBaseURL, httpClient)
	if err != nil {
		return err
	}

	quotes, err := pricing.NewClient(cfg.Upstream.PricingBaseURL, dir, profile, httpClient)
	if err != nil {
		return err
	}

	dispatcher := tools.NewDispatcher(tools.NewRegistry(dir, quotes))

	// 指标端口可选，未配置地址时不启动。
	if cfg.Metrics.Address != "" {
		go func() {
			if err := metrics.StartServer(ctx, cfg.Metrics.Address); err != nil && !errors.Is(err, context.Canceled) {
				logger.L().Error("metrics server stopped", slog.String("error", err.Error()))
			}
		}()
	}

	// MCP 服务通过标准输入输出与调用方通信。
	srv := server.NewMCPServer("monad-mcp", serverVersion)
	dispatcher.Register(srv)

	logger.L().Info("monadmcpd started",
		slog.String("chain", profile.Name),
		slog.Int("tools", len(dispatcher.List())),
	)

	stdio := server.NewStdioServer(srv)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
