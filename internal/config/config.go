package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Config 描述了 monadmcpd 在启动阶段需要加载的核心配置。
type Config struct {
	Upstream UpstreamConfig `json:"upstream"`
	Chain    ChainConfig    `json:"chain"`
	Logging  LoggingConfig  `json:"logging"`
	Metrics  MetricsConfig  `json:"metrics"`
}

// UpstreamConfig 描述目录服务与报价服务的访问地址和超时时间。
type UpstreamConfig struct {
	DirectoryBaseURL string `json:"directory_base_url"`
	PricingBaseURL   string `json:"pricing_base_url"`
	TimeoutSeconds   int    `json:"timeout_seconds"`
}

// Timeout 返回出站 HTTP 请求的超时时间。
func (c UpstreamConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ChainConfig 指向可选的链参数描述文件。
type ChainConfig struct {
	ProfilePath string `json:"profile_path"`
}

// MetricsConfig 控制指标服务。Address 为空时不启动指标端口。
type MetricsConfig struct {
	Address string `json:"address"`
}

// LoggingConfig 控制日志输出行为。
type LoggingConfig struct {
	Level       string   `json:"level"`
	Format      string   `json:"format"`
	OutputPaths []string `json:"output_paths"`
}

// Default 返回无配置文件时可直接运行的默认配置。
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load 负责解析指定路径的 JSON 配置文件。
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("配置文件路径为空")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开配置文件失败: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults 在用户未填写部分字段时设置合理的默认值。
func (c *Config) applyDefaults() {
	if c.Upstream.DirectoryBaseURL == "" {
		c.Upstream.DirectoryBaseURL = "https://testnet-api.monorail.xyz"
	}

	if c.Upstream.PricingBaseURL == "" {
		c.Upstream.PricingBaseURL = "https://testnet-pathfinder.monorail.xyz"
	}

	if c.Upstream.TimeoutSeconds <= 0 {
		c.Upstream.TimeoutSeconds = 15
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
