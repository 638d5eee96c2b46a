package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server     ServerConfig
	Generation GenerationConfig
	Bootstrap  BootstrapConfig
	Theme      ThemeConfig
	AI         AIConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	generation, err := loadGenerationConfig(server)
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:     server,
		Generation: generation,
		Bootstrap:  loadBootstrapConfig(),
		Theme:      loadThemeConfig(),
		AI:         ai,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	PublicURL      string
	AllowedOrigins []string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	var addr string
	switch {
	case strings.Contains(port, ":"):
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		addr = port
	case strings.Contains(port, " "):
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	default:
		addr = ":" + port
	}

	publicURL := getEnvOrDefault("PUBLIC_URL", "http://localhost"+displayPort(addr))

	return ServerConfig{
		Addr:           addr,
		PublicURL:      strings.TrimRight(publicURL, "/"),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}, nil
}

func displayPort(addr string) string {
	if idx := strings.LastIndex(addr, ":"); idx >= 0 {
		return addr[idx:]
	}
	return ""
}

// Backend kinds accepted by GENERATION_BACKEND.
const (
	BackendV0     = "v0"
	BackendMemory = "memory"
)

// GenerationConfig 描述外部网站生成服务。
type GenerationConfig struct {
	Backend     string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	PreviewBase string
}

func loadGenerationConfig(server ServerConfig) (GenerationConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("V0_API_KEY"))

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("GENERATION_BACKEND")))
	if backend == "" {
		// 没有密钥时默认使用内存后端，便于本地调试。
		backend = BackendMemory
		if apiKey != "" {
			backend = BackendV0
		}
	}
	if backend != BackendV0 && backend != BackendMemory {
		return GenerationConfig{}, fmt.Errorf("invalid GENERATION_BACKEND value: %q", backend)
	}
	if backend == BackendV0 && apiKey == "" {
		return GenerationConfig{}, fmt.Errorf("V0_API_KEY is required when GENERATION_BACKEND=%s", BackendV0)
	}

	timeoutSeconds := 120
	if override, err := parseOptionalIntEnv("V0_TIMEOUT"); err != nil {
		return GenerationConfig{}, err
	} else if override != nil {
		timeoutSeconds = *override
	}

	return GenerationConfig{
		Backend:     backend,
		APIKey:      apiKey,
		BaseURL:     getEnvOrDefault("V0_BASE_URL", "https://api.v0.dev/v1"),
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
		PreviewBase: getEnvOrDefault("PREVIEW_BASE_URL", server.PublicURL+"/preview"),
	}, nil
}

// BootstrapConfig 控制新会话的初始化方式。
type BootstrapConfig struct {
	Mode        string
	ProjectName string
	TemplateURL string
}

func loadBootstrapConfig() BootstrapConfig {
	return BootstrapConfig{
		Mode:        strings.TrimSpace(os.Getenv("BOOTSTRAP_MODE")),
		ProjectName: strings.TrimSpace(os.Getenv("BOOTSTRAP_PROJECT_NAME")),
		TemplateURL: strings.TrimSpace(os.Getenv("BOOTSTRAP_TEMPLATE_URL")),
	}
}

// ThemeConfig 选择页面主题。
type ThemeConfig struct {
	Active string
	File   string
}

func loadThemeConfig() ThemeConfig {
	return ThemeConfig{
		Active: getEnvOrDefault("THEME", "restaurant"),
		File:   strings.TrimSpace(os.Getenv("THEMES_FILE")),
	}
}

// AIConfig 描述提示词精炼所用的大模型配置。
type AIConfig struct {
	APIKey        string
	AccessKey     string
	SecretKey     string
	Model         string
	BaseURL       string
	Region        string
	Temperature   *float64
	MaxTokens     *int
	RefineEnabled bool
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + ARK_MODEL 或 AK/SK 组合")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	refine, err := parseBoolEnv("PROMPT_REFINE_ENABLED", false)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:        strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:     strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:     strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:         strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:       getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:        getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:   temperature,
		MaxTokens:     maxTokens,
		RefineEnabled: refine,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}

	out := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
