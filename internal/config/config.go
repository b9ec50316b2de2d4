package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every runtime setting of the service.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	AI      AIConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Storage: loadStorageConfig(),
		AI:      ai,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// StorageConfig locates the two persisted blobs.
type StorageConfig struct {
	DataDir string
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{DataDir: getEnvOrDefault("DATA_DIR", "data")}
}

// MessagesPath is the conversation history blob.
func (c StorageConfig) MessagesPath() string {
	return filepath.Join(c.DataDir, "messages.json")
}

// SettingsPath is the assistant settings blob, keyed independently from the
// conversation.
func (c StorageConfig) SettingsPath() string {
	return filepath.Join(c.DataDir, "settings.json")
}

// AIConfig describes the model backends. Leaving every credential unset is a
// valid configuration: the service then answers with a templated reply.
type AIConfig struct {
	OpenAIAPIKey string
	OpenAIModel  string

	ArkAPIKey    string
	ArkAccessKey string
	ArkSecretKey string
	ArkModel     string
	ArkBaseURL   string
	ArkRegion    string

	Temperature float64
	MaxTokens   *int

	// Endpoint, when set, routes the orchestrator to a remote model proxy
	// instead of the in-process AI service.
	Endpoint string
}

// OpenAIEnabled reports whether the OpenAI backend can be used.
func (c AIConfig) OpenAIEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// ArkEnabled reports whether the Ark backend has the required credentials.
func (c AIConfig) ArkEnabled() bool {
	return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
}

// NewArkChatModel builds an eino chat model from the Ark settings.
func (c AIConfig) NewArkChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.ArkEnabled() {
		return nil, fmt.Errorf("ark credentials or model missing, provide ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	temperature := float32(c.Temperature)

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.ArkBaseURL,
		Region:      c.ArkRegion,
		APIKey:      c.ArkAPIKey,
		AccessKey:   c.ArkAccessKey,
		SecretKey:   c.ArkSecretKey,
		Model:       c.ArkModel,
		MaxTokens:   c.MaxTokens,
		Temperature: &temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ASSISTANT_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	temp := 0.6
	if temperature != nil {
		temp = *temperature
	}

	maxTokens, err := parseOptionalIntEnv("ASSISTANT_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		OpenAIAPIKey: strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:  getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		ArkAPIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkAccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		ArkSecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		ArkModel:     strings.TrimSpace(os.Getenv("ARK_MODEL")),
		ArkBaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		ArkRegion:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:  temp,
		MaxTokens:    maxTokens,
		Endpoint:     strings.TrimSpace(os.Getenv("ASSISTANT_ENDPOINT")),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
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
