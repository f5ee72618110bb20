package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"
	StoragePostgres StorageDriver = "postgres"
	StorageSQLite   StorageDriver = "sqlite"
	StorageFirebase StorageDriver = "firebase"
)

type AuthProvider string

const (
	// AuthDev acepta X-Debug-User-ID sin verificar nada. Solo local.
	AuthDev      AuthProvider = "dev"
	AuthFirebase AuthProvider = "firebase"
)

type AIProvider string

const (
	ProviderOpenAI AIProvider = "openai"
	ProviderYandex AIProvider = "yandex"
)

type Config struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"pet-health-chat"`

	// Storage
	StorageDriver StorageDriver `env:"STORAGE_DRIVER" envDefault:"memory"`
	DBDSN         string        `env:"DB_DSN"`
	SQLitePath    string        `env:"SQLITE_PATH" envDefault:"data/pets.db"`

	// Auth
	AuthProvider AuthProvider `env:"AUTH_PROVIDER" envDefault:"dev"`

	// Firebase (auth y/o realtime database)
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `env:"FIREBASE_ADMIN_SDK_PATH"`
	FirebaseDatabaseURL     string `env:"FIREBASE_DATABASE_URL"`

	// AI
	AIProvider    AIProvider    `env:"AI_PROVIDER" envDefault:"openai"`
	AIAPIKey      string        `env:"GEMINI_API_KEY"`
	AIBaseURL     string        `env:"AI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	AIModel       string        `env:"GEMINI_AI_MODEL" envDefault:"gemini-2.0-flash"`
	AITemperature float32       `env:"AI_TEMPERATURE" envDefault:"0.7"`
	AITopP        float32       `env:"AI_TOP_P" envDefault:"0.8"`
	AIMaxTokens   int           `env:"AI_MAX_OUTPUT_TOKENS" envDefault:"1000"`
	AITimeout     time.Duration `env:"AI_TIMEOUT" envDefault:"30s"`

	YandexOAuthToken string `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string `env:"YANDEX_FOLDER_ID"`

	// Chat
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	SessionMaxEntries  int           `env:"SESSION_MAX_ENTRIES" envDefault:"1000"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	SessionSweepSpec   string        `env:"SESSION_SWEEP_SPEC" envDefault:"@every 5m"`
	PromptsPath        string        `env:"PROMPTS_PATH"`
}

// Load parsea env vars. No carga .env; eso lo hace main con godotenv.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("config: DB_DSN required for storage driver %q", c.StorageDriver)
		}
	case StorageFirebase:
		if strings.TrimSpace(c.FirebaseDatabaseURL) == "" {
			return fmt.Errorf("config: FIREBASE_DATABASE_URL required for storage driver %q", c.StorageDriver)
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.StorageDriver)
	}

	switch c.AuthProvider {
	case AuthDev, AuthFirebase:
	default:
		return fmt.Errorf("config: unknown auth provider %q", c.AuthProvider)
	}

	switch c.AIProvider {
	case ProviderOpenAI:
		if strings.TrimSpace(c.AIAPIKey) == "" {
			return fmt.Errorf("config: GEMINI_API_KEY is not defined")
		}
	case ProviderYandex:
		if strings.TrimSpace(c.YandexOAuthToken) == "" || strings.TrimSpace(c.YandexFolderID) == "" {
			return fmt.Errorf("config: YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID required")
		}
	default:
		return fmt.Errorf("config: unknown ai provider %q", c.AIProvider)
	}

	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MINUTE must be > 0")
	}
	return nil
}

func (c *Config) UsesFirebase() bool {
	return c.AuthProvider == AuthFirebase || c.StorageDriver == StorageFirebase
}

// Prompts permite pisar los textos del asistente desde un YAML.
// Campos vacíos = usar el default del paquete chat.
type Prompts struct {
	System          string `yaml:"system"`
	Acknowledgment  string `yaml:"acknowledgment"`
	GreetingGeneral string `yaml:"greeting_general"`
	GreetingPet     string `yaml:"greeting_pet"`
	GreetingHistory string `yaml:"greeting_pet_with_history"`
}

// LoadPrompts lee el YAML de prompts. path vacío => Prompts{} sin error.
func LoadPrompts(path string) (Prompts, error) {
	var p Prompts
	if strings.TrimSpace(path) == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read prompts: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("parse prompts: %w", err)
	}
	return p, nil
}
