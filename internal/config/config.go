package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Auth    AuthConfig
	Chat    ChatConfig
	Ai      AIConfig
	Events  EventsConfig
}

type AppConfig struct {
	Port               string
	ProjectName        string
	Version            string
	APIPrefix          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	WebFolder          string
}

type StorageConfig struct {
	UploadDir         string
	MaxFileSize       int
	AllowedExtensions []string
}

type AuthConfig struct {
	JwtSecret         string
	AccessTokenExpiry time.Duration
	RequireForFiles   bool
}

type ChatConfig struct {
	MaxMessageSize int           // bytes per inbound WebSocket frame
	IdleTimeout    time.Duration // receive deadline between frames
	PreviewLength  int           // characters of matched context echoed in a reply
	SessionLogPath string        // WebSocket sessions log here, apart from the app log
}

type AIConfig struct {
	GoogleGeminiKey string
	GeminiModel     string
}

type EventsConfig struct {
	NatsURL           string // empty disables the NATS publisher
	VectorEncodeTopic string
	OtelEnabled       bool
	OtelEndpoint      string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			ProjectName:        getEnv("PROJECT_NAME", "Document Processing API"),
			Version:            getEnv("APP_VERSION", "1.0.0"),
			APIPrefix:          getEnv("API_PREFIX", "/api/v1"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			WebFolder:          getEnv("WEB_FOLDER", "www"),
		},
		Storage: StorageConfig{
			UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
			MaxFileSize:       getEnvAsInt("MAX_FILE_SIZE", 10*1024*1024),
			AllowedExtensions: getEnvAsList("ALLOWED_EXTENSIONS", []string{"pdf", "docx", "pptx", "xlsx", "csv", "txt"}),
		},
		Auth: AuthConfig{
			JwtSecret:         getEnv("JWT_SECRET", "Secret key"),
			AccessTokenExpiry: time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
			RequireForFiles:   getEnvAsBool("AUTH_REQUIRE_FILES", false),
		},
		Chat: ChatConfig{
			MaxMessageSize: getEnvAsInt("CHAT_MAX_MESSAGE_SIZE", 1024),
			IdleTimeout:    getEnvAsDuration("CHAT_IDLE_TIMEOUT", 30*time.Second),
			PreviewLength:  getEnvAsInt("CHAT_PREVIEW_LENGTH", 200),
			SessionLogPath: getEnv("CHAT_SESSION_LOG_PATH", "logs/chat_socket.log"),
		},
		Ai: AIConfig{
			GoogleGeminiKey: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash-001"),
		},
		Events: EventsConfig{
			NatsURL:           getEnv("NATS_URL", ""),
			VectorEncodeTopic: getEnv("VECTOR_ENCODE_TOPIC", "ENCODE_DOCUMENT_VECTOR"),
			OtelEnabled:       getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("45s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(strValue, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
