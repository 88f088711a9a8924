package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is loaded once at startup and
// passed explicitly into the pipeline; nothing reads the environment mid-run.
type Config struct {
	Port            string
	Env             string
	Debug           bool
	CORSAllowOrigin []string

	// Artifact layout on local disk.
	DataDir string

	// Pipeline knobs.
	TokenLimit   int
	FanoutWidth  int
	JobURL       string
	CorpusEnable bool

	// Gemini.
	GeminiAPIKey   string
	ExtractModel   string
	EmbeddingModel string

	// Record store (optional Postgres sink).
	DatabaseURL string

	// Cloud push target (optional).
	AWSRegion   string
	S3Bucket    string
	S3Prefix    string
	SSEKMSKeyID string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		Debug:           getEnvBool("DEBUG", false),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DataDir:         getEnv("DATA_DIR", "./artifacts"),
		TokenLimit:      getEnvInt("RESUME_TOKEN_LIMIT", 4000),
		FanoutWidth:     getEnvInt("FANOUT_WIDTH", 8),
		JobURL:          getEnv("JD_URL", ""),
		CorpusEnable:    getEnvBool("TRAIN_CORPUS_ENABLE", true),
		GeminiAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		ExtractModel:    getEnv("LLM_MODEL", "gemini-2.5-pro"),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
