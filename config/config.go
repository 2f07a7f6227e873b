package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// defaultSecretKey mirrors the development fallback used by the Node backend
// that issues the tokens. Production deployments must set SECRET_KEY.
const defaultSecretKey = "your-secret-key-here"

// Config holds every runtime setting, loaded once at startup.
type Config struct {
	Port                 string
	FFmpegPath           string
	AzureSpeechKey       string
	AzureSpeechRegion    string
	SpeechLanguage       string
	AssessTimeoutSeconds int
	ASRMaxConcurrent     int
	SecretKey            string
	SupabaseURL          string
	SupabaseServiceKey   string
	WorkerCount          int
	JobQueueSize         int
}

// LoadConfig reads the environment, preferring a local .env file when one
// exists.
func LoadConfig() *Config {
	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("THERAPY_PORT", "5002"),
		FFmpegPath:           getEnv("FFMPEG_PATH", "ffmpeg"),
		AzureSpeechKey:       os.Getenv("AZURE_SPEECH_KEY"),
		AzureSpeechRegion:    getEnv("AZURE_SPEECH_REGION", "eastus"),
		SpeechLanguage:       getEnv("SPEECH_LANGUAGE", "en-US"),
		AssessTimeoutSeconds: getEnvInt("ASSESS_TIMEOUT_SECONDS", 30),
		ASRMaxConcurrent:     getEnvInt("ASR_MAX_CONCURRENT", 4),
		SecretKey:            os.Getenv("SECRET_KEY"),
		SupabaseURL:          os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey:   os.Getenv("SUPABASE_SERVICE_KEY"),
		WorkerCount:          getEnvInt("WORKER_COUNT", 2),
		JobQueueSize:         getEnvInt("JOB_QUEUE_SIZE", 64),
	}

	if cfg.SecretKey == "" {
		cfg.SecretKey = defaultSecretKey
		if Log != nil {
			Log.Warn("SECRET_KEY not set, using the development default")
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
