package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// translator
	TranslatorAPIKey  string
	TranslatorBaseURL string
	TranslatorModel   string
	TranslatorTimeout time.Duration

	// speech
	STTBackend        string
	TTSBackend        string
	DeepgramAPIKey    string
	GoogleAPIKey      string
	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string
	OpenAIAPIKey      string
	OpenAIBaseURL     string

	// artifacts
	ArtifactStore     string
	ArtifactDir       string
	ArtifactFixedName string
	S3Endpoint        string
	S3AccessKey       string
	S3SecretKey       string
	S3Bucket          string
	S3Region          string

	TextRulesFile      string
	RateLimitPerMinute int

	TelegramBotToken    string
	TelegramAdminChatID int64

	DefaultSourceLanguage string
	DefaultTargetLanguage string
}

// Load reads .env (if any) and the process environment.
// Отсутствие ключа переводчика здесь не ошибка: он проверяется при первом вызове.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getenv("PORT", "8080"),

		TranslatorAPIKey:  getenv("TRANSLATOR_API_KEY", os.Getenv("OPENAI_API_KEY")),
		TranslatorBaseURL: os.Getenv("TRANSLATOR_BASE_URL"),
		TranslatorModel:   getenv("TRANSLATOR_MODEL", "gpt-4o-mini"),
		TranslatorTimeout: getDuration("TRANSLATOR_TIMEOUT", 60*time.Second),

		STTBackend:        getenv("STT_BACKEND", "whisper"),
		TTSBackend:        getenv("TTS_BACKEND", "openai"),
		DeepgramAPIKey:    os.Getenv("DEEPGRAM_API_KEY"),
		GoogleAPIKey:      os.Getenv("GOOGLE_API_KEY"),
		ElevenLabsAPIKey:  os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsVoiceID: getenv("ELEVENLABS_VOICE_ID", "EXAVITQu4vr4xnSDxMaL"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),

		ArtifactStore:     getenv("ARTIFACT_STORE", "local"),
		ArtifactDir:       getenv("ARTIFACT_DIR", "./artifacts"),
		ArtifactFixedName: os.Getenv("ARTIFACT_FIXED_NAME"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKey:       os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:       os.Getenv("S3_SECRET_KEY"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          os.Getenv("S3_REGION"),

		TextRulesFile:      os.Getenv("TEXT_RULES_FILE"),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 30),

		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAdminChatID: int64(getInt("TELEGRAM_ADMIN_CHAT_ID", 0)),

		DefaultSourceLanguage: getenv("DEFAULT_SOURCE_LANGUAGE", "English"),
		DefaultTargetLanguage: getenv("DEFAULT_TARGET_LANGUAGE", "Spanish"),
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
