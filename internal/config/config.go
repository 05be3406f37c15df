package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type AuthConfig struct {
	Enabled         bool   `yaml:"enabled"`
	InitialAdminKey string `yaml:"initialAdminKey"`
}

type RateLimitConfig struct {
	DefaultPerMinute int `yaml:"defaultPerMinute"`
}

// CrawlerConfig describes the remote full-site crawl service.
type CrawlerConfig struct {
	BaseURL        string `yaml:"baseURL"`
	APIKey         string `yaml:"apiKey"`
	MaxDepth       int    `yaml:"maxDepth"`
	WaitForMs      int    `yaml:"waitForMs"`
	MaxAttempts    int    `yaml:"maxAttempts"`
	PollIntervalMs int    `yaml:"pollIntervalMs"`
}

// GoogleLLMConfig configures the Gemini-style generateContent endpoint.
// When CredentialsFile is set the client authenticates with a
// service-account bearer token; otherwise APIKey is passed as a query
// parameter. Exactly one path is used per call.
type GoogleLLMConfig struct {
	APIKey          string `yaml:"apiKey"`
	CredentialsFile string `yaml:"credentialsFile"`
	Model           string `yaml:"model"`
	BaseURL         string `yaml:"baseURL"`
}

type LLMConfig struct {
	Google GoogleLLMConfig `yaml:"google"`
}

type ExtractorConfig struct {
	MaxInputChars int `yaml:"maxInputChars"`
}

type ScreenshotConfig struct {
	Enabled   bool `yaml:"enabled"`
	TimeoutMs int  `yaml:"timeoutMs"`
}

type WorkerConfig struct {
	MaxConcurrentJobs int `yaml:"maxConcurrentJobs"`
	PollIntervalMs    int `yaml:"pollIntervalMs"`
}

// JobTTLConfig controls per-job-type retention in days.
type JobTTLConfig struct {
	DefaultDays int `yaml:"defaultDays"`
	ScrapeDays  int `yaml:"scrapeDays"`
	ExtractDays int `yaml:"extractDays"`
}

// RetentionConfig controls TTL-like deletion of old jobs so the
// database does not grow without bound over time.
type RetentionConfig struct {
	Enabled                bool         `yaml:"enabled"`
	CleanupIntervalMinutes int          `yaml:"cleanupIntervalMinutes"`
	Jobs                   JobTTLConfig `yaml:"jobs"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit"`
	Crawler    CrawlerConfig    `yaml:"crawler"`
	LLM        LLMConfig        `yaml:"llm"`
	Extractor  ExtractorConfig  `yaml:"extractor"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Worker     WorkerConfig     `yaml:"worker"`
	Retention  RetentionConfig  `yaml:"retention"`
}

func Load(path string) *Config {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open config file: %v", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		log.Fatalf("failed to decode config: %v", err)
	}

	return &cfg
}
