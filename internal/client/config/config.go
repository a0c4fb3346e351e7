package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the GameHub terminal client.
//
// Units: every interval is a time.Duration. Flags take whole seconds, JSON
// takes "3s"-style strings or integer nanoseconds, the environment takes
// time.ParseDuration strings.
type Config struct {
	ServerURL      string        `env:"GAMEHUB_SERVER_URL"`
	RequestTimeout time.Duration `env:"GAMEHUB_REQUEST_TIMEOUT"`
	DatabasePath   string        `env:"GAMEHUB_DATABASE_PATH"`
	ExportDir      string        `env:"GAMEHUB_EXPORT_DIR"`

	ResendNoticeInterval   time.Duration `env:"GAMEHUB_RESEND_NOTICE_INTERVAL"`
	SuccessAckDelay        time.Duration `env:"GAMEHUB_SUCCESS_ACK_DELAY"`
	ProfileRefreshInterval time.Duration `env:"GAMEHUB_PROFILE_REFRESH_INTERVAL"`

	LogBackend string `env:"GAMEHUB_LOG_BACKEND"`
	LogFormat  string `env:"GAMEHUB_LOG_FORMAT"`

	// S3 export sink; exports go to ExportDir while S3Bucket is empty.
	S3Bucket       string `env:"GAMEHUB_S3_BUCKET"`
	S3Region       string `env:"GAMEHUB_S3_REGION"`
	S3BaseEndpoint string `env:"GAMEHUB_S3_BASE_ENDPOINT"`
	S3AccessKey    string `env:"GAMEHUB_S3_ACCESS_KEY"`
	S3SecretKey    string `env:"GAMEHUB_S3_SECRET_KEY"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000/api"
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "gamehub.db"
	c.ExportDir = "exports"
	c.ResendNoticeInterval = 3 * time.Second
	c.SuccessAckDelay = 1500 * time.Millisecond
	c.ProfileRefreshInterval = 60 * time.Second
	c.LogBackend = "slog"
	c.LogFormat = "text"
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones. Invalid input panics.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	if err := parseEnv(cfg); err != nil {
		panic(err)
	}
	parseFlags(cfg, args)
	return cfg
}
