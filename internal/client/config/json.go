package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gamehub/internal/flagx"
	"github.com/dmitrijs2005/gamehub/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Intervals use timex.Duration so they can be written as "3s" or as integer
// nanoseconds.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DatabasePath   string         `json:"database_path"`
	ExportDir      string         `json:"export_dir"`

	ResendNoticeInterval   timex.Duration `json:"resend_notice_interval"`
	SuccessAckDelay        timex.Duration `json:"success_ack_delay"`
	ProfileRefreshInterval timex.Duration `json:"profile_refresh_interval"`

	LogBackend string `json:"log_backend"`
	LogFormat  string `json:"log_format"`

	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`
}

// parseJson overlays cfg with the JSON file named by -c or -config in args.
// Without either flag nothing happens. Keys missing from the file keep their
// current values. Read and decode errors panic.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.ExportDir, jc.ExportDir)
	setDuration(&cfg.ResendNoticeInterval, jc.ResendNoticeInterval)
	setDuration(&cfg.SuccessAckDelay, jc.SuccessAckDelay)
	setDuration(&cfg.ProfileRefreshInterval, jc.ProfileRefreshInterval)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
