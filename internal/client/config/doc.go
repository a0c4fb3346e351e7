// Package config loads runtime configuration for the GameHub terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. GAMEHUB_* environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend base URL
//	-d string   local database path
//	-i int      profile refresh interval (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "https://api.gamehub.example/api",
//	  "request_timeout": "15s",
//	  "database_path": "gamehub.db",
//	  "export_dir": "exports",
//	  "resend_notice_interval": "3s",
//	  "success_ack_delay": "1.5s",
//	  "profile_refresh_interval": "60s",
//	  "log_backend": "zap",
//	  "log_format": "json",
//	  "s3_bucket": "gamehub-exports",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "minioadmin",
//	  "s3_secret_key": "minioadmin"
//	}
package config
