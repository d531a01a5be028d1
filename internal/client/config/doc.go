// Package config loads runtime configuration for the lost-and-found CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c/-config or
//     $LOSTFOUND_CONFIG.
//  3. Environment variables (see parseEnv), e.g. LOSTFOUND_API_URL,
//     CLOUDINARY_CLOUD_NAME and CLOUDINARY_UPLOAD_PRESET.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL, e.g. http://localhost:5000/api
//	-d string   path of the local session database
//	-t int      request timeout (seconds)
//	-i int      account status check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "15s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://lostfound.example.com/api",
//	  "db_path": "/var/lib/lostfound/session.db",
//	  "request_timeout": "15s",
//	  "status_check_interval": "5m",
//	  "image_store": "cloudinary",
//	  "cloudinary": {"cloud_name": "demo", "upload_preset": "lostfound"}
//	}
package config
