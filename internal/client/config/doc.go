// Package config loads runtime configuration for the SkillSwap client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: an optional ./.env file, then SKILLSWAP_* variables.
//  3. Optional config file selected with -c or -config. Files ending in
//     .yaml/.yml are read as YAML, anything else as JSON.
//  4. Command-line flags, which override everything above.
//
// Environment variables
//
//	SKILLSWAP_API_URL          API base URL
//	SKILLSWAP_REQUEST_TIMEOUT  duration, e.g. "15s"
//	SKILLSWAP_DB_PATH          local credential database path
//	SKILLSWAP_LOG_LEVEL        debug|info|warn|error
//	SKILLSWAP_LOG_FORMAT       text|json
//	SKILLSWAP_RATE_LIMIT       requests per second (0 = unlimited)
//
// Supported flags
//
//	-a string   API base URL
//	-t int      request timeout (seconds)
//	-d string   local credential database path
//	-l string   log level
//
// # File schema
//
//	{
//	  "api_base_url": "http://localhost:5000/api",
//	  "request_timeout": "10s",
//	  "database_path": "skillswap.db",
//	  "log_level": "debug",
//	  "log_format": "json",
//	  "rate_limit": 5
//	}
package config
