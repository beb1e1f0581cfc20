// Package config loads runtime configuration for the assignhub client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults). The server URL default
//     can be replaced at build time through DefaultServerURL.
//  2. Environment variables (ASSIGNHUB_SERVER_URL, ASSIGNHUB_DB_PATH,
//     ASSIGNHUB_REQUEST_TIMEOUT, ASSIGNHUB_VERBOSE, NO_COLOR), optionally
//     loaded from a dotenv file given with -env.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend
//	-d string   session database path
//	-t int      request timeout (seconds)
//	-v          verbose logging
//
// # JSON schema
//
//	{
//	  "server_url": "http://localhost:3000",
//	  "db_path": "assignhub.db",
//	  "request_timeout": "30s",
//	  "verbose": false,
//	  "color": true
//	}
package config
