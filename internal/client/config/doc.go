// Package config loads runtime configuration for the authority CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. AUTHORITY_CLI_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-r int      per-request timeout (seconds)
//	-l string   path of the local SQLite store (token and identities)
//
// # JSON schema
//
// The request timeout uses timex.Duration, so it can be either a string
// like "5s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s",
//	  "local_db": "/home/me/.authority.db"
//	}
package config
