// Package config loads runtime configuration for the vault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (comments allowed) selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the vault gRPC endpoint
//	-f string   path of the file the login session is kept in
//	-t int      per-request timeout (seconds)
//
// # JSON schema
//
//	{
//	  // where the server listens
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "session_file": "/home/alice/.gophvault/session.json",
//	  "request_timeout": "30s"
//	}
package config
