// Package config loads runtime configuration for the petadopt CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-t int      request timeout (seconds)
//	-d string   path to the local sqlite database
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so "15s" and integer nanoseconds both work.
// Keys that are absent or empty leave the current value untouched:
//
//	{
//	  "api_base_url": "https://pets.example.com/api",
//	  "request_timeout": "15s",
//	  "database_path": "/var/lib/petadopt/client.db",
//	  "log_backend": "zerolog",
//	  "log_level": "debug",
//	  "log_format": "json",
//	  "push_mode": "static",
//	  "push_token": "fcm-device-token",
//	  "image_bucket": "pet-photos",
//	  "image_region": "eu-central-1",
//	  "image_endpoint": "http://localhost:9000",
//	  "image_access_key": "minio",
//	  "image_secret_key": "minio123",
//	  "image_public_base_url": "https://cdn.example.com/pet-photos"
//	}
//
// Environment variables are not read.
package config
