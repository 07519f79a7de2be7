// Package config provides centralized configuration management for the
// Monad-MCP daemon: upstream service endpoints, outbound HTTP timeouts,
// the chain profile location, and logging behaviour. Configuration is read
// once at startup from an optional JSON file and never reloaded.
package config
