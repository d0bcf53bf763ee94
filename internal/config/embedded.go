package config

// EmbeddedTMDBKey is injected at build time and serves as the default API key.
// Environment variables and the config file take precedence.
//
// Build with:
//
//	go build -ldflags "-X 'github.com/cinetrack/cinetrack/internal/config.EmbeddedTMDBKey=xxx'"
var EmbeddedTMDBKey string
