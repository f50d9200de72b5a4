// Package config assembles runtime settings for the dream chat CLI from
// defaults, a .env file, an optional JSON file, and command-line flags.
// Later sources take precedence over earlier ones.
package config

import "time"

// Config holds runtime settings for the client.
//
// TypingTickHangul/TypingTickDefault are the per-character delays of the
// bot typing-reveal animation; Hangul characters read slower, so they get
// the longer interval.
type Config struct {
	ServerBaseURL     string
	DatabasePath      string
	KeyFilePath       string
	RequestTimeout    time.Duration
	SplashDelay       time.Duration
	TypingTickHangul  time.Duration
	TypingTickDefault time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:3000"
	c.DatabasePath = "dreamchat.db"
	c.KeyFilePath = "dreamchat.key"
	c.RequestTimeout = 15 * time.Second
	c.SplashDelay = time.Second
	c.TypingTickHangul = 80 * time.Millisecond
	c.TypingTickDefault = 30 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (.env included), JSON (if present), and
// command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
