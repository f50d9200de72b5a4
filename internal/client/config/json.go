package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avelkov/dreamchat/internal/flagx"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given as strings understood by time.ParseDuration ("15s", "80ms").
type jsonConfig struct {
	ServerBaseURL     string `json:"server_base_url"`
	DatabasePath      string `json:"database_path"`
	KeyFilePath       string `json:"key_file_path"`
	RequestTimeout    string `json:"request_timeout"`
	SplashDelay       string `json:"splash_delay"`
	TypingTickHangul  string `json:"typing_tick_hangul"`
	TypingTickDefault string `json:"typing_tick_default"`
}

// parseJSON overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags; when neither is given,
// no JSON is loaded. Read or unmarshal errors panic (caller may recover),
// matching the fail-fast behavior of the flags stage.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc jsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.KeyFilePath != "" {
		cfg.KeyFilePath = jc.KeyFilePath
	}
	overlayDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	overlayDuration(&cfg.SplashDelay, jc.SplashDelay)
	overlayDuration(&cfg.TypingTickHangul, jc.TypingTickHangul)
	overlayDuration(&cfg.TypingTickDefault, jc.TypingTickDefault)
}

func overlayDuration(dst *time.Duration, s string) {
	if s == "" {
		return
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}
	*dst = d
}
