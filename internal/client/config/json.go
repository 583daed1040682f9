package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/petadopt/internal/flagx"
	"github.com/dmitrijs2005/petadopt/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DatabasePath   string         `json:"database_path"`

	LogBackend string `json:"log_backend"`
	LogLevel   string `json:"log_level"`
	LogFormat  string `json:"log_format"`

	PushMode  string `json:"push_mode"`
	PushToken string `json:"push_token"`

	ImageBucket        string `json:"image_bucket"`
	ImageRegion        string `json:"image_region"`
	ImageEndpoint      string `json:"image_endpoint"`
	ImageAccessKey     string `json:"image_access_key"`
	ImageSecretKey     string `json:"image_secret_key"`
	ImagePublicBaseURL string `json:"image_public_base_url"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing. Read and unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setString(&cfg.DatabasePath, jc.DatabasePath)

	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	setString(&cfg.PushMode, jc.PushMode)
	setString(&cfg.PushToken, jc.PushToken)

	setString(&cfg.ImageBucket, jc.ImageBucket)
	setString(&cfg.ImageRegion, jc.ImageRegion)
	setString(&cfg.ImageEndpoint, jc.ImageEndpoint)
	setString(&cfg.ImageAccessKey, jc.ImageAccessKey)
	setString(&cfg.ImageSecretKey, jc.ImageSecretKey)
	setString(&cfg.ImagePublicBaseURL, jc.ImagePublicBaseURL)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
