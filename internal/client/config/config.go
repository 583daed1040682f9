package config

import "time"

// Push registration modes.
const (
	PushInstallation = "installation"
	PushStatic       = "static"
	PushDisabled     = "disabled"
)

// Config holds runtime settings for the petadopt CLI.
//
// Fields:
//   - APIBaseURL: base URL every relative request path is resolved against.
//   - RequestTimeout: per-request deadline applied by the HTTP client.
//   - DatabasePath: sqlite file holding the session and the offline pet cache.
//   - LogBackend/LogLevel/LogFormat: see logging.Options.
//   - PushMode/PushToken: how a device token is obtained after login.
//   - Image*: optional S3-compatible bucket for pet photos. Uploads are
//     disabled while ImageBucket is empty.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabasePath   string

	LogBackend string
	LogLevel   string
	LogFormat  string

	PushMode  string
	PushToken string

	ImageBucket        string
	ImageRegion        string
	ImageEndpoint      string
	ImageAccessKey     string
	ImageSecretKey     string
	ImagePublicBaseURL string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "petadopt.db"
	c.LogBackend = "slog"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.PushMode = PushInstallation
	c.ImageRegion = "us-east-1"
}

// ImagesEnabled reports whether pet photo uploads are configured.
func (c *Config) ImagesEnabled() bool {
	return c.ImageBucket != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
