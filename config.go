package storesync

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings required to talk to the remote tabular store.
// It is constructed once at process start and passed by parameter; there is
// no package-level configuration state.
type Config struct {
	// AppID identifies this application to the remote store.
	AppID string

	// AccessKey is the static credential attached to every request.
	AccessKey string

	// BaseURL is the root endpoint of the tabular store API.
	BaseURL string

	// Locale is attached as a request property on Add and Edit.
	Locale string

	// RequestTimeout bounds each remote call at the transport level.
	RequestTimeout time.Duration
}

// DefaultConfig provides the non-credential defaults.
var DefaultConfig = Config{
	Locale:         "ja",
	RequestTimeout: 10 * time.Second,
}

// LoadConfig reads configuration from the environment (STORESYNC_ prefix)
// and an optional storesync.yaml in the working directory. Missing
// credentials are a fatal startup condition, reported as
// CONFIGURATION_MISSING.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STORESYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("locale", DefaultConfig.Locale)
	v.SetDefault("request_timeout", DefaultConfig.RequestTimeout)
	for _, key := range []string{"app_id", "access_key", "base_url", "locale", "request_timeout"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	v.SetConfigName("storesync")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	cfg := Config{
		AppID:          v.GetString("app_id"),
		AccessKey:      v.GetString("access_key"),
		BaseURL:        v.GetString("base_url"),
		Locale:         v.GetString("locale"),
		RequestTimeout: v.GetDuration("request_timeout"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.AppID) == "" {
		return NewConfigurationError("application identifier (STORESYNC_APP_ID) is not set")
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return NewConfigurationError("access credential (STORESYNC_ACCESS_KEY) is not set")
	}
	return nil
}
