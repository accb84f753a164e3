package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting the application reads at startup. Values come
// from the environment, optionally seeded from an app.env file in development.
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`

	SESRegion    string `mapstructure:"SES_REGION"`
	SESFromEmail string `mapstructure:"SES_FROM_EMAIL"`
	EmailEnabled bool   `mapstructure:"EMAIL_ENABLED"`

	// Tracking core tunables. The defaults are the documented values: a
	// location entry is reported offline 5 minutes after its last update, the
	// reconciler sweeps every minute, and a pending order expires after 4
	// minutes.
	StalenessWindow  time.Duration `mapstructure:"LOCATION_STALENESS_WINDOW"`
	SweepInterval    time.Duration `mapstructure:"RECONCILER_SWEEP_INTERVAL"`
	PendingOrderTTL  time.Duration `mapstructure:"PENDING_ORDER_TTL"`
	PurgeSweepEnable bool          `mapstructure:"RECONCILER_PURGE_ENABLED"`
}

// LoadConfig reads configuration from app.env in the given path (if present)
// and from the environment, with environment values taking precedence.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	viper.SetDefault("EMAIL_ENABLED", false)
	viper.SetDefault("LOCATION_STALENESS_WINDOW", 5*time.Minute)
	viper.SetDefault("RECONCILER_SWEEP_INTERVAL", time.Minute)
	viper.SetDefault("PENDING_ORDER_TTL", 4*time.Minute)
	viper.SetDefault("RECONCILER_PURGE_ENABLED", false)

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine: everything can come from the environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
