package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Oracle struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type Store struct {
	Path string `mapstructure:"path"`
}

type Compare struct {
	MinSampleSize int `mapstructure:"min_sample_size"`
}

type Config struct {
	Server  Server  `mapstructure:"server"`
	Oracle  Oracle  `mapstructure:"oracle"`
	Store   Store   `mapstructure:"store"`
	Compare Compare `mapstructure:"compare"`
}

func (o Oracle) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// Load reads the config file and applies CHURN_SCOPE_* environment
// overrides, e.g. CHURN_SCOPE_ORACLE_BASE_URL.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("CHURN_SCOPE")
	v.AutomaticEnv()

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("oracle.base_url", "http://localhost:8000")
	v.SetDefault("oracle.timeout_seconds", 10)
	v.SetDefault("store.path", "churn-scope.db")
	v.SetDefault("compare.min_sample_size", 30)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
