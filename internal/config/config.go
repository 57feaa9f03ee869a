package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	RateLimit       string        `mapstructure:"rate_limit"`
}

// DownstreamConfig represents one downstream service endpoint
type DownstreamConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// JWTConfig represents token validation configuration. The gateway only
// verifies tokens; issuance belongs to the interpreter.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// Config represents the gateway configuration
type Config struct {
	LogLevel     string           `mapstructure:"log_level"`
	Server       ServerConfig     `mapstructure:"server"`
	Interpreter  DownstreamConfig `mapstructure:"interpreter"`
	Orchestrator DownstreamConfig `mapstructure:"orchestrator"`
	JWT          JWTConfig        `mapstructure:"jwt"`
	// CallbackURL is handed to the orchestrator so it can report container
	// state changes back to this gateway.
	CallbackURL string `mapstructure:"callback_url"`
}

// Load reads configuration from config.yaml (when present) and the
// environment. Environment variables use the GATEWAY_ prefix with
// underscores, e.g. GATEWAY_INTERPRETER_BASE_URL.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit", "100-M")

	v.SetDefault("interpreter.base_url", "http://interpreter:8000")
	v.SetDefault("interpreter.request_timeout", 20*time.Second)
	v.SetDefault("interpreter.connect_timeout", 5*time.Second)

	v.SetDefault("orchestrator.base_url", "http://orchestrator:8080")
	v.SetDefault("orchestrator.request_timeout", 60*time.Second)
	v.SetDefault("orchestrator.connect_timeout", 5*time.Second)

	v.SetDefault("callback_url", "http://backend:8000/containers/callback")

	// Registered with an empty default so AutomaticEnv can fill it; Load
	// rejects the empty value afterwards.
	v.SetDefault("jwt.secret", "")
}

func validate(cfg *Config) error {
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if cfg.Interpreter.BaseURL == "" {
		return fmt.Errorf("interpreter.base_url is required")
	}
	if cfg.Orchestrator.BaseURL == "" {
		return fmt.Errorf("orchestrator.base_url is required")
	}
	return nil
}
