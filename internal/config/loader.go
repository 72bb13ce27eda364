package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/hpn/hpn-relay/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultConfigName = "config"
	defaultConfigType = "yaml"
	envPrefix         = "RELAY"

	// DefaultBodyLimitBytes caps inbound JSON bodies at 1 MiB.
	DefaultBodyLimitBytes = 1 << 20
)

// LoadDotEnv loads variables from .env files into the process environment.
// Variables already set are not overridden. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return &ConfigError{
				Op:  "dotenv",
				Err: fmt.Errorf("failed to load %s: %w", file, err),
			}
		}
	}

	return nil
}

// Load loads the configuration from environment variables and files.
// Priority order (highest to lowest):
// 1. Bare variables: PORT, CORS_ORIGIN, <VENDOR>_API_KEY
// 2. Prefixed variables (RELAY_SERVER_PORT, RELAY_PROVIDERS_OPENAI_BASE_URL, ...)
// 3. config.yaml (or configPath when non-empty)
// 4. Default values
func Load(configPath string) (*Configuration, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName(defaultConfigName)
	v.SetConfigType(defaultConfigType)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/hpn-relay")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, &ConfigError{Op: "bind_env", Err: err}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &ConfigError{
				Op:  "read",
				Err: fmt.Errorf("failed to read config file: %w", err),
			}
		}
		// Config file not found is OK - environment variables are enough
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{
			Op:  "unmarshal",
			Err: fmt.Errorf("failed to unmarshal config: %w", err),
		}
	}

	trimKeys(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.static_dir", "public")
	v.SetDefault("server.body_limit_bytes", DefaultBodyLimitBytes)
	v.SetDefault("server.read_timeout_seconds", 30)
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	// Vendor calls are unbounded unless configured
	v.SetDefault("http.timeout_seconds", 0)

	// Empty base URL means the adapter's public default
	for _, p := range domain.AllProviders() {
		v.SetDefault(fmt.Sprintf("providers.%s.base_url", p), "")
	}

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.console", false)
}

// bindEnv maps the unprefixed variable names used by common deployments
// (Vercel, Heroku, docker-compose) onto config keys.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"server.port":        {"PORT", "RELAY_SERVER_PORT"},
		"server.cors_origin": {"CORS_ORIGIN", "RELAY_SERVER_CORS_ORIGIN"},
	}
	for _, p := range domain.AllProviders() {
		key := fmt.Sprintf("providers.%s.api_key", p)
		bindings[key] = []string{p.APIKeyEnv(), envPrefix + "_PROVIDERS_" + strings.ToUpper(string(p)) + "_API_KEY"}
	}

	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// trimKeys strips whitespace that commonly sneaks into copied API keys.
func trimKeys(cfg *Configuration) {
	for _, pc := range []*ProviderConfig{
		&cfg.Providers.OpenAI,
		&cfg.Providers.Anthropic,
		&cfg.Providers.Gemini,
		&cfg.Providers.Groq,
		&cfg.Providers.Mistral,
		&cfg.Providers.XAI,
	} {
		pc.APIKey = strings.TrimSpace(pc.APIKey)
		pc.BaseURL = strings.TrimSpace(pc.BaseURL)
	}
}
