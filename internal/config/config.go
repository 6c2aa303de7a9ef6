package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	JWTSecret       string `mapstructure:"JWT_SECRET"`
	TokenTTLMinutes int    `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	BcryptCost      int    `mapstructure:"BCRYPT_COST"`

	ModelPath string `mapstructure:"MODEL_PATH"`

	GroqAPIKey        string  `mapstructure:"GROQ_API_KEY"`
	GroqBaseURL       string  `mapstructure:"GROQ_BASE_URL"`
	LLMModelName      string  `mapstructure:"LLM_MODEL_NAME"`
	LLMTemperature    float64 `mapstructure:"LLM_TEMPERATURE"`
	LLMTimeoutSeconds int     `mapstructure:"LLM_TIMEOUT_SECONDS"`

	RateLimitPerMinute  int `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	LoginRatePerMinute  int `mapstructure:"LOGIN_RATE_PER_MINUTE"`
	SignupRatePerMinute int `mapstructure:"SIGNUP_RATE_PER_MINUTE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("MODEL_PATH", "model/maternal_risk.json")
	v.SetDefault("GROQ_BASE_URL", "https://api.groq.com/openai")
	v.SetDefault("LLM_MODEL_NAME", "llama-3.3-70b-versatile")
	v.SetDefault("LLM_TEMPERATURE", 0.3)
	v.SetDefault("LLM_TIMEOUT_SECONDS", 30)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 5)
	v.SetDefault("SIGNUP_RATE_PER_MINUTE", 10)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("ACCESS_TOKEN_EXPIRE_MINUTES")
	v.BindEnv("BCRYPT_COST")
	v.BindEnv("MODEL_PATH")
	v.BindEnv("GROQ_API_KEY")
	v.BindEnv("GROQ_BASE_URL")
	v.BindEnv("LLM_MODEL_NAME")
	v.BindEnv("LLM_TEMPERATURE")
	v.BindEnv("LLM_TIMEOUT_SECONDS")
	v.BindEnv("RATE_LIMIT_PER_MINUTE")
	v.BindEnv("LOGIN_RATE_PER_MINUTE")
	v.BindEnv("SIGNUP_RATE_PER_MINUTE")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() && cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-insecure-signing-key"
		log.Println("WARNING: JWT_SECRET not set; using an insecure development key.")
		log.Println("WARNING: Set JWT_SECRET and ENV=production before deploying.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// the JWT signing secret must be provided; issuing tokens with the baked-in
// development key would make every deployment forgeable.
func (c *Config) Validate() error {
	if !c.IsDev() && (c.JWTSecret == "" || c.JWTSecret == "dev-insecure-signing-key") {
		return fmt.Errorf("JWT_SECRET must be set when ENV=%q; refusing to start with a forgeable signing key", c.Env)
	}
	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", c.TokenTTLMinutes)
	}
	if c.BcryptCost < 10 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 10 and 31, got %d", c.BcryptCost)
	}
	if c.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH is required; the risk classifier cannot start without a model artifact")
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be in [0, 2], got %g", c.LLMTemperature)
	}
	if c.GroqAPIKey == "" {
		// Not fatal: the advice layer runs in degraded mode without a key.
		log.Println("WARNING: GROQ_API_KEY not set; advice generation will return the degraded fallback text.")
	}
	return nil
}
