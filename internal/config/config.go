package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const minJWTSecretLength = 32

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr         string
		CookieSecure bool
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret       string
		TokenTTLMinutes int
		BcryptCost      int
	}
	Export struct {
		DataDir       string
		MaxConcurrent int
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
	Log struct {
		Level  string
		Format string
	}
	CORS struct {
		Origins []string
	}
}

// TokenTTL is the lifetime of issued session tokens.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

// Load reads configuration from environment variables, an optional .env file
// and an optional config file in the working directory.
func Load() (Config, error) {
	// existing environment variables take precedence over .env
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("JOBBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// env values for lists arrive as one string
	if len(cfg.CORS.Origins) == 1 && strings.Contains(cfg.CORS.Origins[0], ",") {
		cfg.CORS.Origins = splitList(cfg.CORS.Origins[0])
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.cookiesecure", false)
	v.SetDefault("database.path", "data/jobboard.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttlminutes", 1440)
	v.SetDefault("auth.bcryptcost", bcrypt.DefaultCost)
	v.SetDefault("export.datadir", "data/exports")
	v.SetDefault("export.maxconcurrent", 2)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "jobboard-reports")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("cors.origins", []string{"*"})
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if len(strings.TrimSpace(c.Auth.JWTSecret)) < minJWTSecretLength {
		return fmt.Errorf("auth jwt secret must be at least %d characters", minJWTSecretLength)
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("auth token ttl must be positive")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > 14 {
		return fmt.Errorf("auth bcrypt cost must be between %d and 14", bcrypt.MinCost)
	}
	if c.Export.MaxConcurrent <= 0 {
		return fmt.Errorf("export max concurrent must be positive")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// NewLogger builds the process logger from the log settings.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(c.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
