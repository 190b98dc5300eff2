// Package config reads client configuration from a .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/shaunb-optile/trustly-client-go/pkg/canonical"
	"github.com/shaunb-optile/trustly-client-go/pkg/keystore"
	"github.com/shaunb-optile/trustly-client-go/pkg/log"
	"github.com/shaunb-optile/trustly-client-go/pkg/metrics"
	"github.com/shaunb-optile/trustly-client-go/pkg/rpc"
)

const (
	configDirPathEnv     = "TRUSTLY_CONFIG_DIR_PATH"
	defaultConfigDirPath = "."
)

var ErrMissingKeyPath = errors.New("key path is not configured")

// Config represents the client configuration
type Config struct {
	Username string `env:"TRUSTLY_USERNAME"`
	Password string `env:"TRUSTLY_PASSWORD"`

	// PrivateKeyPath is the merchant's PEM private key.
	PrivateKeyPath string `env:"TRUSTLY_PRIVATE_KEY_PATH"`
	// PublicKeyPath is the API's PEM public key or certificate.
	PublicKeyPath string `env:"TRUSTLY_PUBLIC_KEY_PATH"`

	// CanonicalFormat is "values" or "keyvalue".
	CanonicalFormat string `env:"TRUSTLY_CANONICAL_FORMAT" env-default:"values"`

	Log log.Config
}

// Load builds configuration from <TRUSTLY_CONFIG_DIR_PATH>/.env, if present,
// and environment variables. Variables already set take precedence over the
// file.
func Load(logger log.Logger) (*Config, error) {
	logger = log.OrNoop(logger).WithName("config")

	configDirPath := os.Getenv(configDirPathEnv)
	if configDirPath == "" {
		configDirPath = defaultConfigDirPath
	}

	configDotEnvPath := filepath.Join(configDirPath, ".env")
	logger.Debug("loading .env file", "path", configDotEnvPath)
	if err := godotenv.Load(configDotEnvPath); err != nil {
		logger.Debug(".env file not found", "path", configDotEnvPath)
	}

	var conf Config
	if err := cleanenv.ReadEnv(&conf); err != nil {
		logger.Error("failed to read env", "err", err)
		return nil, err
	}

	if _, err := conf.Format(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Format returns the configured canonical format.
func (c *Config) Format() (canonical.Format, error) {
	return canonical.ParseFormat(c.CanonicalFormat)
}

// PrivateKeySource returns the source of the merchant private key.
func (c *Config) PrivateKeySource() (keystore.Source, error) {
	if c.PrivateKeyPath == "" {
		return nil, fmt.Errorf("%w: TRUSTLY_PRIVATE_KEY_PATH", ErrMissingKeyPath)
	}
	return keystore.FileSource(c.PrivateKeyPath), nil
}

// PublicKeySource returns the source of the API public key.
func (c *Config) PublicKeySource() (keystore.Source, error) {
	if c.PublicKeyPath == "" {
		return nil, fmt.Errorf("%w: TRUSTLY_PUBLIC_KEY_PATH", ErrMissingKeyPath)
	}
	return keystore.FileSource(c.PublicKeyPath), nil
}

// BuilderConfig loads both keys through store and returns a ready
// rpc.BuilderConfig.
func (c *Config) BuilderConfig(store *keystore.Store, logger log.Logger, m *metrics.Metrics) (rpc.BuilderConfig, error) {
	format, err := c.Format()
	if err != nil {
		return rpc.BuilderConfig{}, err
	}

	privSrc, err := c.PrivateKeySource()
	if err != nil {
		return rpc.BuilderConfig{}, err
	}
	pubSrc, err := c.PublicKeySource()
	if err != nil {
		return rpc.BuilderConfig{}, err
	}

	priv, err := store.LoadPrivateKey(privSrc)
	if err != nil {
		return rpc.BuilderConfig{}, err
	}
	pub, err := store.LoadPublicKey(pubSrc)
	if err != nil {
		return rpc.BuilderConfig{}, err
	}

	return rpc.BuilderConfig{
		PrivateKey: priv,
		PublicKey:  pub,
		Username:   c.Username,
		Password:   c.Password,
		Canonical:  canonical.Options{Format: format},
		Logger:     logger,
		Metrics:    m,
	}, nil
}
