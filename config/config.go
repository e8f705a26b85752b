// Package config goroutine-safe settings backed by viper
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	multisig "github.com/Laisky/multisig-hmac"
	"github.com/Laisky/multisig-hmac/log"
)

const (
	// KeyHash name of hash preset
	KeyHash = "hash"
	// KeyThreshold default verify threshold
	KeyThreshold = "threshold"
	// KeyDebug enable debug logs
	KeyDebug = "debug"
)

// Config settings of project
type Config struct {
	sync.RWMutex

	v *viper.Viper
}

// Shared settings of the command line tool
var Shared = New()

// New new settings with defaults
func New() *Config {
	v := viper.New()
	v.SetDefault(KeyHash, multisig.DefaultHashType.String())
	v.SetDefault(KeyThreshold, 1)
	v.SetDefault(KeyDebug, false)
	v.SetEnvPrefix("MULTISIG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &Config{v: v}
}

// BindPFlags bind pflags to settings
func (c *Config) BindPFlags(p *pflag.FlagSet) error {
	c.Lock()
	defer c.Unlock()

	return c.v.BindPFlags(p)
}

// Get get setting by key
func (c *Config) Get(key string) interface{} {
	c.RLock()
	defer c.RUnlock()

	return c.v.Get(key)
}

// GetString get setting by key
func (c *Config) GetString(key string) string {
	c.RLock()
	defer c.RUnlock()

	return c.v.GetString(key)
}

// GetBool get setting by key
func (c *Config) GetBool(key string) bool {
	c.RLock()
	defer c.RUnlock()

	return c.v.GetBool(key)
}

// GetInt get setting by key
func (c *Config) GetInt(key string) int {
	c.RLock()
	defer c.RUnlock()

	return c.v.GetInt(key)
}

// Set set setting by key
func (c *Config) Set(key string, val interface{}) {
	c.Lock()
	defer c.Unlock()

	c.v.Set(key, val)
}

// IsSet check whether key is set
func (c *Config) IsSet(key string) bool {
	c.RLock()
	defer c.RUnlock()

	return c.v.IsSet(key)
}

// LoadFromFile merge settings from file,
// format is decided by extension (yml, yaml, json, toml...)
func (c *Config) LoadFromFile(path string) error {
	fp, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open config file %q", path)
	}
	defer fp.Close() // nolint: errcheck

	c.Lock()
	defer c.Unlock()

	c.v.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))
	if err = c.v.MergeConfig(fp); err != nil {
		return errors.Wrapf(err, "load config from file %q", path)
	}

	log.Shared.Debug("load config", zap.String("file", path))
	return nil
}

// HashType hash preset in settings
func (c *Config) HashType() (multisig.HashType, error) {
	return multisig.ParseHashType(c.GetString(KeyHash))
}

// Scheme build scheme from settings
func (c *Config) Scheme(opts ...multisig.Option) (*multisig.Scheme, error) {
	h, err := c.HashType()
	if err != nil {
		return nil, errors.Wrap(err, "parse hash type")
	}

	opts = append([]multisig.Option{multisig.WithHashType(h)}, opts...)
	s, err := multisig.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "new scheme")
	}

	return s, nil
}
