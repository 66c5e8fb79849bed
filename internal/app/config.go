package app

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"dhchat/internal/services/keys"
	"dhchat/internal/services/server"
	"dhchat/internal/store"
)

// EnvPrefix prefixes environment variables, e.g. DHCHAT_KEY_FILE.
const EnvPrefix = "DHCHAT"

// Config holds runtime wiring options for building the app.
type Config struct {
	KeyFile     string `mapstructure:"key_file"`     // server key file, e.g. server.key
	Host        string `mapstructure:"host"`         // server bind host
	Port        int    `mapstructure:"port"`         // server port; 0 prompts
	Address     string `mapstructure:"address"`      // first client address; empty prompts
	Modulus     uint64 `mapstructure:"modulus"`      // default modulus offered when creating a key
	Generator   uint64 `mapstructure:"generator"`    // default generator offered when creating a key
	LogLevel    string `mapstructure:"log_level"`    // logrus level name
	MetricsAddr string `mapstructure:"metrics_addr"` // /metrics listen address; empty disables
}

// flag name -> config key
var flagKeys = map[string]string{
	"key-file":     "key_file",
	"host":         "host",
	"port":         "port",
	"address":      "address",
	"modulus":      "modulus",
	"generator":    "generator",
	"log-level":    "log_level",
	"metrics-addr": "metrics_addr",
}

// BindFlags registers the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (YAML, TOML or JSON)")
	fs.String("key-file", store.DefaultKeyFile, "server key file")
	fs.String("host", server.DefaultHost, "server bind host")
	fs.Int("port", 0, "server port (0 asks)")
	fs.String("address", "", "address to connect to in client mode (empty asks)")
	fs.Uint64("modulus", keys.DefaultModulus, "default prime modulus for new keys")
	fs.Uint64("generator", keys.DefaultGenerator, "default generator for new keys")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("key_file", store.DefaultKeyFile)
	v.SetDefault("host", server.DefaultHost)
	v.SetDefault("port", 0)
	v.SetDefault("address", "")
	v.SetDefault("modulus", keys.DefaultModulus)
	v.SetDefault("generator", keys.DefaultGenerator)
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_addr", "")
}

// LoadConfig reads configuration from defaults, an optional config file,
// the environment and the flags registered by BindFlags. fs may be nil.
func LoadConfig(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	var file string
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			file = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, errors.Wrapf(err, "binding flag %s", name)
				}
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config file %s", file)
		}
	} else {
		v.SetConfigName("dhchat")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, errors.Wrap(err, "reading config file")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges viper cannot express.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.Errorf("port %d out of range", c.Port)
	}
	if c.Modulus < 2 {
		return errors.Errorf("modulus %d must be at least 2", c.Modulus)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log level")
	}
	return nil
}
