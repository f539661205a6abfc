package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	LogLevel   string        `mapstructure:"log_level"`

	// Lobby rooms and main rooms share a room id and differ by domain.
	LobbyDomain      string `mapstructure:"lobby_domain"`
	ConferenceDomain string `mapstructure:"conference_domain"`

	KnockLimit    int           `mapstructure:"knock_limit"`
	KnockInterval time.Duration `mapstructure:"knock_interval"`
}

// Level falls back to info for an empty or unknown log_level.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (c *Config) validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case c.LobbyDomain == "" || c.ConferenceDomain == "":
		return errors.New("lobby_domain and conference_domain are required")
	case c.LobbyDomain == c.ConferenceDomain:
		return errors.New("lobby_domain must differ from conference_domain")
	case c.KnockLimit <= 0 || c.KnockInterval <= 0:
		return errors.New("knock_limit and knock_interval must be positive")
	}
	return nil
}

// BindFlags registers the command line overrides understood by NewLoader.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("env", "dev", "config environment, selects config/config.<env>.yaml")
	fs.String("config", "", "explicit config file path")
	fs.Int("port", 8080, "listen port")
}

type Loader struct {
	v    *viper.Viper
	file string
}

func NewLoader(fs *pflag.FlagSet) (*Loader, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("env", "dev")
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("log_level", "info")
	v.SetDefault("lobby_domain", "lobby.voice")
	v.SetDefault("conference_domain", "conference.voice")
	v.SetDefault("knock_limit", 3)
	v.SetDefault("knock_interval", "30s")

	if err := v.BindEnv("env", "CONFIG_ENV"); err != nil {
		return nil, err
	}
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	file := v.GetString("config")
	if file == "" {
		file = fmt.Sprintf("config/config.%s.yaml", v.GetString("env"))
	}
	v.SetConfigFile(file)
	return &Loader{v: v, file: file}, nil
}

// Load reads the config file if there is one and decodes the result.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", l.file).Err(err).Msg("config file not loaded, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", l.file).Msg("loaded config")
	}
	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("static", cfg.StaticPath).
		Str("lobby_domain", cfg.LobbyDomain).
		Msg("config ready")
	return cfg, nil
}

// Watch calls onChange with every valid version of the file written after
// Load. Invalid versions are logged and skipped.
func (l *Loader) Watch(onChange func(*Config)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.decode()
		if err != nil {
			log.Error().Str("module", "config").Str("file", e.Name).Err(err).Msg("reload rejected")
			return
		}
		log.Info().Str("module", "config").Str("file", e.Name).Str("op", e.Op.String()).Msg("config reloaded")
		onChange(cfg)
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func Load(fs *pflag.FlagSet) (*Config, error) {
	l, err := NewLoader(fs)
	if err != nil {
		return nil, err
	}
	return l.Load()
}
