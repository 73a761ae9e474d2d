package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"conni/heartbeat"
	"conni/network"
	"conni/poll"
	"conni/types"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	envPrefix   = "CONNI"
	defaultName = ".conni"
)

type HeaderConfig struct {
	Name   string   `mapstructure:"name"`
	Values []string `mapstructure:"values"`
}

type ProbeConfig struct {
	URL         string         `mapstructure:"url"`
	Method      string         `mapstructure:"method"`
	Body        string         `mapstructure:"body"`
	ContentType string         `mapstructure:"content_type"`
	Headers     []HeaderConfig `mapstructure:"headers"`
	Timeout     time.Duration  `mapstructure:"timeout"`
}

type PollConfig struct {
	SuccessInterval time.Duration `mapstructure:"success_interval"`
	FailureInterval time.Duration `mapstructure:"failure_interval"`
}

type LightConfig struct {
	Port string `mapstructure:"port"`
	Baud int    `mapstructure:"baud"`
}

type StatusConfig struct {
	Addr string `mapstructure:"addr"`
}

type HeartbeatConfig struct {
	URL      string        `mapstructure:"url"`
	Interval time.Duration `mapstructure:"interval"`
}

type NotifyConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type NodeConfig struct {
	Name string `mapstructure:"name"`
}

// Config is the whole daemon configuration. It is built once at start
// up and handed to the components that need it.
type Config struct {
	Probe     ProbeConfig     `mapstructure:"probe"`
	Poll      PollConfig      `mapstructure:"poll"`
	Light     LightConfig     `mapstructure:"light"`
	Status    StatusConfig    `mapstructure:"status"`
	Heartbeat HeartbeatConfig `mapstructure:"heartbeat"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Log       LogConfig       `mapstructure:"log"`
	Node      NodeConfig      `mapstructure:"node"`
}

// Request converts the probe section into the request prototype.
func (c *Config) Request() (*types.Request, error) {
	method := types.Method(strings.ToUpper(strings.TrimSpace(c.Probe.Method)))
	if method == "" {
		method = types.MethodGet
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unsupported method %q", types.ErrInvalidRequest, c.Probe.Method)
	}

	contentType, ok := types.ParseContentType(strings.ToLower(c.Probe.ContentType))
	if !ok {
		return nil, fmt.Errorf("%w: unknown content type %q", types.ErrInvalidRequest, c.Probe.ContentType)
	}

	headers := make([]types.Header, 0, len(c.Probe.Headers))
	for _, h := range c.Probe.Headers {
		if h.Name == "" {
			return nil, fmt.Errorf("%w: header without name", types.ErrInvalidRequest)
		}
		headers = append(headers, types.NewHeader(h.Name, h.Values...))
	}

	return types.NewRequest(method, c.Probe.URL, c.Probe.Body, contentType, headers...), nil
}

// Loader reads the configuration from a file, CONNI_* environment
// variables and bound flags.
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader prepares a loader. An empty path looks for .conni.yaml in
// the home and working directories; a missing file is not an error then.
func NewLoader(path string) *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, path: path}
}

// Viper exposes the underlying instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

func (l *Loader) Load() (*Config, error) {
	if l.path != "" {
		abs, err := filepath.Abs(l.path)
		if err == nil {
			l.path = abs
		}
		l.v.SetConfigFile(l.path)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", l.path, err)
		}
	} else {
		l.v.SetConfigName(defaultName)
		l.v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(home)
		}
		l.v.AddConfigPath(".")
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	return l.decode()
}

// File returns the configuration file in use, or "".
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

// Watch calls fn with the reloaded configuration whenever the file
// changes. Without a file it does nothing.
func (l *Loader) Watch(fn func(*Config)) {
	if l.File() == "" {
		return
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.decode()
		if err != nil {
			log.Warn().Err(err).Str("file", e.Name).Msg("Ignoring invalid configuration change")
			return
		}
		log.Info().Str("file", e.Name).Msg("Configuration reloaded")
		fn(cfg)
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("probe.url", types.DefaultURL)
	v.SetDefault("probe.method", string(types.MethodGet))
	v.SetDefault("probe.body", "")
	v.SetDefault("probe.content_type", types.ContentJSON.String())
	v.SetDefault("probe.headers", []HeaderConfig{})
	v.SetDefault("probe.timeout", network.DefaultTimeout)

	v.SetDefault("poll.success_interval", poll.DefaultSuccessInterval)
	v.SetDefault("poll.failure_interval", poll.DefaultFailureInterval)

	v.SetDefault("light.port", "")
	v.SetDefault("light.baud", 9600)

	v.SetDefault("status.addr", "")

	v.SetDefault("heartbeat.url", "")
	v.SetDefault("heartbeat.interval", heartbeat.DefaultInterval)

	v.SetDefault("notify.url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("node.name", "")
}
