package config

import (
	"io"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	v = viper.New()

	global    = &Config{}
	globalMux sync.RWMutex
)

func init() {
	v.SetConfigName("trunk")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/trunk/")
	v.AddConfigPath("$HOME/.trunk/")
	v.AddConfigPath(".")
}

// Global returns a shallow copy of the process-wide config.
func Global() *Config {
	globalMux.RLock()
	defer globalMux.RUnlock()

	cfg := &Config{}
	*cfg = *global
	return cfg
}

func Set(c *Config) {
	globalMux.Lock()
	defer globalMux.Unlock()
	global = c
}

type LogConfig struct {
	Output string `yaml:",omitempty"`
	Level  string `yaml:",omitempty"`
	Format string `yaml:",omitempty"`
}

type MetricsConfig struct {
	Addr string `yaml:",omitempty"`
	Path string `yaml:",omitempty"`
}

// ProxyConfig selects the forward proxy for outbound attempts. An empty
// Addr defers to the process environment; Disabled forces direct dials.
type ProxyConfig struct {
	Addr     string `yaml:",omitempty"`
	User     string `yaml:",omitempty"`
	Disabled bool   `yaml:",omitempty"`
}

type DialerConfig struct {
	Type     string
	Metadata map[string]any `yaml:",omitempty"`
}

type TransportConfig struct {
	Type     string
	Metadata map[string]any `yaml:",omitempty"`
}

type HandshakerConfig struct {
	Type     string
	Metadata map[string]any `yaml:",omitempty"`
}

type ChannelConfig struct {
	Name           string
	Target         string
	ConnectTimeout time.Duration       `yaml:"connectTimeout,omitempty"`
	Dialer         *DialerConfig       `yaml:",omitempty"`
	Transport      *TransportConfig    `yaml:",omitempty"`
	Handshakers    []*HandshakerConfig `yaml:",omitempty"`
	Metadata       map[string]any      `yaml:",omitempty"`
}

// ForwardConfig maps a local listen address onto streams of a channel.
type ForwardConfig struct {
	Name    string
	Addr    string
	Channel string
}

type Config struct {
	Log      *LogConfig       `yaml:",omitempty"`
	Metrics  *MetricsConfig   `yaml:",omitempty"`
	Proxy    *ProxyConfig     `yaml:",omitempty"`
	Channels []*ChannelConfig `yaml:",omitempty"`
	Forwards []*ForwardConfig `yaml:",omitempty"`
}

func (c *Config) Load() error {
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(c)
}

func (c *Config) Read(r io.Reader) error {
	if err := v.ReadConfig(r); err != nil {
		return err
	}

	return v.Unmarshal(c)
}

func (c *Config) ReadFile(file string) error {
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(c)
}

func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()

	return enc.Encode(c)
}
