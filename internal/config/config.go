// Package config loads flametop settings from flags, FLAMETOP_* environment
// variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	KeyConfig          = "config"
	KeyHost            = "host"
	KeyPort            = "port"
	KeyTick            = "tick"
	KeyLogFile         = "log-file"
	KeyVerbose         = "verbose"
	KeyPprof           = "pprof"
	KeyPprofInterval   = "pprof-interval"
	KeyPprofSampleType = "pprof-sample-type"

	envPrefix = "FLAMETOP"
)

// Defaults
const (
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 4317
	DefaultTick          = 100 * time.Millisecond
	DefaultPprofInterval = 10 * time.Second
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Host    string
	Port    int
	Tick    time.Duration
	LogFile string
	Verbose int

	// Pprof is a pprof file path or http(s) URL. Empty disables the pprof
	// source.
	Pprof           string
	PprofInterval   time.Duration
	PprofSampleType string
}

// DefineFlags registers the settings on cmd as persistent flags.
func DefineFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.String(KeyConfig, "", "YAML config file")
	fs.String(KeyHost, DefaultHost, "address to accept OTLP exports on")
	fs.Int(KeyPort, DefaultPort, "OTLP gRPC port")
	fs.Duration(KeyTick, DefaultTick, "redraw interval")
	fs.String(KeyLogFile, "", "write logs to this file (discarded when empty)")
	fs.CountP(KeyVerbose, "v", "increase log verbosity (-v debug, -vv trace)")
	fs.String(KeyPprof, "", "also load a pprof file or poll a pprof URL")
	fs.Duration(KeyPprofInterval, DefaultPprofInterval, "pprof URL polling interval")
	fs.String(KeyPprofSampleType, "", "pprof sample type to aggregate (default: last)")
}

// NewViper returns a viper instance with defaults and environment lookup
// set up. Flags are bound separately with BindPFlags.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyHost, DefaultHost)
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyTick, DefaultTick)
	v.SetDefault(KeyPprofInterval, DefaultPprofInterval)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file named by the config key, if any, and returns
// the validated configuration.
func Load(v *viper.Viper) (Config, error) {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	c := Config{
		Host:            v.GetString(KeyHost),
		Port:            v.GetInt(KeyPort),
		Tick:            v.GetDuration(KeyTick),
		LogFile:         v.GetString(KeyLogFile),
		Verbose:         v.GetInt(KeyVerbose),
		Pprof:           v.GetString(KeyPprof),
		PprofInterval:   v.GetDuration(KeyPprofInterval),
		PprofSampleType: v.GetString(KeyPprofSampleType),
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range 1-65535", ErrInvalid, c.Port)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("%w: tick must be positive, got %s", ErrInvalid, c.Tick)
	}
	if c.Pprof != "" && c.PprofInterval <= 0 {
		return fmt.Errorf("%w: pprof interval must be positive, got %s", ErrInvalid, c.PprofInterval)
	}
	if c.Verbose < 0 {
		return fmt.Errorf("%w: negative verbosity", ErrInvalid)
	}
	return nil
}

// ListenAddr is the host:port the OTLP server binds.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
