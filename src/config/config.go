// Package config resolves process settings from command line flags, the
// environment, an optional .env file and an optional YAML file, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// Variable names understood in the environment and in .env files.
const (
	KeyAPIKey    = "CONTEXT7_API_KEY"
	KeyBaseURL   = "CONTEXT7_BASE_URL"
	KeyInsecure  = "C67_INSECURE"
	KeyTimeout   = "C67_TIMEOUT"
	KeyLogLevel  = "C67_LOG_LEVEL"
	KeyDebug     = "C67_DEBUG"
	KeyVerbose   = "C67_VERBOSE"
	KeyTransport = "C67_TRANSPORT"
	KeyHTTPAddr  = "C67_HTTP_ADDR"
	KeyConfig    = "C67_CONFIG"
)

var knownKeys = []string{
	KeyAPIKey, KeyBaseURL, KeyInsecure, KeyTimeout, KeyLogLevel,
	KeyDebug, KeyVerbose, KeyTransport, KeyHTTPAddr, KeyConfig,
}

// Transports the server can listen on.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the fully resolved process configuration.
type Settings struct {
	APIKey   string
	BaseURL  string
	Insecure bool
	Timeout  time.Duration

	LogLevel string
	Debug    bool
	Verbose  int

	Transport string
	HTTPAddr  string
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		BaseURL:   "https://context7.com/api",
		LogLevel:  "warn",
		Transport: TransportStdio,
		HTTPAddr:  ":8080",
	}
}

// Validate checks that the settings can be used to start the server.
func (s Settings) Validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base URL %q must be absolute", ErrInvalidSettings, s.BaseURL)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidSettings)
	}
	switch s.Transport {
	case TransportStdio:
	case TransportHTTP:
		if s.HTTPAddr == "" {
			return fmt.Errorf("%w: http transport needs an address", ErrInvalidSettings)
		}
	default:
		return fmt.Errorf("%w: unknown transport %q (want %s or %s)", ErrInvalidSettings, s.Transport, TransportStdio, TransportHTTP)
	}
	return nil
}

// Flags holds the command line options that are not settings themselves.
type Flags struct {
	ConfigPath string
	EnvFile    string
	Version    bool

	set *pflag.FlagSet
}

// flagKeys maps each settings flag to the variable it overrides.
var flagKeys = map[string]string{
	"api-key":   KeyAPIKey,
	"base-url":  KeyBaseURL,
	"insecure":  KeyInsecure,
	"timeout":   KeyTimeout,
	"log-level": KeyLogLevel,
	"debug":     KeyDebug,
	"verbose":   KeyVerbose,
	"transport": KeyTransport,
	"http-addr": KeyHTTPAddr,
}

// NewFlagSet declares every command line flag on a new flag set.
func NewFlagSet(name string) (*pflag.FlagSet, *Flags) {
	d := Defaults()
	flags := &Flags{}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	fs.String("api-key", "", "API key for Context7 authentication (env "+KeyAPIKey+")")
	fs.String("base-url", d.BaseURL, "Context7 API base URL")
	fs.Bool("insecure", false, "disable TLS certificate verification (insecure, for corporate MITM proxies)")
	fs.Duration("timeout", 0, "upstream request timeout, 0 for none")
	fs.String("log-level", d.LogLevel, "log level (logs go to stderr)")
	fs.BoolP("debug", "d", false, "enable debug logging to stderr")
	fs.CountP("verbose", "v", "enable verbose output to stderr (repeat for more)")
	fs.String("transport", d.Transport, "MCP transport: stdio or http")
	fs.String("http-addr", d.HTTPAddr, "listen address for the http transport")
	fs.StringVar(&flags.ConfigPath, "config", "", "path to a YAML config file (env "+KeyConfig+")")
	fs.StringVar(&flags.EnvFile, "env-file", "", "path to a .env file to load variables from")
	fs.BoolVar(&flags.Version, "version", false, "print version information and exit")

	flags.set = fs
	return fs, flags
}

// changed returns the values of settings flags given on the command line.
func (f *Flags) changed() Static {
	vars := Static{}
	if f == nil || f.set == nil {
		return vars
	}
	f.set.Visit(func(flag *pflag.Flag) {
		if key, ok := flagKeys[flag.Name]; ok {
			vars[key] = flag.Value.String()
		}
	})
	return vars
}

// Load resolves settings. Precedence, highest first: flags given on the
// command line, the process environment, the .env file, the YAML file,
// defaults.
func Load(flags *Flags) (Settings, error) {
	return load(flags, NewEnviron())
}

func load(flags *Flags, env VariablesSource) (Settings, error) {
	var sources []VariablesSource

	configPath := ""
	if flags != nil {
		configPath = flags.ConfigPath
	}
	if configPath == "" {
		if v, err := env.Get(KeyConfig); err == nil {
			configPath = v
		}
	}
	if configPath != "" {
		sources = append(sources, NewYAMLFile(configPath))
	}
	if flags != nil && flags.EnvFile != "" {
		sources = append(sources, NewDotEnv(flags.EnvFile))
	}
	sources = append(sources, env, flags.changed())

	vars, err := merge(sources...)
	if err != nil {
		return Settings{}, err
	}

	s, err := fromVariables(vars)
	if err != nil {
		return Settings{}, err
	}
	return s, s.Validate()
}

func fromVariables(vars map[string]string) (Settings, error) {
	s := Defaults()
	var err error

	str := func(key string, dst *string) {
		if v, ok := vars[key]; ok && v != "" {
			*dst = v
		}
	}
	str(KeyAPIKey, &s.APIKey)
	str(KeyBaseURL, &s.BaseURL)
	str(KeyLogLevel, &s.LogLevel)
	str(KeyTransport, &s.Transport)
	str(KeyHTTPAddr, &s.HTTPAddr)

	if v, ok := vars[KeyInsecure]; ok && v != "" {
		if s.Insecure, err = cast.ToBoolE(v); err != nil {
			return Settings{}, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, KeyInsecure, err)
		}
	}
	if v, ok := vars[KeyDebug]; ok && v != "" {
		if s.Debug, err = cast.ToBoolE(v); err != nil {
			return Settings{}, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, KeyDebug, err)
		}
	}
	if v, ok := vars[KeyVerbose]; ok && v != "" {
		if s.Verbose, err = cast.ToIntE(v); err != nil {
			return Settings{}, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, KeyVerbose, err)
		}
	}
	if v, ok := vars[KeyTimeout]; ok && v != "" {
		if s.Timeout, err = cast.ToDurationE(v); err != nil {
			return Settings{}, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, KeyTimeout, err)
		}
	}
	return s, nil
}
