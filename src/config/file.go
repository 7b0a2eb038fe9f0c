package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML configuration:
//
//	api_key: ctx7sk-...
//	base_url: https://context7.com/api
//	insecure: false
//	timeout: 30s
//	log_level: info
//	transport: stdio
//	http_addr: ":8080"
type File struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Insecure  *bool  `yaml:"insecure"`
	Timeout   string `yaml:"timeout"`
	LogLevel  string `yaml:"log_level"`
	Debug     *bool  `yaml:"debug"`
	Verbose   *int   `yaml:"verbose"`
	Transport string `yaml:"transport"`
	HTTPAddr  string `yaml:"http_addr"`
}

// YAMLFile is a VariablesSource backed by a File on disk.
type YAMLFile struct {
	Path string
}

func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{Path: path}
}

// Read parses the file.
func (y *YAMLFile) Read() (*File, error) {
	data, err := os.ReadFile(y.Path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", y.Path, err)
	}
	return &f, nil
}

func (y *YAMLFile) Load() (map[string]string, error) {
	f, err := y.Read()
	if err != nil {
		return nil, err
	}
	return f.variables(), nil
}

func (y *YAMLFile) Get(key string) (string, error) {
	vars, err := y.Load()
	if err != nil {
		return "", err
	}
	return lookup(vars, key)
}

func (f *File) variables() map[string]string {
	vars := make(map[string]string)
	set := func(key, value string) {
		if value != "" {
			vars[key] = value
		}
	}
	set(KeyAPIKey, f.APIKey)
	set(KeyBaseURL, f.BaseURL)
	set(KeyTimeout, f.Timeout)
	set(KeyLogLevel, f.LogLevel)
	set(KeyTransport, f.Transport)
	set(KeyHTTPAddr, f.HTTPAddr)
	if f.Insecure != nil {
		vars[KeyInsecure] = strconv.FormatBool(*f.Insecure)
	}
	if f.Debug != nil {
		vars[KeyDebug] = strconv.FormatBool(*f.Debug)
	}
	if f.Verbose != nil {
		vars[KeyVerbose] = strconv.Itoa(*f.Verbose)
	}
	return vars
}
