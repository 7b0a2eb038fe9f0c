package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// VariableNotFound is returned when a requested variable isn't present.
type VariableNotFound struct {
	VariableName string
}

func (e *VariableNotFound) Error() string {
	return fmt.Sprintf("variable %q not found in the environment or the configured variable sources", e.VariableName)
}

// VariablesSource is a strategy for loading configuration variables.
type VariablesSource interface {
	// Load returns all variables available from this source.
	Load() (map[string]string, error)
	// Get returns a single variable value or an error if not present.
	Get(key string) (string, error)
}

// DotEnv loads variables from a .env file.
type DotEnv struct {
	EnvFilePath string
}

func NewDotEnv(path string) *DotEnv {
	return &DotEnv{EnvFilePath: path}
}

// Load reads the .env file and returns a map of key→value.
func (d *DotEnv) Load() (map[string]string, error) {
	vars, err := godotenv.Read(d.EnvFilePath)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", d.EnvFilePath, err)
	}
	return vars, nil
}

// Get loads the file and looks up a single key.
func (d *DotEnv) Get(key string) (string, error) {
	vars, err := d.Load()
	if err != nil {
		return "", err
	}
	return lookup(vars, key)
}

// Environ reads variables from the process environment. Only the keys this
// package knows about are returned by Load.
type Environ struct {
	lookupEnv func(string) (string, bool)
}

func NewEnviron() *Environ {
	return &Environ{lookupEnv: os.LookupEnv}
}

func (e *Environ) Load() (map[string]string, error) {
	vars := make(map[string]string)
	for _, key := range knownKeys {
		if v, ok := e.lookupEnv(key); ok {
			vars[key] = v
		}
	}
	return vars, nil
}

func (e *Environ) Get(key string) (string, error) {
	if v, ok := e.lookupEnv(key); ok {
		return v, nil
	}
	return "", &VariableNotFound{VariableName: key}
}

// Static is a fixed set of variables.
type Static map[string]string

func (s Static) Load() (map[string]string, error) {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}

func (s Static) Get(key string) (string, error) {
	return lookup(s, key)
}

func lookup(vars map[string]string, key string) (string, error) {
	if val, ok := vars[key]; ok {
		return val, nil
	}
	return "", &VariableNotFound{VariableName: key}
}

// merge layers sources in order; later sources win. Blank values never
// override an earlier non-blank one.
func merge(sources ...VariablesSource) (map[string]string, error) {
	merged := make(map[string]string)
	for _, src := range sources {
		vars, err := src.Load()
		if err != nil {
			return nil, err
		}
		for k, v := range vars {
			if strings.TrimSpace(v) == "" && merged[k] != "" {
				continue
			}
			merged[k] = v
		}
	}
	return merged, nil
}
