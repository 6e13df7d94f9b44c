package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every variable name read by LoadApp.
const Prefix = "RECORDKIT_"

type loadOptions struct {
	prefix  string
	files   []string
	environ map[string]string
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithPrefix prepends prefix to every env tag.
func WithPrefix(prefix string) LoadOption {
	return func(o *loadOptions) { o.prefix = prefix }
}

// WithEnvFiles reads variables from dotenv files. Process variables take
// precedence over file values. Missing files are an error.
func WithEnvFiles(files ...string) LoadOption {
	return func(o *loadOptions) { o.files = append(o.files, files...) }
}

// WithEnviron replaces the process environment as the variable source.
func WithEnviron(vars map[string]string) LoadOption {
	return func(o *loadOptions) { o.environ = vars }
}

// Load parses variables into a new T according to its env tags.
//
//	type Settings struct {
//		Dir string `env:"SCHEMA_DIR" envDefault:"schemas"`
//	}
//
//	s, err := config.Load[Settings](config.WithPrefix("RECORDKIT_"))
func Load[T any](opts ...LoadOption) (T, error) {
	var v T
	if err := LoadInto(&v, opts...); err != nil {
		return v, err
	}
	return v, nil
}

// LoadInto is like Load but fills an existing value, keeping fields that
// have no variable and no default.
func LoadInto[T any](v *T, opts ...LoadOption) error {
	if v == nil {
		return ErrNilPointer
	}
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	vars, err := o.variables()
	if err != nil {
		return err
	}
	if err := env.ParseWithOptions(v, env.Options{Prefix: o.prefix, Environment: vars}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](opts ...LoadOption) T {
	v, err := Load[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
	return v
}

func (o *loadOptions) variables() (map[string]string, error) {
	vars := make(map[string]string)
	if len(o.files) > 0 {
		fromFiles, err := godotenv.Read(o.files...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEnvFile, err)
		}
		for k, v := range fromFiles {
			vars[k] = v
		}
	}

	if o.environ != nil {
		for k, v := range o.environ {
			vars[k] = v
		}
		return vars, nil
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars, nil
}
