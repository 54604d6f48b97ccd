package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option tunes how a configuration struct is parsed.
type Option func(*options)

type options struct {
	prefix string
}

// WithPrefix prepends prefix to every env tag of the target struct.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

type cache struct {
	mu     sync.Mutex
	values map[string]any
}

var (
	globalCache = &cache{values: make(map[string]any)}

	defaultEnvLoaded sync.Once
)

// LoadEnv loads the given .env files into the process environment.
// Variables that are already set are left untouched. With no arguments
// the .env file in the working directory is read.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Parse populates a fresh T from the environment without caching.
func Parse[T any](opts ...Option) (T, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var v T
	if err := env.ParseWithOptions(&v, env.Options{Prefix: o.prefix}); err != nil {
		return v, errors.Join(ErrParsingConfig, err)
	}
	return v, nil
}

// Load fills v from environment variables. The default .env file is read
// once per process on first use (a missing file is fine). Each configuration
// type and prefix combination is parsed once; later calls get the cached copy.
//
// Example:
//
//	type Settings struct {
//		Priority int    `env:"DEFAULT_PRIORITY" envDefault:"10"`
//		Level    string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	var s Settings
//	if err := config.Load(&s, config.WithPrefix("HANDLERCHAIN_")); err != nil {
//		// handle error
//	}
func Load[T any](v *T, opts ...Option) error {
	defaultEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	key := cacheKey[T](o.prefix)

	// Holding the lock while parsing keeps each key parsed exactly once.
	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()

	if cached, ok := globalCache.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	parsed, err := Parse[T](opts...)
	if err != nil {
		return err
	}
	globalCache.values[key] = parsed
	*v = parsed
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Reset drops every cached configuration. Meant for tests.
func Reset() {
	globalCache.mu.Lock()
	globalCache.values = make(map[string]any)
	globalCache.mu.Unlock()
}

func cacheKey[T any](prefix string) string {
	return prefix + "|" + reflect.TypeFor[T]().String()
}
