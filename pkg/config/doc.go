// Package config loads configuration structs from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct-tag parsing and
// github.com/joho/godotenv for .env files:
//
//   - Load parses into any struct, reading the default .env file once per
//     process and caching each parsed type (per prefix).
//   - Parse does the same without the cache.
//   - LoadEnv reads explicit .env files into the environment.
//   - MustLoad panics on failure for configuration required at startup.
//   - Reset clears the cache between tests.
//
// # Usage
//
//	type Settings struct {
//	    Priority int `env:"DEFAULT_PRIORITY" envDefault:"10"`
//	}
//
//	var s Settings
//	config.MustLoad(&s, config.WithPrefix("HANDLERCHAIN_"))
//
// # Error Handling
//
// Parse failures are joined with ErrParsingConfig, file failures with
// ErrLoadingEnvFile, so callers can match them with errors.Is.
package config
