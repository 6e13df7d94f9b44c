// Package config loads configuration structs from environment variables
// and dotenv files.
//
// Load and LoadInto parse any struct annotated with env tags using
// github.com/caarlos0/env/v11. Dotenv files named with WithEnvFiles are read
// with github.com/joho/godotenv; process variables override their values.
// WithEnviron substitutes a fixed variable set, which keeps tests
// independent of the process environment.
//
// App is the configuration of the recordkit command:
//
//	cfg, err := config.LoadApp(config.WithEnvFiles(".env"))
//	if err != nil {
//	    return err
//	}
//	log, closeLog, err := cfg.Logger()
package config
