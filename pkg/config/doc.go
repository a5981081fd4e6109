// Package config loads configuration structs from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct parsing and
// github.com/joho/godotenv for .env files. Parsed structs are cached per type
// so repeated Load calls for the same type are cheap.
//
//	if err := config.LoadEnv("deploy/.env", "deploy/.env.local"); err != nil {
//	    return err
//	}
//	var cfg AppConfig
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// ResetCache and ForceReload exist for tests that change the environment.
//
// Errors are sentinel values comparable with errors.Is: ErrParsingConfig,
// ErrNilPointer and ErrLoadingEnvFile.
package config
