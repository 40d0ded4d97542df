// Package config resolves the application settings from defaults, an
// optional .env file, the environment and finally command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"patient-records/internal/logger"
	"patient-records/internal/store"
)

const (
	EnvPrefix      = "PATIENT_RECORDS_"
	DefaultEnvFile = ".env"
	DefaultDataDir = "patient_db"
)

type Config struct {
	DataDir      string `validate:"required"`
	LogLevel     string `validate:"oneof=debug info warn warning error"`
	LogFile      string
	JSONLogs     bool
	DecodePolicy string `validate:"oneof=log skip fail"`
	FontPath     string
	Fullscreen   bool
}

func Default() Config {
	return Config{
		DataDir:      DefaultDataDir,
		LogLevel:     "info",
		DecodePolicy: "log",
		Fullscreen:   true,
	}
}

// Load reads envFile (a missing file is not an error) and the process
// environment on top of the defaults. Process variables win over the file.
func Load(envFile string) (Config, error) {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	cfg := Default()
	if err := cfg.apply(lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "DATA_DIR"); ok && v != "" {
		c.DataDir = v
	}

	// LOG_LEVEL and DEBUG=1 are honoured when the prefixed variable is unset.
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		c.LogLevel = strings.ToLower(v)
	} else if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = strings.ToLower(v)
	} else if v, _ := lookup("DEBUG"); v == "1" {
		c.LogLevel = "debug"
	}

	if v, ok := lookup(EnvPrefix + "LOG_FILE"); ok {
		c.LogFile = v
	}
	if v, ok := lookup(EnvPrefix + "DECODE_POLICY"); ok && v != "" {
		c.DecodePolicy = strings.ToLower(v)
	}
	if v, ok := lookup(EnvPrefix + "FONT"); ok {
		c.FontPath = v
	}

	var err error
	if c.JSONLogs, err = boolVar(lookup, EnvPrefix+"JSON_LOGS", c.JSONLogs); err != nil {
		return err
	}
	if c.Fullscreen, err = boolVar(lookup, EnvPrefix+"FULLSCREEN", c.Fullscreen); err != nil {
		return err
	}
	return nil
}

func boolVar(lookup func(string) (string, bool), key string, def bool) (bool, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

// Validate checks the resolved settings.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			bad := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				bad = append(bad, fmt.Sprintf("%s=%v", fe.Field(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(bad, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c Config) Level() (logger.LogLevel, error) {
	return logger.ParseLevel(c.LogLevel)
}

func (c Config) Policy() (store.DecodePolicy, error) {
	return store.ParseDecodePolicy(c.DecodePolicy)
}

// LoggerOptions maps the logging settings onto logger.Options.
func (c Config) LoggerOptions() (logger.Options, error) {
	level, err := c.Level()
	if err != nil {
		return logger.Options{}, err
	}
	return logger.Options{
		Level: level,
		JSON:  c.JSONLogs,
		File:  c.LogFile,
	}, nil
}
