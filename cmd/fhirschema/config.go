package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/logger"
	"github.com/gofhir/fhirschema/registry"
	"github.com/gofhir/fhirschema/schema"
)

const envPrefix = "FHIRSCHEMA"

// Config is the merged CLI configuration. Flags win over FHIRSCHEMA_*
// environment variables, which win over the config file.
type Config struct {
	Style      string   `mapstructure:"style"`
	MaxErrors  int      `mapstructure:"max-errors"`
	Invariants bool     `mapstructure:"invariants"`
	Workers    int      `mapstructure:"workers"`
	Output     string   `mapstructure:"output"`
	Short      bool     `mapstructure:"short"`
	Type       string   `mapstructure:"type"`
	LogLevel   string   `mapstructure:"log-level"`
	LogJSON    bool     `mapstructure:"log-json"`
	Schemas    []string `mapstructure:"schemas"`
}

func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("style", fhs.StyleCurrent.String())
	v.SetDefault("max-errors", 0)
	v.SetDefault("invariants", true)
	v.SetDefault("output", "text")
	v.SetDefault("log-level", "warn")

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	file, _ := cmd.Flags().GetString("config")
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName(".fhirschema")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Logger builds the process logger on the command's stderr.
func (c *Config) Logger(cmd *cobra.Command) zerolog.Logger {
	return logger.For(cmd.ErrOrStderr(), logger.ParseLevel(c.LogLevel), c.LogJSON)
}

// Options converts the configuration into engine options.
func (c *Config) Options(log zerolog.Logger) []fhs.Option {
	maxErrors := c.MaxErrors
	if c.Short {
		maxErrors = 1
	}
	return []fhs.Option{
		fhs.WithMessageStyle(fhs.ParseMessageStyle(c.Style)),
		fhs.WithMaxErrors(maxErrors),
		fhs.WithInvariants(c.Invariants),
		fhs.WithWorkerCount(c.Workers),
		fhs.WithLogger(log),
	}
}

// Registry returns the built-in registry extended with the configured YAML
// schema files.
func (c *Config) Registry() (*registry.Registry, error) {
	reg := registry.Standard()
	var loaded []*schema.Schema
	for _, path := range c.Schemas {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open schema file: %w", err)
		}
		schemas, err := schema.LoadYAML(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		loaded = append(loaded, schemas...)
	}
	if len(loaded) == 0 {
		return reg, nil
	}
	if err := reg.RegisterAll(loaded...); err != nil {
		return nil, err
	}
	return reg, nil
}
