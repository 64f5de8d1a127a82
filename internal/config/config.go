package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Simplici0/glassworks/internal/documents"
	"github.com/Simplici0/glassworks/internal/logging"
)

const (
	defaultDBPath = "./dev.db"
	defaultPort   = "8080"
)

// Config holds application configuration sourced from a .env file and environment variables.
type Config struct {
	Env            string
	Port           string
	DBPath         string
	MigrateOnStart bool
	Log            logging.Config

	DefaultDrillPrice  float64
	DefaultCutoutPrice float64
	ProductAttributes  []string
	ProcessingTypes    []string
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "" || c.Env == "development"
}

// RowDefaults returns the unit prices new invoice rows start with.
func (c Config) RowDefaults() documents.RowDefaults {
	return documents.RowDefaults{
		DrillUnitPrice:  c.DefaultDrillPrice,
		CutoutUnitPrice: c.DefaultCutoutPrice,
	}
}

// Load reads envFile when it exists, then the process environment, which wins.
func Load(envFile string) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("DB_PATH", defaultDBPath)
	v.SetDefault("MIGRATE_ON_START", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("DEFAULT_DRILL_PRICE", 5000)
	v.SetDefault("DEFAULT_CUTOUT_PRICE", 50000)
	v.SetDefault("PRODUCT_ATTRIBUTES", "C.lực,Bóng,Vát,Sơn,Bản vẽ,Rập")
	v.SetDefault("PROCESSING_TYPES", "Cường lực,Mài,Ghép keo,Sơn")

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat %s: %w", envFile, err)
		}
	}

	cfg := Config{
		Env:            v.GetString("APP_ENV"),
		Port:           v.GetString("PORT"),
		DBPath:         v.GetString("DB_PATH"),
		MigrateOnStart: v.GetBool("MIGRATE_ON_START"),
		Log: logging.Config{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			OutputPath: v.GetString("LOG_OUTPUT"),
		},
		DefaultDrillPrice:  v.GetFloat64("DEFAULT_DRILL_PRICE"),
		DefaultCutoutPrice: v.GetFloat64("DEFAULT_CUTOUT_PRICE"),
		ProductAttributes:  splitList(v.GetString("PRODUCT_ATTRIBUTES")),
		ProcessingTypes:    splitList(v.GetString("PROCESSING_TYPES")),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.DefaultDrillPrice < 0 || cfg.DefaultCutoutPrice < 0 {
		return Config{}, fmt.Errorf("default drill and cutout prices must not be negative")
	}

	return cfg, nil
}

// splitList parses a comma separated setting, dropping blanks and duplicates.
func splitList(raw string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}
