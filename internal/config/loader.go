package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/rpattn/paramquery/internal/db"
)

// Config is the full server configuration.
type Config struct {
	ListenAddr     string
	AllowedOrigins []string
	MigrationsPath string
	Database       db.Config
	// Whitelists optionally tightens registered builders per identifier,
	// e.g. whitelists.post: [title, published].
	Whitelists map[string][]string
}

// DefaultConfig returns the configuration used when no config.yaml exists.
func DefaultConfig() Config {
	return Config{
		ListenAddr:     ":8080",
		AllowedOrigins: []string{"http://localhost:3000"},
		MigrationsPath: "./migrations",
		Database:       db.DefaultConfig(),
		Whitelists:     map[string][]string{},
	}
}

// Load reads config.yaml from configPath with environment overrides.
func Load(configPath string) (Config, error) {
	// Start with default
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()     // allow environment overrides
	v.SetEnvPrefix("PQ") // map env vars like PQ_DATABASE_HOST

	v.BindEnv("server.addr")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	// Override defaults if values exist
	if v.IsSet("server.addr") {
		cfg.ListenAddr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("server.migrations_path") {
		cfg.MigrationsPath = v.GetString("server.migrations_path")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("whitelists") {
		whitelists := map[string][]string{}
		for ident := range v.GetStringMap("whitelists") {
			whitelists[ident] = v.GetStringSlice("whitelists." + ident)
		}
		cfg.Whitelists = whitelists
	}

	return cfg, nil
}
