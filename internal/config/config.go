package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable viper reads.
const EnvPrefix = "SMARTSPEND"

// Server backends.
const (
	BackendSheets   = "sheets"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// App is the resolved application configuration.
type App struct {
	LogLevel    string
	LogFormat   string
	DataPath    string
	RemoteURL   string
	ServerAddr  string
	Backend     string
	SQLitePath  string
	PostgresDSN string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("data.path", "$HOME/.local/share/smartspend/smartspend.db")
	v.SetDefault("server.addr", ":8787")
	v.SetDefault("server.backend", BackendSQLite)
	v.SetDefault("server.sqlite_path", "$HOME/.local/share/smartspend/users.db")
}

// Init points v at the config file (explicit path or the default search
// locations), loads .env files into the environment and reads the file when
// present.
func Init(v *viper.Viper, cfgFile string) error {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		v.AddConfigPath(filepath.Join(home, ".config", "smartspend"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// Load resolves v into an App, expanding paths.
func Load(v *viper.Viper) (App, error) {
	app := App{
		LogLevel:    v.GetString("logging.level"),
		LogFormat:   v.GetString("logging.format"),
		DataPath:    ExpandPath(v.GetString("data.path")),
		RemoteURL:   strings.TrimSpace(v.GetString("remote.url")),
		ServerAddr:  v.GetString("server.addr"),
		Backend:     strings.ToLower(v.GetString("server.backend")),
		SQLitePath:  ExpandPath(v.GetString("server.sqlite_path")),
		PostgresDSN: v.GetString("server.postgres_dsn"),
	}

	switch app.Backend {
	case BackendSheets, BackendSQLite, BackendMemory:
	case BackendPostgres:
		if app.PostgresDSN == "" {
			return app, fmt.Errorf("server.postgres_dsn is required for the postgres backend")
		}
	default:
		return app, fmt.Errorf("unknown server backend %q", app.Backend)
	}

	if app.DataPath == "" {
		return app, fmt.Errorf("data.path is empty")
	}
	return app, nil
}
