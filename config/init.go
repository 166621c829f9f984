package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Конечная структура конфигурации приложения.
type Config struct {
	Server struct {
		Address  string `mapstructure:"address"`   // 0.0.0.0
		HTTPPort string `mapstructure:"http_port"` // 5005
		TLSCert  string `mapstructure:"tls_cert"`  // пути к cert/key; пусто — без TLS
		TLSKey   string `mapstructure:"tls_key"`
	} `mapstructure:"server"`

	Admin struct {
		SharedSecret string `mapstructure:"shared_secret"` // X-ADMIN-SECRET для админских ручек
		ExportDir    string `mapstructure:"export_dir"`    // папка с плейнтекстом ключей (только генератор)
	} `mapstructure:"admin"`

	License struct {
		ValidityDays int `mapstructure:"validity_days"` // срок по умолчанию при выпуске
	} `mapstructure:"license"`

	RateLimit struct {
		RPS   float64 `mapstructure:"rps"` // 0 — лимитер выключен
		Burst int     `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`

	Logging struct {
		Level  string `mapstructure:"level"`  // trace|debug|info|warning|error|fatal
		Format string `mapstructure:"format"` // text|json
		File   string `mapstructure:"file"`   // путь/префикс файла, пусто — только stdout
	} `mapstructure:"logs"`

	Database struct {
		Driver string `mapstructure:"driver"` // "postgres" | "mysql" | "" (in-memory)
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`
}

// Load читает конфиг из env/файла с дефолтами.
func Load() (*Config, error) {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.address", "0.0.0.0")
	viper.SetDefault("server.http_port", "5005")
	viper.SetDefault("server.tls_cert", "")
	viper.SetDefault("server.tls_key", "")

	viper.SetDefault("admin.shared_secret", "CHANGE_ME")
	viper.SetDefault("admin.export_dir", defaultExportDir())

	viper.SetDefault("license.validity_days", 30)

	viper.SetDefault("rate_limit.rps", 10.0/60.0) // 10 запросов в минуту
	viper.SetDefault("rate_limit.burst", 10)

	viper.SetDefault("logs.level", "info")
	viper.SetDefault("logs.format", "text")
	viper.SetDefault("logs.file", "")

	// DB: по умолчанию — in-memory (пустой driver)
	viper.SetDefault("database.driver", "")
	viper.SetDefault("database.dsn", "")

	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			viper.AddConfigPath(filepath.Join(xdg, "keywarden"))
		}
		viper.AddConfigPath("/etc/keywarden")
	}

	// Чтение файла (опционально)
	if err := viper.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "keywarden_admin"
	}
	return filepath.Join(home, "keywarden_admin")
}

func validate(c *Config) error {
	if strings.TrimSpace(c.Admin.SharedSecret) == "" || c.Admin.SharedSecret == "CHANGE_ME" {
		return errors.New("admin.shared_secret must be set (not empty and not CHANGE_ME)")
	}
	if strings.TrimSpace(c.Server.Address) == "" {
		return errors.New("server.address must not be empty")
	}
	if strings.TrimSpace(c.Server.HTTPPort) == "" {
		return errors.New("server.http_port must not be empty")
	}
	if c.License.ValidityDays <= 0 {
		return errors.New("license.validity_days must be positive")
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return errors.New("server.tls_cert and server.tls_key must be set together")
	}
	return nil
}
