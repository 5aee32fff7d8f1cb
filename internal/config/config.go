package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Cache    CacheConfig    `yaml:"cache"`
	Services ServicesConfig `yaml:"services"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type AuthConfig struct {
	Secret   string `yaml:"secret"`
	TokenTTL string `yaml:"token_ttl"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	DB      int    `yaml:"db"`
}

type ServicesConfig struct {
	FoodChatURL       string `yaml:"foodchat_url"`
	FoodScholarURL    string `yaml:"foodscholar_url"`
	RecipeWranglerURL string `yaml:"recipewrangler_url"`
	TimeoutSec        int    `yaml:"timeout_sec"`
}

func Load(configFile string) *Config {
	c := &Config{
		Server: ServerConfig{Port: 8000},
		Log:    LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Database: DatabaseConfig{
			Host: "localhost", Port: 3306, User: "wisefood", Name: "wisefood",
		},
		Auth:  AuthConfig{TokenTTL: "168h"},
		Cache: CacheConfig{Host: "redis", Port: 6379, DB: 2},
		Services: ServicesConfig{
			FoodChatURL:       "http://foodchat:8001",
			FoodScholarURL:    "http://foodscholar:8001",
			RecipeWranglerURL: "http://recipewrangler:8001",
			TimeoutSec:        15,
		},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/wisefood/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Database.Host, "DB_HOST")
	envOverride(&c.Database.User, "DB_USER")
	envOverride(&c.Database.Password, "DB_PASS")
	envOverride(&c.Database.Name, "DB_NAME")
	envOverride(&c.Auth.Secret, "AUTH_SECRET")
	envOverride(&c.Cache.Host, "REDIS_HOST")
	envOverride(&c.Services.FoodChatURL, "FOODCHAT_URL")
	envOverride(&c.Services.FoodScholarURL, "FOODSCHOLAR_URL")
	envOverride(&c.Services.RecipeWranglerURL, "RECIPEWRANGLER_URL")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "DB_PORT")
	envOverrideInt(&c.Cache.Port, "REDIS_PORT")
	envOverrideBool(&c.Cache.Enabled, "CACHE_ENABLED")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// TokenTTL parses the configured token lifetime, defaulting to one week.
func (c *Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.Auth.TokenTTL)
	if err != nil || d <= 0 {
		return 7 * 24 * time.Hour
	}
	return d
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	cfg := gomysql.NewConfig()
	cfg.User = c.Database.User
	cfg.Passwd = c.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// NewRedisClient returns nil when caching is disabled.
func (c *Config) NewRedisClient() *redis.Client {
	if !c.Cache.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", c.Cache.Host, c.Cache.Port),
		DB:   c.Cache.DB,
	})
}

func (c *Config) ServiceTimeout() time.Duration {
	if c.Services.TimeoutSec <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Services.TimeoutSec) * time.Second
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envOverrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
