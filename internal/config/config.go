package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/labstack/gommon/log"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Data      DataConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Report    ReportConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	LogLevel string
}

// DataConfig selects where the sales exports come from.
type DataConfig struct {
	Source      string // "csv" or "postgres"
	Dir         string
	Timezone    string
	DefaultDate string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Retries  int
}

// CacheConfig configures the Redis report cache. An empty Addr disables it.
type CacheConfig struct {
	Addr string
	DB   int
	TTL  time.Duration
}

type ReportConfig struct {
	ThresholdA float64
	ThresholdB float64
	OpenHour   int
	CloseHour  int
}

type RateLimitConfig struct {
	RPS float64
}

// Load reads .env from the working directory, if present, then the
// environment. Environment values win.
func Load() (*Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warnf("%s not read, using environment variables: %v", path, err)
	}

	v.SetDefault("APP_NAME", "restaurant-analytics")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATA_SOURCE", "csv")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("TIMEZONE", "Asia/Tokyo")
	v.SetDefault("DEFAULT_DATE", "2024-05-16")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "restaurant")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_RETRIES", 5)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 300)
	v.SetDefault("ABC_THRESHOLD_A", 70)
	v.SetDefault("ABC_THRESHOLD_B", 90)
	v.SetDefault("BUSINESS_OPEN_HOUR", 10)
	v.SetDefault("BUSINESS_CLOSE_HOUR", 24)
	v.SetDefault("RATE_LIMIT_RPS", 20)

	cfg := &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Data: DataConfig{
			Source:      v.GetString("DATA_SOURCE"),
			Dir:         v.GetString("DATA_DIR"),
			Timezone:    v.GetString("TIMEZONE"),
			DefaultDate: v.GetString("DEFAULT_DATE"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Retries:  v.GetInt("DB_CONNECT_RETRIES"),
		},
		Cache: CacheConfig{
			Addr: v.GetString("REDIS_ADDR"),
			DB:   v.GetInt("REDIS_DB"),
			TTL:  time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Report: ReportConfig{
			ThresholdA: v.GetFloat64("ABC_THRESHOLD_A"),
			ThresholdB: v.GetFloat64("ABC_THRESHOLD_B"),
			OpenHour:   v.GetInt("BUSINESS_OPEN_HOUR"),
			CloseHour:  v.GetInt("BUSINESS_CLOSE_HOUR"),
		},
		RateLimit: RateLimitConfig{
			RPS: v.GetFloat64("RATE_LIMIT_RPS"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Data.Source {
	case "csv", "postgres":
	default:
		return fmt.Errorf("DATA_SOURCE must be csv or postgres, got %q", c.Data.Source)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.DefaultDate(); err != nil {
		return err
	}
	if c.Report.OpenHour < 0 || c.Report.CloseHour > 24 || c.Report.OpenHour >= c.Report.CloseHour {
		return fmt.Errorf("business hours %d-%d out of range", c.Report.OpenHour, c.Report.CloseHour)
	}
	return nil
}

// Location is the business timezone all dates are bucketed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Data.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Data.Timezone, err)
	}
	return loc, nil
}

// DefaultDate is the report date used when a request names none.
func (c *Config) DefaultDate() (time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}
	d, err := time.ParseInLocation("2006-01-02", c.Data.DefaultDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("DEFAULT_DATE %q: want YYYY-MM-DD", c.Data.DefaultDate)
	}
	return d, nil
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode
}
