package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       *DBconfig
	RabbitMq *RabbitMqconfig
	Redis    *Redisconfig
	Srv      *Serviceconfig
	Tracking *Trackingconfig
	Log      *Loggerconfig
}

type DBconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// URL builds the postgres connection string.
func (c *DBconfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

type RabbitMqconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

// URL builds the amqp connection string.
func (c *RabbitMqconfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.VHost)
}

type Redisconfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c *Redisconfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type Serviceconfig struct {
	TrackingServicePort string
	PublicJwtSecret     string
}

// Trackingconfig exposes the tunables the tracking core depends on.
// Defaults are documented here instead of hiding in the code.
type Trackingconfig struct {
	ArrivalRadiusMeters     float64
	ReorderToleranceSeconds int
	FutureSkewSeconds       int
	AreaRefreshSeconds      int
}

type Loggerconfig struct {
	Level string
}

func New() (*Config, error) {
	// a missing .env is fine, real env vars still apply
	_ = godotenv.Load(".env")

	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Printf("invalid %s=%q, using default %v\n", key, valStr, def)
			return def
		}
		return val
	}

	getEnvFloat := func(key string, def float64) float64 {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			fmt.Printf("invalid %s=%q, using default %v\n", key, valStr, def)
			return def
		}
		return val
	}

	cnf := &Config{
		DB: &DBconfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "tourguard_user"),
			Password: getEnv("DB_PASSWORD", "tourguard_pass"),
			Database: getEnv("DB_NAME", "tourguard_db"),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		Redis: &Redisconfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Srv: &Serviceconfig{
			TrackingServicePort: getEnv("TRACKING_SERVICE_PORT", "3000"),
			PublicJwtSecret:     getEnv("PUBLIC_JWT_SECRET", "dev-secret"),
		},
		Tracking: &Trackingconfig{
			ArrivalRadiusMeters:     getEnvFloat("ARRIVAL_RADIUS_METERS", 50),
			ReorderToleranceSeconds: getEnvInt("REORDER_TOLERANCE_SECONDS", 120),
			FutureSkewSeconds:       getEnvInt("FUTURE_SKEW_SECONDS", 300),
			AreaRefreshSeconds:      getEnvInt("AREA_REFRESH_SECONDS", 60),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}

	return cnf, nil
}
