package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the process reads from the environment.
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	// RedisAddr empty means single-instance mode: room fan-out stays
	// in-process instead of going through Redis pub/sub.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	LogFile string `envconfig:"LOG_FILE" default:"logs/pairwave.log"`
	LogProd bool   `envconfig:"LOG_PROD" default:"false"`

	// LocalePath points at a directory of <lang>.json catalogs overriding
	// the built-in notification texts.
	LocalePath string `envconfig:"LOCALE_PATH"`
	Lang       string `envconfig:"LANG_DEFAULT" default:"ru"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
