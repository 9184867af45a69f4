package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// EncryptionKey is a 64-char hex string (AES-256). Must come from the
	// environment; there is no default on purpose.
	EncryptionKey string

	UploadDir     string
	MaxUploadSize int64

	ImportWorkers   int
	ImportQueueSize int
	// Imports stuck in PROCESSING longer than this are failed by the sweeper.
	ImportTimeout time.Duration
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvSeconds(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return d
}

func Load() *Config {
	// Missing .env is fine; real deployments inject the environment directly.
	_ = godotenv.Load()

	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "drmp"),
		MySQLUser: getenv("MYSQL_USER", "drmp"),
		MySQLPass: getenv("MYSQL_PASS", "drmp"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getenvInt("REDIS_DB", 0),

		JWTSecret:       getenv("JWT_SECRET", ""),
		AccessTokenTTL:  getenvSeconds("JWT_ACCESS_TTL_SECONDS", 2*time.Hour),
		RefreshTokenTTL: getenvSeconds("JWT_REFRESH_TTL_SECONDS", 7*24*time.Hour),

		EncryptionKey: getenv("ENCRYPTION_KEY", ""),

		UploadDir:     getenv("UPLOAD_DIR", "/var/lib/drmp/uploads"),
		MaxUploadSize: int64(getenvInt("MAX_UPLOAD_MB", 100)) << 20,

		ImportWorkers:   getenvInt("IMPORT_WORKERS", 5),
		ImportQueueSize: getenvInt("IMPORT_QUEUE_SIZE", 100),
		ImportTimeout:   getenvSeconds("IMPORT_TIMEOUT_SECONDS", 2*time.Hour),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if len(c.EncryptionKey) != 64 {
		return errors.New("ENCRYPTION_KEY must be 64 hex characters (AES-256)")
	}
	if c.ImportWorkers < 1 || c.ImportQueueSize < 1 {
		return errors.New("IMPORT_WORKERS and IMPORT_QUEUE_SIZE must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
