package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	HTTP     ServerConfig
	MySQL    MySQLConfig
	Log      LogConfig
	Admin    AdminConfig
	Borica   BoricaConfig
	Payments PaymentsConfig
	Jobs     JobsConfig
}

type AppConfig struct {
	ServiceName   string
	PublicBaseURL string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type AdminConfig struct {
	Username      string
	Password      string
	SessionSecret string
	SessionTTL    time.Duration
}

type BoricaConfig struct {
	GatewayURL         string
	MerchantID         string
	TerminalID         string
	PrivateKey         string
	PrivateKeyPassword string
	GatewayCertificate string
	MerchantName       string
	MerchantGMT        string
	Country            string
	Language           string
}

type PaymentsConfig struct {
	PendingRetention time.Duration
	VoucherValidity  time.Duration
	JobBatchSize     int32
}

type JobsConfig struct {
	ExpireVouchersInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName:   getEnv("APP_SERVICE_NAME", "booking-service"),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "https://localhost:3000"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Admin: AdminConfig{
			Username:      getEnv("ADMIN_USERNAME", ""),
			Password:      getEnv("ADMIN_PASSWORD", ""),
			SessionSecret: getEnv("ADMIN_SESSION_SECRET", ""),
			SessionTTL:    getMinutesEnv("ADMIN_SESSION_TTL_MINUTES", 24*time.Hour),
		},
		Borica: BoricaConfig{
			GatewayURL:         getEnv("BORICA_GATEWAY_URL", "https://3dsgate-dev.borica.bg/cgi-bin/cgi_link"),
			MerchantID:         getEnv("BORICA_MID", ""),
			TerminalID:         getEnv("BORICA_TID", ""),
			PrivateKey:         getEnv("BORICA_PRIVATE_KEY", ""),
			PrivateKeyPassword: getEnv("BORICA_PRIVATE_KEY_PASSWORD", ""),
			GatewayCertificate: getEnv("BORICA_GATEWAY_CERT", ""),
			MerchantName:       getEnv("BORICA_MERCH_NAME", "BeHarry Ceramic Studio"),
			MerchantGMT:        getEnv("BORICA_MERCH_GMT", "+02"),
			Country:            getEnv("BORICA_COUNTRY", "BG"),
			Language:           getEnv("BORICA_LANG", "BG"),
		},
		Payments: PaymentsConfig{
			PendingRetention: getMinutesEnv("PAYMENTS_PENDING_RETENTION_MINUTES", time.Hour),
			VoucherValidity:  getDaysEnv("PAYMENTS_VOUCHER_VALIDITY_DAYS", 365*24*time.Hour),
			JobBatchSize:     int32(getIntEnv("PAYMENTS_JOB_BATCH_SIZE", 100)),
		},
		Jobs: JobsConfig{
			ExpireVouchersInterval: getMinutesEnv("JOBS_EXPIRE_VOUCHERS_INTERVAL_MINUTES", 12*time.Hour),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getDaysEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if days, err := strconv.Atoi(value); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	return defaultValue
}
