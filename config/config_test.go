package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s failed: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		}
	})
}

func TestLoadRequiresMySQLDSN(t *testing.T) {
	unsetEnv(t, "MYSQL_DSN")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing MYSQL_DSN")
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/booking?parseTime=true")
	setEnv(t, "APP_SERVICE_NAME", "booking-test")
	setEnv(t, "PUBLIC_BASE_URL", "https://studio.example")
	setEnv(t, "HTTP_PORT", "8181")
	setEnv(t, "MYSQL_MAX_OPEN_CONNS", "20")
	setEnv(t, "MYSQL_MAX_IDLE_CONNS", "8")
	setEnv(t, "BORICA_MID", "1234567890")
	setEnv(t, "BORICA_TID", "V1234567")
	setEnv(t, "PAYMENTS_PENDING_RETENTION_MINUTES", "30")
	setEnv(t, "PAYMENTS_VOUCHER_VALIDITY_DAYS", "180")
	setEnv(t, "PAYMENTS_JOB_BATCH_SIZE", "99")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.App.ServiceName != "booking-test" {
		t.Fatalf("unexpected app service name: %s", cfg.App.ServiceName)
	}
	if cfg.App.PublicBaseURL != "https://studio.example" {
		t.Fatalf("unexpected public base url: %s", cfg.App.PublicBaseURL)
	}
	if cfg.HTTP.Port != "8181" {
		t.Fatalf("unexpected http port: %s", cfg.HTTP.Port)
	}
	if cfg.MySQL.MaxOpenConns != 20 || cfg.MySQL.MaxIdleConns != 8 {
		t.Fatalf("unexpected mysql pool config: %+v", cfg.MySQL)
	}
	if cfg.Borica.MerchantID != "1234567890" || cfg.Borica.TerminalID != "V1234567" {
		t.Fatalf("unexpected borica merchant config: %+v", cfg.Borica)
	}
	if cfg.Borica.GatewayURL == "" {
		t.Fatal("expected default borica gateway url")
	}
	if cfg.Payments.PendingRetention != 30*time.Minute {
		t.Fatalf("unexpected pending retention: %v", cfg.Payments.PendingRetention)
	}
	if cfg.Payments.VoucherValidity != 180*24*time.Hour {
		t.Fatalf("unexpected voucher validity: %v", cfg.Payments.VoucherValidity)
	}
	if cfg.Payments.JobBatchSize != 99 {
		t.Fatalf("unexpected job batch size: %d", cfg.Payments.JobBatchSize)
	}
}
