package utils

import (
	"context"
	"testing"
	"time"
)

func TestPostgresPoolConfigDefaults(t *testing.T) {
	got := PostgresPoolConfig{}.withDefaults()

	if got.MaxOpenConns != 25 {
		t.Errorf("MaxOpenConns = %d, want 25", got.MaxOpenConns)
	}
	if got.MaxIdleConns != 25 {
		t.Errorf("MaxIdleConns = %d, want 25", got.MaxIdleConns)
	}
	if got.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want 30m", got.ConnMaxLifetime)
	}
	if got.ConnMaxIdleTime != 5*time.Minute {
		t.Errorf("ConnMaxIdleTime = %v, want 5m", got.ConnMaxIdleTime)
	}
	if got.PingTimeout != 5*time.Second {
		t.Errorf("PingTimeout = %v, want 5s", got.PingTimeout)
	}
}

func TestPostgresPoolConfigKeepsExplicitValues(t *testing.T) {
	in := PostgresPoolConfig{
		MaxOpenConns:    3,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: 30 * time.Second,
		PingTimeout:     time.Second,
	}
	if got := in.withDefaults(); got != in {
		t.Errorf("withDefaults() = %+v, want unchanged %+v", got, in)
	}
}

func TestOpenPostgresRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenPostgres(context.Background(), "no-such-driver", "dsn", PostgresPoolConfig{}); err == nil {
		t.Fatal("expected error for unregistered driver")
	}
}
