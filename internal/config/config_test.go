package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.HTTP.Addr)
	}
	if cfg.Store.Backend != "sheetdb" {
		t.Errorf("expected sheetdb backend, got %q", cfg.Store.Backend)
	}
	if cfg.Sync.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.Sync.MaxAttempts)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Errorf("expected no brokers, got %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("SHEETDB_PARTS_URL", "http://sheet.local/parts")
	t.Setenv("SYNC_INITIAL_BACKOFF", "250ms")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SESSION_BACKEND", "pebble")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Store.Backend != "memory" {
		t.Errorf("expected memory, got %q", cfg.Store.Backend)
	}
	if cfg.SheetDB.PartsURL != "http://sheet.local/parts" {
		t.Errorf("unexpected parts url %q", cfg.SheetDB.PartsURL)
	}
	if cfg.Sync.InitialBackoff != 250*time.Millisecond {
		t.Errorf("unexpected backoff %v", cfg.Sync.InitialBackoff)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("unexpected brokers %v", cfg.Kafka.Brokers)
	}
	if cfg.Session.Backend != "pebble" {
		t.Errorf("unexpected session backend %q", cfg.Session.Backend)
	}
}
