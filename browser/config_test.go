package browser

import (
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MemoryLimit != 1<<30 {
		t.Errorf("memory limit = %d", cfg.MemoryLimit)
	}
	if cfg.RecycleInterval != 4*time.Hour {
		t.Errorf("recycle interval = %s", cfg.RecycleInterval)
	}
	if cfg.Mode != ModeHeadless {
		t.Errorf("mode = %v", cfg.Mode)
	}
	if cfg.Logger == nil {
		t.Error("logger not defaulted")
	}
}

func TestParseConfigFull(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
remote: ws://chrome:9222/devtools/browser/abc
memory_limit: 536870912
recycle_interval: 1h
mode: headful
stealth: true
ignore_cert_errors: true
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RemoteURL != "ws://chrome:9222/devtools/browser/abc" {
		t.Errorf("remote = %q", cfg.RemoteURL)
	}
	if cfg.MemoryLimit != 512<<20 {
		t.Errorf("memory limit = %d", cfg.MemoryLimit)
	}
	if cfg.RecycleInterval != time.Hour {
		t.Errorf("recycle interval = %s", cfg.RecycleInterval)
	}
	if cfg.Mode != ModeHeadful {
		t.Errorf("mode = %v", cfg.Mode)
	}
	if !cfg.Stealth || !cfg.IgnoreCertErrors {
		t.Error("stealth/ignore_cert_errors not parsed")
	}
}

func TestParseConfigRejectsUnknownMode(t *testing.T) {
	if _, err := ParseConfig([]byte("mode: invisible\n")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
