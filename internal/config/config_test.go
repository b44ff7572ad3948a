package config

import (
	"os"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.NodeURL == "" {
		t.Error("expected a non-empty default node URL")
	}
	if cfg.DefaultExpiration != 32 {
		t.Errorf("DefaultExpiration = %d, want 32", cfg.DefaultExpiration)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("THOR_NODE_URL", "https://testnet.veblocks.net")
	t.Setenv("THOR_RECEIPT_POLL_INTERVAL", "500ms")
	t.Setenv("THOR_DEFAULT_EXPIRATION", "1000")

	cfg := FromEnv()
	if cfg.NodeURL != "https://testnet.veblocks.net" {
		t.Errorf("NodeURL = %s, want testnet override", cfg.NodeURL)
	}
	if cfg.ReceiptPollInterval != 500*time.Millisecond {
		t.Errorf("ReceiptPollInterval = %s, want 500ms", cfg.ReceiptPollInterval)
	}
	if cfg.DefaultExpiration != 1000 {
		t.Errorf("DefaultExpiration = %d, want 1000", cfg.DefaultExpiration)
	}
}

func TestFromEnv_IgnoresInvalidValues(t *testing.T) {
	t.Setenv("THOR_RECEIPT_TIMEOUT", "not-a-duration")
	cfg := FromEnv()
	if cfg.ReceiptTimeout != Default().ReceiptTimeout {
		t.Error("expected invalid duration env var to be ignored")
	}
	os.Unsetenv("THOR_RECEIPT_TIMEOUT")
}
