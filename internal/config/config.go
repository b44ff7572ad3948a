// Package config holds the SDK's runtime settings: a single Thor node
// endpoint and the timing knobs the pipeline's Broadcast and
// AwaitReceipt steps need.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configurable parameters for the transaction SDK.
type Config struct {
	// NodeURL is the Thor REST endpoint, e.g. "https://mainnet.veblocks.net".
	NodeURL string

	// ReceiptPollInterval and ReceiptTimeout tune AwaitReceipt's polling loop.
	ReceiptPollInterval time.Duration
	ReceiptTimeout      time.Duration

	// BroadcastMaxRetries and ContextTimeout tune the Broadcast step.
	BroadcastMaxRetries int
	ContextTimeout      time.Duration

	// DefaultExpiration is the block window (§ expiration) new
	// transactions get when the caller doesn't set one explicitly.
	DefaultExpiration uint32

	// DefaultGasPriceCoef is the legacy gasPriceCoef applied when the
	// caller doesn't set one (0 = base gas price, no cap-squeeze).
	DefaultGasPriceCoef byte
}

// Default returns a Config populated with default values for VeChain mainnet.
func Default() Config {
	return Config{
		NodeURL:             "https://mainnet.veblocks.net",
		ReceiptPollInterval: 1 * time.Second,
		ReceiptTimeout:      60 * time.Second,
		BroadcastMaxRetries: 3,
		ContextTimeout:      15 * time.Second,
		DefaultExpiration:   32,
		DefaultGasPriceCoef: 0,
	}
}

// FromEnv returns a Config populated from environment variables,
// falling back to defaults for unset values.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("THOR_NODE_URL"); v != "" {
		cfg.NodeURL = v
	}
	if v := os.Getenv("THOR_RECEIPT_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ReceiptPollInterval = d
		}
	}
	if v := os.Getenv("THOR_RECEIPT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ReceiptTimeout = d
		}
	}
	if v := os.Getenv("THOR_BROADCAST_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BroadcastMaxRetries = n
		}
	}
	if v := os.Getenv("THOR_CONTEXT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ContextTimeout = d
		}
	}
	if v := os.Getenv("THOR_DEFAULT_EXPIRATION"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.DefaultExpiration = uint32(n)
		}
	}
	if v := os.Getenv("THOR_DEFAULT_GAS_PRICE_COEF"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.DefaultGasPriceCoef = byte(n)
		}
	}

	return cfg
}
