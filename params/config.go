package params

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

// WalletCredential is one (address, private key) pair. The address is the
// wallet whose holdings are queried; the key signs that wallet's orders.
type WalletCredential struct {
	Address    string
	PrivateKey string
}

type Config struct {
	APIKey  string // marketplace API key, sent as X-API-KEY
	BaseURL string // marketplace API base URL
	RPCURL  string // chain RPC endpoint for counter lookups
	Chain   string // chain slug used in API paths and asset links
	ChainID int64  // numeric chain ID bound into the signing domain

	Collection      string        // target ERC-721 collection address
	PriceETH        string        // listing price as a decimal ETH string
	DurationMinutes int           // listing validity window
	Delay           time.Duration // pause between consecutive submissions
	LogFile         string        // append-only run log

	WalletAddresses []string // index-aligned with WalletKeys
	WalletKeys      []string
}

func Default() Config {
	return Config{
		BaseURL:         "https://api.opensea.io",
		Chain:           "ethereum",
		ChainID:         1,
		DurationMinutes: 30,
		Delay:           3 * time.Second,
		LogFile:         "data/lister.log",
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	cfg.APIKey = getEnv("OPENSEA_API_KEY", cfg.APIKey)
	cfg.BaseURL = getEnv("OPENSEA_BASE_URL", cfg.BaseURL)
	cfg.RPCURL = getEnv("RPC_URL", cfg.RPCURL)
	cfg.Chain = getEnv("CHAIN", cfg.Chain)
	cfg.Collection = getEnv("COLLECTION_ADDRESS", cfg.Collection)
	cfg.PriceETH = getEnv("LISTING_PRICE_ETH", cfg.PriceETH)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	if v := os.Getenv("CHAIN_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.ChainID = id
		}
	}
	if v := os.Getenv("LISTING_DURATION_MIN"); v != "" {
		if mins, err := strconv.Atoi(v); err == nil {
			cfg.DurationMinutes = mins
		}
	}
	if v := os.Getenv("DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.Delay = time.Duration(ms) * time.Millisecond
		}
	}

	cfg.WalletAddresses = splitList(os.Getenv("WALLET_ADDRESSES"))
	cfg.WalletKeys = splitList(os.Getenv("WALLET_PRIVATE_KEYS"))

	return cfg
}

// Validate checks the configuration before any network activity. Each failure
// names the offending value so a bad deploy is diagnosable from the one line.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("OPENSEA_API_KEY is required")
	}
	if strings.TrimSpace(c.RPCURL) == "" {
		return fmt.Errorf("RPC_URL is required")
	}
	if !common.IsHexAddress(c.Collection) {
		return fmt.Errorf("COLLECTION_ADDRESS %q is not a valid address", c.Collection)
	}
	if strings.TrimSpace(c.PriceETH) == "" {
		return fmt.Errorf("LISTING_PRICE_ETH is required")
	}
	// Zero-duration listings expire the instant they are signed; treat them as
	// a misconfiguration rather than signing an unfillable order.
	if c.DurationMinutes < 1 {
		return fmt.Errorf("LISTING_DURATION_MIN must be >= 1, got %d", c.DurationMinutes)
	}
	if c.Delay < 0 {
		return fmt.Errorf("DELAY_MS must not be negative")
	}
	if len(c.WalletAddresses) == 0 {
		return fmt.Errorf("WALLET_ADDRESSES is required (newline- or comma-delimited)")
	}
	if len(c.WalletAddresses) != len(c.WalletKeys) {
		return fmt.Errorf("wallet list mismatch: %d addresses vs %d private keys",
			len(c.WalletAddresses), len(c.WalletKeys))
	}
	for i, addr := range c.WalletAddresses {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("wallet address #%d %q is not a valid address", i+1, addr)
		}
	}
	return nil
}

// Credentials zips the two index-aligned lists. Call only after Validate.
func (c *Config) Credentials() []WalletCredential {
	creds := make([]WalletCredential, len(c.WalletAddresses))
	for i := range c.WalletAddresses {
		creds[i] = WalletCredential{
			Address:    c.WalletAddresses[i],
			PrivateKey: c.WalletKeys[i],
		}
	}
	return creds
}

// splitList parses a newline- or comma-delimited list, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ','
	}) {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
