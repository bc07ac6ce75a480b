package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-level configuration, resolved once at startup.
type Config struct {
	ServerAddr    string
	DatabaseURL   string
	EncryptionKey string

	Symbols         []string
	Timeframe       string
	LowerTimeframe  string
	AnchorTimeframe string
	ScanInterval    time.Duration

	TolerancePct      float64
	MergeDistancePct  float64
	ImpulseFactor     float64
	MomentumCandles   int
	ConfirmMaxCandles int
	RequireConfluence bool
	RiskPercent       float64

	BlackoutStartHour int
	BlackoutEndHour   int
}

// Load reads .env (when present) and resolves the configuration from the
// environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		EncryptionKey: getEnv("ENCRYPTION_KEY", "dev-only-encryption-key"),

		Symbols:         getEnvList("SYMBOLS", []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}),
		Timeframe:       getEnv("TIMEFRAME", "1h"),
		LowerTimeframe:  getEnv("LOWER_TIMEFRAME", "5m"),
		AnchorTimeframe: getEnv("ANCHOR_TIMEFRAME", "1d"),
		ScanInterval:    getEnvDuration("SCAN_INTERVAL", time.Minute),

		TolerancePct:      getEnvFloat("TOLERANCE_PCT", 0.05),
		MergeDistancePct:  getEnvFloat("MERGE_DISTANCE_PCT", 0.10),
		ImpulseFactor:     getEnvFloat("IMPULSE_FACTOR", 1.5),
		MomentumCandles:   getEnvInt("MOMENTUM_CANDLES", 3),
		ConfirmMaxCandles: getEnvInt("CONFIRM_MAX_CANDLES", 12),
		RequireConfluence: getEnvBool("REQUIRE_CONFLUENCE", true),
		RiskPercent:       getEnvFloat("RISK_PERCENT", 1.0),

		BlackoutStartHour: getEnvInt("BLACKOUT_START_HOUR", 0),
		BlackoutEndHour:   getEnvInt("BLACKOUT_END_HOUR", 0),
	}
}

// AnchorDuration maps the anchor timeframe label onto a duration.
func (c *Config) AnchorDuration() time.Duration {
	switch c.AnchorTimeframe {
	case "4h":
		return 4 * time.Hour
	case "1w":
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := getEnv(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := getEnv(key, ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := getEnv(key, ""); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := getEnv(key, ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
