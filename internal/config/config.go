package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string

	// Cart pricing rules. Literal 299/40 live here and nowhere else.
	FreeDeliveryMin float64
	DeliveryFee     float64

	// DefaultMinStock seeds the low-stock threshold for items listed
	// without one.
	DefaultMinStock int

	// RestockOnRefund controls whether refunding a COMPLETED order puts
	// its quantities back on the shelf. Off by default: fulfilled goods
	// are treated as sold through unless the operator says otherwise.
	RestockOnRefund bool
}

func Load() Config {
	_ = godotenv.Load() // optional .env; real env wins

	cfg := Config{
		Port:            getenv("PORT", "8081"),
		DBDSN:           getenv("DB_DSN", "bazaar.db"),
		LogFile:         getenv("LOG_FILE", "./bazaar.log"),
		FreeDeliveryMin: getfloat("FREE_DELIVERY_MIN", 299),
		DeliveryFee:     getfloat("DELIVERY_FEE", 40),
		DefaultMinStock: getint("DEFAULT_MIN_STOCK", 5),
		RestockOnRefund: getbool("RESTOCK_ON_REFUND", false),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s FREE_DELIVERY_MIN=%.0f DELIVERY_FEE=%.0f RESTOCK_ON_REFUND=%v",
		cfg.Port, cfg.DBDSN, cfg.FreeDeliveryMin, cfg.DeliveryFee, cfg.RestockOnRefund)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getfloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("[config] bad %s=%q, using %v", key, v, def)
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[config] bad %s=%q, using %v", key, v, def)
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("[config] bad %s=%q, using %v", key, v, def)
	}
	return def
}
