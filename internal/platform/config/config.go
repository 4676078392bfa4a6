package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	// Addr is the HTTP listen address.
	Addr string
	// DBPath is the JSON catalog file used by the storage collaborator.
	DBPath string
	// PhoneRegion is the default numbering-plan region applied to phone
	// candidates without an international prefix. Empty means strict
	// E.164: only values with a leading + can classify as phone.
	PhoneRegion string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// SeedDemo registers the built-in template set at startup.
	SeedDemo bool
}

// Load reads .env (if present) then environment variables and returns
// server configuration with defaults applied.
func Load() Server {
	// Best-effort: load .env from current directory
	_ = godotenv.Load()

	cfg := Server{
		Addr:        ":8080",
		DBPath:      "db.json",
		PhoneRegion: "RU",
		LogLevel:    "info",
	}

	if addr := os.Getenv("FORMDETECT_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if path := os.Getenv("FORMDETECT_DB_PATH"); path != "" {
		cfg.DBPath = path
	}
	// LookupEnv so an explicitly empty region selects strict E.164
	// instead of falling back to the default.
	if region, ok := os.LookupEnv("FORMDETECT_PHONE_REGION"); ok {
		cfg.PhoneRegion = region
	}
	if level := os.Getenv("FORMDETECT_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	cfg.SeedDemo = os.Getenv("FORMDETECT_SEED_DEMO") == "true"

	return cfg
}
