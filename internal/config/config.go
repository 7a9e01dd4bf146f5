package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type APIConfig struct {
	Addr            string
	DatabaseURL     string
	SupabaseURL     string
	SupabaseAnonKey string

	DBMaxConns int
	DBMinConns int

	// Operating-hour cutoffs drifted between historical builds, so
	// they stay tunable. Defaults keep 18:00 inclusive.
	WorkCloseHour    int
	ShopOpenHour     int
	ShopCloseHour    int
	PerformOpenHour  int
	PerformCloseHour int
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadAPIFromEnv() (APIConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("BANDLIFE_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:             addr,
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SupabaseURL:      strings.TrimRight(strings.TrimSpace(os.Getenv("SUPABASE_URL")), "/"),
		SupabaseAnonKey:  strings.TrimSpace(os.Getenv("SUPABASE_ANON_KEY")),
		DBMaxConns:       envIntDefault("BANDLIFE_DB_MAX_CONNS", 20),
		DBMinConns:       envIntDefault("BANDLIFE_DB_MIN_CONNS", 2),
		WorkCloseHour:    envIntDefault("BANDLIFE_WORK_CLOSE_HOUR", 18),
		ShopOpenHour:     envIntDefault("BANDLIFE_SHOP_OPEN_HOUR", 9),
		ShopCloseHour:    envIntDefault("BANDLIFE_SHOP_CLOSE_HOUR", 18),
		PerformOpenHour:  envIntDefault("BANDLIFE_PERFORM_OPEN_HOUR", 13),
		PerformCloseHour: envIntDefault("BANDLIFE_PERFORM_CLOSE_HOUR", 18),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.SupabaseURL == "" {
		return cfg, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return cfg, fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("BND_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
