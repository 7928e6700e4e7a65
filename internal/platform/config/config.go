// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Cache backend names accepted by LEXGATE_CACHE_BACKEND.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr string

	LogLevel  string
	LogFormat string

	// Upstreams.
	SAOSBaseURL     string
	PortalBaseURL   string
	UpstreamTimeout time.Duration
	AllowedHosts    []string

	// Cache.
	CacheBackend   string
	CacheCapacity  int
	CacheNamespace string
	SweepInterval  time.Duration
	SearchTTL      time.Duration
	DetailTTL      time.Duration
	HealthTTL      time.Duration
	Redis          RedisConfig

	// Rate limits, per trailing minute.
	SearchLimit int
	DetailLimit int
	HealthLimit int

	// Audit.
	AuditCapacity    int
	AuditIncludeText bool
}

// RedisConfig configures the optional redis cache backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables with sane defaults.
func FromEnv() Config {
	return Config{
		Addr: envString("LEXGATE_ADDR", ":8080"),

		LogLevel:  envString("LEXGATE_LOG_LEVEL", "info"),
		LogFormat: envString("LEXGATE_LOG_FORMAT", "json"),

		SAOSBaseURL:     envString("LEXGATE_SAOS_URL", ""),
		PortalBaseURL:   envString("LEXGATE_PORTAL_URL", ""),
		UpstreamTimeout: envDuration("LEXGATE_UPSTREAM_TIMEOUT", 15*time.Second),
		AllowedHosts:    envList("LEXGATE_ALLOWED_HOSTS", []string{"www.saos.org.pl", "orzeczenia.uzp.gov.pl"}),

		CacheBackend:   envString("LEXGATE_CACHE_BACKEND", CacheBackendMemory),
		CacheCapacity:  envInt("LEXGATE_CACHE_CAPACITY", 1000),
		CacheNamespace: envString("LEXGATE_CACHE_NAMESPACE", "lexgate:cache"),
		SweepInterval:  envDuration("LEXGATE_CACHE_SWEEP_INTERVAL", time.Minute),
		SearchTTL:      envDuration("LEXGATE_SEARCH_TTL", 5*time.Minute),
		DetailTTL:      envDuration("LEXGATE_DETAIL_TTL", time.Hour),
		HealthTTL:      envDuration("LEXGATE_HEALTH_TTL", 30*time.Second),
		Redis: RedisConfig{
			URL:          envString("LEXGATE_REDIS_URL", ""),
			PoolSize:     envInt("LEXGATE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("LEXGATE_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("LEXGATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("LEXGATE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("LEXGATE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},

		SearchLimit: envInt("LEXGATE_SEARCH_LIMIT", 30),
		DetailLimit: envInt("LEXGATE_DETAIL_LIMIT", 15),
		HealthLimit: envInt("LEXGATE_HEALTH_LIMIT", 60),

		AuditCapacity:    envInt("LEXGATE_AUDIT_CAPACITY", 1000),
		AuditIncludeText: os.Getenv("LEXGATE_AUDIT_INCLUDE_TEXT") == "true",
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
