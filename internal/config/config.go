package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds all simulator configuration.
type Config struct {
	// Server
	HTTPPort int
	Host     string

	// Database
	MongoURI string

	// Simulation
	Seed           int64
	TickInterval   time.Duration
	Scenario       string
	AutoStart      bool
	SendBufferSize int

	// Logging
	Debug bool
}

func Load() *Config {
	c := &Config{}

	flag.IntVar(&c.HTTPPort, "port", envInt("HEDGE_PORT", 8100), "HTTP server port")
	flag.StringVar(&c.Host, "host", envStr("HEDGE_HOST", "0.0.0.0"), "Listen host")

	flag.StringVar(&c.MongoURI, "mongo-uri", envStr("MONGO_URI", ""), "MongoDB connection URI for presets (empty = in-memory)")

	flag.Int64Var(&c.Seed, "seed", envInt64("HEDGE_SEED", 0), "PRNG seed (0 = time-derived)")
	flag.StringVar(&c.Scenario, "scenario", envStr("HEDGE_SCENARIO", ""), "Named scenario to load at boot (empty = defaults)")
	flag.BoolVar(&c.AutoStart, "start", envBool("HEDGE_START", false), "Start the simulation immediately")
	flag.IntVar(&c.SendBufferSize, "send-buffer", envInt("SEND_BUFFER", 64), "Per-client send buffer size")

	flag.BoolVar(&c.Debug, "debug", envBool("HEDGE_DEBUG", false), "Development logging")

	tickMs := flag.Int("tick-ms", envInt("HEDGE_TICK_MS", 100), "Wall-clock milliseconds per simulated day")

	flag.Parse()

	c.TickInterval = time.Duration(*tickMs) * time.Millisecond

	return c
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
