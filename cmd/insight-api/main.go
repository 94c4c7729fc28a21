// Package main provides the insight-api server for flight-plan analysis.
//
// This is a standalone REST API server over the analysis pipeline: post a
// batch of filed flight plans and get trajectories, conflicts, hotspots,
// and resolution proposals back. Flight batches can be persisted to a
// local SQLite file or a shared PostgreSQL database.
//
// Usage:
//
//	insight-api [options]
//
// Options:
//
//	-store BACKEND      Flight store backend: sqlite, postgres, none (default: sqlite)
//	-sqlite PATH        SQLite database path (default: flights.db)
//	-pg-host HOST       PostgreSQL host (default: localhost, env: POSTGRES_HOST)
//	-pg-port PORT       PostgreSQL port (default: 5432, env: POSTGRES_PORT)
//	-pg-database DB     PostgreSQL database (default: flight_insight, env: POSTGRES_DATABASE)
//	-pg-user USER       PostgreSQL user (default: insight, env: POSTGRES_USER)
//	-pg-password PASS   PostgreSQL password (default: insight, env: POSTGRES_PASSWORD)
//	-port N             HTTP port (default: 8080)
//	-auth               Enable API key authentication
//	-api-keys KEYS      Comma-separated list of valid API keys
//
// API Endpoints:
//
//	GET  /api/v1/health
//	POST /api/v1/validate     Schema/route/constraint issues for a batch.
//	POST /api/v1/trajectory   Sampled 4D trajectories per ACID.
//	POST /api/v1/conflicts    Conflict events, severity descending.
//	POST /api/v1/hotspots     Top hotspot cells, score descending.
//	POST /api/v1/propose      Resolution candidates per conflict-side.
//	POST /api/v1/apply        Apply accepted resolutions, return revised plans.
//	POST /api/v1/analyze      Everything above in one response.
//	GET  /api/v1/flights      Load the stored batch (?batch=NAME).
//	POST /api/v1/flights      Save a batch (?batch=NAME).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"flight_insight/internal/airports"
	"flight_insight/internal/analysis"
	"flight_insight/internal/api"
	"flight_insight/internal/storage"
)

func main() {
	// Store backend flags.
	storeBackend := flag.String("store", "sqlite", "Flight store backend: sqlite, postgres, none")
	sqlitePath := flag.String("sqlite", "flights.db", "SQLite database path")
	pgHost := flag.String("pg-host", envOrDefault("POSTGRES_HOST", "localhost"), "PostgreSQL host")
	pgPort := flag.Int("pg-port", envOrDefaultInt("POSTGRES_PORT", 5432), "PostgreSQL port")
	pgUser := flag.String("pg-user", envOrDefault("POSTGRES_USER", "insight"), "PostgreSQL user")
	pgPassword := flag.String("pg-password", envOrDefault("POSTGRES_PASSWORD", "insight"), "PostgreSQL password")
	pgDB := flag.String("pg-database", envOrDefault("POSTGRES_DATABASE", "flight_insight"), "PostgreSQL database")

	// API server flags.
	port := flag.Int("port", 8080, "HTTP port for API server")
	authEnabled := flag.Bool("auth", false, "Enable API key authentication")
	apiKeys := flag.String("api-keys", "", "Comma-separated list of valid API keys (when auth enabled)")

	flag.Parse()

	ctx := context.Background()

	var (
		store storage.FlightStore
		err   error
	)
	switch *storeBackend {
	case "sqlite":
		store, err = storage.OpenSQLite(*sqlitePath)
	case "postgres":
		store, err = storage.OpenPostgres(ctx, storage.PostgresConfig{
			Host:     *pgHost,
			Port:     *pgPort,
			Database: *pgDB,
			User:     *pgUser,
			Password: *pgPassword,
		})
	case "none":
		store = nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown store backend: %s\n", *storeBackend)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening flight store: %v\n", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	// Parse API keys.
	var keys []string
	if *apiKeys != "" {
		keys = strings.Split(*apiKeys, ",")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
		}
	}

	analyzer := analysis.New(airports.Canadian())

	server := api.NewServer(analyzer, store, api.Config{
		Port:        *port,
		AuthEnabled: *authEnabled,
		APIKeys:     keys,
	})

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
