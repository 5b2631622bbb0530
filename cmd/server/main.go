package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"guard-collective/gatekeeper/internal/config"
	"guard-collective/gatekeeper/internal/db"
	"guard-collective/gatekeeper/internal/logging"
	"guard-collective/gatekeeper/internal/routes"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	if err := logging.Init(appEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Gatekeeper starting up",
		"environment", appEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logging.Error("Failed to load configuration", "path", configPath, "error", err.Error())
		log.Fatalf("❌ Failed to load configuration from %s: %v", configPath, err)
	}
	logging.Info("Configuration loaded", "path", configPath)

	// Connect to DB with sqlx (API keys)
	if err := db.InitPostgres(); err != nil {
		logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
		log.Fatalf("❌ Failed to connect to Postgres (sqlx): %v", err)
	}
	logging.Info("Connected to Postgres (sqlx)")

	// Open the audit database with GORM
	if _, err := db.InitORM(); err != nil {
		logging.Error("Failed to open audit database", "error", err.Error())
		log.Fatalf("❌ Failed to open audit database: %v", err)
	}
	logging.Info("Audit database ready")

	upSince := time.Now()
	router := routes.RegisterRoutes(cfg, upSince)

	// Metrics endpoint lives outside the chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logging.Info("Server starting",
		"port", port,
		"environment", appEnv,
	)

	log.Println("Starting server on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, mux))
}
