package main

import (
	"context"                 // context package is needed for Redis operations
	"paychat/internal/api"    // Custom package for API handlers
	"paychat/internal/chain"  // Payment network client
	"paychat/internal/config" // Custom package for configuration
	"paychat/internal/db"     // Database connection
	"paychat/internal/events" // Event publishers
	"paychat/internal/notify" // Invoice mail

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Connect to the configured database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Events go to NATS when configured
	var publisher events.Publisher = events.Nop{}
	if cfg.NatsURL != "" {
		nc, err := events.ConnectNATS(cfg.NatsURL)
		if err != nil {
			logrus.Fatalf("failed to connect to NATS: %v", err)
		}
		defer nc.Close()
		publisher = nc
	}

	// Invoice mail goes through SendGrid when configured
	var mailer notify.Mailer = notify.Nop{}
	if cfg.SendgridAPIKey != "" {
		mailer = notify.NewSendGrid(cfg.SendgridAPIKey, cfg.MailFrom)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	r, err := api.NewRouter(api.Server{
		DB:               gdb,
		Redis:            redisClient,
		Chain:            chain.NewRPC(cfg.SolanaRPC),
		Events:           publisher,
		Mailer:           mailer,
		JWTSecret:        cfg.JWTSecret,
		TokenTTL:         cfg.TokenTTL,
		ConfirmTransfers: cfg.ConfirmTransfers,
		SecureCookies:    cfg.IsProd,
		TrustedProxies:   []string{"127.0.0.1"},
	})
	if err != nil {
		logrus.Fatalf("failed to set up router: %v", err)
	}

	logrus.WithField("rpc", cfg.SolanaRPC).Info("Server running on " + cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {                                // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
