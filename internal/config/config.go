package config

import (
	"time" // Token lifetime

	"github.com/ilyakaznacheev/cleanenv" // Struct based environment reader
	"github.com/joho/godotenv"           // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort          string        `env:"APP_PORT" env-default:"8080"`                           // Application port
	DBDriver         string        `env:"DB_DRIVER" env-default:"mysql"`                         // mysql, postgres or sqlite
	DBUser           string        `env:"DB_USER"`                                               // Database user
	DBPassword       string        `env:"DB_PASSWORD"`                                           // Database password
	DBHost           string        `env:"DB_HOST" env-default:"127.0.0.1"`                       // Database host
	DBPort           string        `env:"DB_PORT" env-default:"3306"`                            // Database port
	DBName           string        `env:"DB_NAME" env-default:"paychat"`                         // Database name
	DBPath           string        `env:"DB_PATH" env-default:"paychat.db"`                      // SQLite file path
	JWTSecret        string        `env:"JWT_SECRET" env-required:"true"`                        // JWT secret key
	TokenTTL         time.Duration `env:"TOKEN_TTL" env-default:"1h"`                            // Session token lifetime
	RedisAddr        string        `env:"REDIS_ADDR" env-default:"127.0.0.1:6379"`               // Redis server address
	RedisPass        string        `env:"REDIS_PASS"`                                            // Redis password
	RedisDB          int           `env:"REDIS_DB" env-default:"0"`                              // Redis database number
	SolanaRPC        string        `env:"SOLANA_RPC" env-default:"https://api.devnet.solana.com"` // Payment network RPC endpoint
	ConfirmTransfers bool          `env:"CONFIRM_TRANSFERS" env-default:"true"`                  // Check signatures on chain before recording
	NatsURL          string        `env:"NATS_URL"`                                              // NATS server, events disabled when empty
	SendgridAPIKey   string        `env:"SENDGRID_API_KEY"`                                      // SendGrid key, mail disabled when empty
	MailFrom         string        `env:"MAIL_FROM" env-default:"payments@paychat.local"`        // Sender address for invoice mail
	IsProd           bool          `env:"IS_PROD" env-default:"false"`                           // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err // Missing required keys or malformed values
	}
	return &cfg, nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword +
			" dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=disable"
	case "sqlite":
		return c.DBPath
	default:
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
	}
}
