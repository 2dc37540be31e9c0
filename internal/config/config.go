package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string
	StorageBackend   string
	MigrateOnStart   bool

	HTTPPort        string
	OperatorWorkers int

	MatchWindowDays      int
	AmountToleranceCents int64
	PayableMarker        string
	StatsLookbackMonths  int
	Currency             string

	LogLevel string

	AMQPURL      string
	AMQPExchange string
}

// PostgresConnectionString returns the lib/pq URL for the configured database.
func (c *Config) PostgresConnectionString() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

func ProcessEnvironmentVariables() (*Config, error) {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		StorageBackend:   StorageBackendPostgres,

		HTTPPort:        "9446",
		OperatorWorkers: 4,

		MatchWindowDays:      5,
		AmountToleranceCents: 1,
		PayableMarker:        "paypal",
		StatsLookbackMonths:  12,
		Currency:             "EUR",

		LogLevel: "info",

		AMQPExchange: "ledger",
	}

	setString(&env.PostgresAddress, "POSTGRES_ADDRESS")
	setString(&env.PostgresPort, "POSTGRES_PORT")
	setString(&env.PostgresDB, "POSTGRES_DB")
	setString(&env.PostgresUsername, "POSTGRES_USERNAME")
	setString(&env.PostgresPassword, "POSTGRES_PASSWORD")
	setString(&env.StorageBackend, "STORAGE_BACKEND")
	setString(&env.HTTPPort, "HTTP_PORT")
	setString(&env.PayableMarker, "PAYABLE_MARKER")
	setString(&env.Currency, "CURRENCY")
	setString(&env.LogLevel, "LOG_LEVEL")
	setString(&env.AMQPURL, "AMQP_URL")
	setString(&env.AMQPExchange, "AMQP_EXCHANGE")

	if err := setBool(&env.MigrateOnStart, "MIGRATE_ON_START"); err != nil {
		return nil, err
	}
	if err := setInt(&env.OperatorWorkers, "OPERATOR_WORKERS"); err != nil {
		return nil, err
	}
	if err := setInt(&env.MatchWindowDays, "MATCH_WINDOW_DAYS"); err != nil {
		return nil, err
	}
	if err := setInt(&env.StatsLookbackMonths, "STATS_LOOKBACK_MONTHS"); err != nil {
		return nil, err
	}
	tolerance := int(env.AmountToleranceCents)
	if err := setInt(&tolerance, "AMOUNT_TOLERANCE_CENTS"); err != nil {
		return nil, err
	}
	env.AmountToleranceCents = int64(tolerance)

	if err := env.Validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.StorageBackend != StorageBackendPostgres && c.StorageBackend != StorageBackendMemory {
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageBackendPostgres, StorageBackendMemory, c.StorageBackend)
	}
	if port, err := strconv.Atoi(c.HTTPPort); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("HTTP_PORT must be a port number, got %q", c.HTTPPort)
	}
	if c.MatchWindowDays < 0 {
		return fmt.Errorf("MATCH_WINDOW_DAYS must not be negative")
	}
	if c.AmountToleranceCents < 0 {
		return fmt.Errorf("AMOUNT_TOLERANCE_CENTS must not be negative")
	}
	if c.StatsLookbackMonths < 1 {
		return fmt.Errorf("STATS_LOOKBACK_MONTHS must be at least 1")
	}
	return nil
}

func setString(target *string, key string) {
	if value := os.Getenv(key); len(value) != 0 {
		*target = value
	}
}

func setInt(target *int, key string) error {
	value := os.Getenv(key)
	if len(value) == 0 {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*target = parsed
	return nil
}

func setBool(target *bool, key string) error {
	value := os.Getenv(key)
	if len(value) == 0 {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	*target = parsed
	return nil
}
