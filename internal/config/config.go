package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Cache    CacheConfig
	Policy   PolicyConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port       int
	Env        string
	LogLevel   string
	CORSOrigin string
}

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// CacheConfig selects the store backing the permission evaluator caches
type CacheConfig struct {
	Driver        string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// PolicyConfig holds the temporal policy defaults
type PolicyConfig struct {
	RegistrationDeadlineDay int
	ExpenseDeadlineDay      int
	UnlockWindow            time.Duration
	UndoWindow              time.Duration
	Timezone                string
	AutoMigrate             bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "workforce"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:       appPort,
		Env:        getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Cache configuration
	cacheTTL, err := getEnvDuration("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	config.Cache = CacheConfig{
		Driver:        getEnv("CACHE_DRIVER", CacheDriverMemory),
		TTL:           cacheTTL,
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
	}

	// Policy configuration
	registrationDay, err := getEnvInt("REGISTRATION_DEADLINE_DAY", 3)
	if err != nil {
		return nil, err
	}
	expenseDay, err := getEnvInt("EXPENSE_DEADLINE_DAY", 3)
	if err != nil {
		return nil, err
	}
	unlockWindow, err := getEnvDuration("UNLOCK_WINDOW", time.Hour)
	if err != nil {
		return nil, err
	}
	undoWindow, err := getEnvDuration("UNDO_WINDOW", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	autoMigrate, err := strconv.ParseBool(getEnv("AUTO_MIGRATE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_MIGRATE: %w", err)
	}

	config.Policy = PolicyConfig{
		RegistrationDeadlineDay: registrationDay,
		ExpenseDeadlineDay:      expenseDay,
		UnlockWindow:            unlockWindow,
		UndoWindow:              undoWindow,
		Timezone:                getEnv("ORG_TIMEZONE", "Asia/Tokyo"),
		AutoMigrate:             autoMigrate,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Cache.Driver != CacheDriverMemory && c.Cache.Driver != CacheDriverRedis {
		return fmt.Errorf("CACHE_DRIVER must be %q or %q", CacheDriverMemory, CacheDriverRedis)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Policy.RegistrationDeadlineDay < 1 || c.Policy.RegistrationDeadlineDay > 28 {
		return fmt.Errorf("REGISTRATION_DEADLINE_DAY must be between 1 and 28")
	}
	if c.Policy.ExpenseDeadlineDay < 1 || c.Policy.ExpenseDeadlineDay > 28 {
		return fmt.Errorf("EXPENSE_DEADLINE_DAY must be between 1 and 28")
	}
	if c.Policy.UnlockWindow <= 0 {
		return fmt.Errorf("UNLOCK_WINDOW must be positive")
	}
	if c.Policy.UndoWindow <= 0 {
		return fmt.Errorf("UNDO_WINDOW must be positive")
	}
	if _, err := time.LoadLocation(c.Policy.Timezone); err != nil {
		return fmt.Errorf("ORG_TIMEZONE %q is not a known timezone: %w", c.Policy.Timezone, err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
