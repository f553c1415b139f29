package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	OAuth2Google OAuth2GoogleConfig
	RateLimit    RateLimitConfig
	Routes       RoutesConfig
	Policy       PolicyConfig
	Cron         CronConfig
}

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration time.Duration
	AccessExpiration  time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	FrontendURL    string
	AllowedOrigins []string
}

type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// RateLimitConfig bounds sign-up attempts per client address
type RateLimitConfig struct {
	SignupInterval time.Duration
	SignupBurst    int
	LimiterIdle    time.Duration
}

// RoutesConfig holds the client paths denied sessions are sent to
type RoutesConfig struct {
	LoginEmployee   string
	LoginAdmin      string
	EmployeeHome    string
	AdminHome       string
	PendingApproval string
	SuperAdminHome  string
}

type PolicyConfig struct {
	SuperAdminInAdminArea    bool
	SuperAdminInEmployeeArea bool
}

type CronConfig struct {
	TokenPurgeInterval time.Duration
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

func Load() (*Config, error) {
	// A missing .env is fine, the environment may already be populated
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	autoMigrate, err := getEnvBool("DB_AUTO_MIGRATE", true)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Driver:      getEnv("DB_DRIVER", DriverPostgres),
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "workmatrix"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: autoMigrate,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS"),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{config.App.FrontendURL}
	}

	// JWT configuration
	jwtRefreshExpiration, err := getEnvDuration("JWT_REFRESH_EXPIRATION_TIME", 168*time.Hour)
	if err != nil {
		return nil, err
	}
	jwtAccessExpiration, err := getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", time.Hour)
	if err != nil {
		return nil, err
	}

	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: jwtRefreshExpiration,
		AccessExpiration:  jwtAccessExpiration,
	}

	// OAuth2 Google Configuration
	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
		Scopes:       getEnvSlice("SCOPES"),
	}

	// Sign-up rate limit
	signupInterval, err := getEnvDuration("SIGNUP_RATE_INTERVAL", 60*time.Second)
	if err != nil {
		return nil, err
	}
	signupBurst, err := strconv.Atoi(getEnv("SIGNUP_RATE_BURST", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid SIGNUP_RATE_BURST: %w", err)
	}
	limiterIdle, err := getEnvDuration("SIGNUP_LIMITER_IDLE", time.Hour)
	if err != nil {
		return nil, err
	}
	config.RateLimit = RateLimitConfig{
		SignupInterval: signupInterval,
		SignupBurst:    signupBurst,
		LimiterIdle:    limiterIdle,
	}

	config.Routes = RoutesConfig{
		LoginEmployee:   getEnv("ROUTE_LOGIN_EMPLOYEE", "/login/employee"),
		LoginAdmin:      getEnv("ROUTE_LOGIN_ADMIN", "/login/admin"),
		EmployeeHome:    getEnv("ROUTE_EMPLOYEE_HOME", "/employee/dashboard"),
		AdminHome:       getEnv("ROUTE_ADMIN_HOME", "/admin/dashboard"),
		PendingApproval: getEnv("ROUTE_PENDING_APPROVAL", "/admin/pending-approval"),
		SuperAdminHome:  getEnv("ROUTE_SUPER_ADMIN_HOME", "/admin/approval-requests"),
	}

	inAdmin, err := getEnvBool("POLICY_SUPER_ADMIN_IN_ADMIN_AREA", true)
	if err != nil {
		return nil, err
	}
	inEmployee, err := getEnvBool("POLICY_SUPER_ADMIN_IN_EMPLOYEE_AREA", false)
	if err != nil {
		return nil, err
	}
	config.Policy = PolicyConfig{
		SuperAdminInAdminArea:    inAdmin,
		SuperAdminInEmployeeArea: inEmployee,
	}

	purgeInterval, err := getEnvDuration("CRON_TOKEN_PURGE_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	config.Cron = CronConfig{
		TokenPurgeInterval: purgeInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be one of: %s, %s", DriverPostgres, DriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.RateLimit.SignupInterval <= 0 {
		return fmt.Errorf("SIGNUP_RATE_INTERVAL must be positive")
	}
	if c.RateLimit.SignupBurst < 1 {
		return fmt.Errorf("SIGNUP_RATE_BURST must be at least 1")
	}
	return nil
}

// GoogleEnabled reports whether Google sign-in is fully configured.
func (c *Config) GoogleEnabled() bool {
	return c.OAuth2Google.ClientID != "" &&
		c.OAuth2Google.ClientSecret != "" &&
		c.OAuth2Google.RedirectURL != "" &&
		len(c.OAuth2Google.Scopes) > 0
}

// SecureCookies is on everywhere except local development.
func (c *Config) SecureCookies() bool {
	return c.App.Env != "development"
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
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

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
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

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
