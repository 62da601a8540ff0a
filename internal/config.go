package internal

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	AI            AIConfig            `mapstructure:"ai"`
	Department    DepartmentConfig    `mapstructure:"department"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	TrustedProxies    string        `mapstructure:"trusted_proxies"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	JWTSecret            string        `mapstructure:"jwt_secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	BCryptCost           int           `mapstructure:"bcrypt_cost"`
	ServiceJWTSecret     string        `mapstructure:"service_jwt_secret"`
	ServiceTokenDuration time.Duration `mapstructure:"service_token_duration"`
}

type AIConfig struct {
	BaseURL  string         `mapstructure:"base_url"`
	Sentinel SentinelConfig `mapstructure:"sentinel"`
	Router   RouterConfig   `mapstructure:"router"`
}

type SentinelConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Timeout       time.Duration `mapstructure:"timeout"`
	OnUnavailable string        `mapstructure:"on_unavailable"`
}

type RouterConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	OnUnavailable string        `mapstructure:"on_unavailable"`
	Source        string        `mapstructure:"source"`
}

// DepartmentConfig configures the department microservice process.
type DepartmentConfig struct {
	Code     string         `mapstructure:"code"`
	Port     int            `mapstructure:"port"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ApplyDefaults fills the zero values that have a sensible default.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Security.AccessTokenDuration == 0 {
		c.Security.AccessTokenDuration = 24 * time.Hour
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}
	if c.Security.ServiceTokenDuration == 0 {
		c.Security.ServiceTokenDuration = 5 * time.Minute
	}
	if c.AI.Sentinel.Timeout == 0 {
		c.AI.Sentinel.Timeout = 500 * time.Millisecond
	}
	if c.AI.Sentinel.OnUnavailable == "" {
		c.AI.Sentinel.OnUnavailable = "allow"
	}
	if c.AI.Router.OnUnavailable == "" {
		c.AI.Router.OnUnavailable = "deny"
	}
	if c.AI.Router.Source == "" {
		c.AI.Router.Source = "Web Dashboard"
	}
	if c.Department.Port == 0 {
		c.Department.Port = 5001
	}
	c.Department.Code = strings.ToUpper(strings.TrimSpace(c.Department.Code))
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// LoadConfigFromEnv builds the configuration purely from environment variables.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 5000),
			BaseURL:           getEnv("BASE_URL", ""),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			TrustedProxies:    getEnv("TRUSTED_PROXIES", ""),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Security: SecurityConfig{
			JWTSecret:            getEnv("JWT_SECRET", ""),
			AccessTokenDuration:  getEnvAsDuration("ACCESS_TOKEN_DURATION", 24*time.Hour),
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 10),
			ServiceJWTSecret:     getEnv("SERVICE_JWT_SECRET", ""),
			ServiceTokenDuration: getEnvAsDuration("SERVICE_TOKEN_DURATION", 5*time.Minute),
		},
		AI: AIConfig{
			BaseURL: getEnv("AI_ENGINE_URL", "http://localhost:8000"),
			Sentinel: SentinelConfig{
				Enabled:       getEnvAsBool("AI_SENTINEL_ENABLED", true),
				Timeout:       getEnvAsDuration("AI_SENTINEL_TIMEOUT", 500*time.Millisecond),
				OnUnavailable: getEnv("AI_SENTINEL_ON_UNAVAILABLE", "allow"),
			},
			Router: RouterConfig{
				Timeout:       getEnvAsDuration("AI_ROUTER_TIMEOUT", 0),
				OnUnavailable: getEnv("AI_ROUTER_ON_UNAVAILABLE", "deny"),
				Source:        getEnv("AI_ROUTER_SOURCE", "Web Dashboard"),
			},
		},
		Department: DepartmentConfig{
			Code: getEnv("DEPARTMENT_CODE", "HEALTHCARE"),
			Port: getEnvAsInt("DEPARTMENT_PORT", 5001),
			Database: DatabaseConfig{
				MaxOpenConns:    getEnvAsInt("DEPARTMENT_DB_MAX_OPEN_CONNS", 10),
				MaxIdleConns:    getEnvAsInt("DEPARTMENT_DB_MAX_IDLE_CONNS", 2),
				ConnMaxLifetime: getEnvAsDuration("DEPARTMENT_DB_CONN_MAX_LIFETIME", 30*time.Minute),
				ConnMaxIdleTime: getEnvAsDuration("DEPARTMENT_DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
				Source:          getEnv("DEPARTMENT_DATABASE_URL", ""),
			},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.AI.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("ai config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	for _, p := range strings.Split(c.TrustedProxies, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := netip.ParsePrefix(p); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(p); err != nil {
			return fmt.Errorf("invalid trusted proxy %q", p)
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	if len(c.ServiceJWTSecret) < 32 {
		return errors.New("service_jwt_secret must be at least 32 characters")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 4 and 15")
	}
	return nil
}

func (c *AIConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	if !validPolicy(c.Sentinel.OnUnavailable) {
		return fmt.Errorf("sentinel.on_unavailable must be allow or deny, got %q", c.Sentinel.OnUnavailable)
	}
	if !validPolicy(c.Router.OnUnavailable) {
		return fmt.Errorf("router.on_unavailable must be allow or deny, got %q", c.Router.OnUnavailable)
	}
	if c.Sentinel.Timeout < 0 || c.Router.Timeout < 0 {
		return errors.New("timeouts cannot be negative")
	}
	return nil
}

// Validate checks the settings the department microservice needs on top of the shared ones.
func (c *DepartmentConfig) Validate() error {
	if c.Code == "" {
		return errors.New("department code is required")
	}
	return c.Database.Validate()
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}

func validPolicy(p string) bool {
	return p == "allow" || p == "deny"
}
