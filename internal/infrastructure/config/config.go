package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all gateway configuration
type Config struct {
	App       AppConfig
	Upstream  UpstreamConfig
	Redis     RedisConfig
	Session   SessionConfig
	Cookie    CookieConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Cache     CacheConfig
	Spool     SpoolConfig
	Analytics AnalyticsConfig
	Metrics   MetricsConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// UpstreamConfig holds connection settings for the platform core API
type UpstreamConfig struct {
	BaseURL         string
	Timeout         time.Duration
	MaxResponseSize int64  // cap on upstream response bodies, in bytes
	ServiceToken    string // bearer credential the gateway presents upstream
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig holds session cookie signing and lifetime settings
type SessionConfig struct {
	Secret             string
	AdminCookieName    string
	CustomerCookieName string
	AdminTTL           time.Duration
	CustomerTTL        time.Duration
	Issuer             string
}

// CookieConfig holds attributes applied to the session cookies
type CookieConfig struct {
	Domain   string // Domain for cookies (empty = current domain)
	Path     string // Path for cookies
	Secure   bool   // Secure flag (should be true in production for HTTPS)
	SameSite string // SameSite policy: "strict", "lax", or "none"
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool          // Enable stricter rate limiting for login endpoints
	AuthRateLimitRequests int           // Max auth attempts per window
	AuthRateLimitWindow   time.Duration // Auth rate limit window
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// CacheConfig holds listing cache settings
type CacheConfig struct {
	ListingTTL time.Duration
}

// SpoolConfig holds the analytics spool database settings
type SpoolConfig struct {
	Driver          string // sqlite or postgres
	Path            string // sqlite file path
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
}

// AnalyticsConfig holds the analytics flusher settings
type AnalyticsConfig struct {
	Enabled       bool
	BatchSize     int
	FlushInterval time.Duration
	MaxRetries    int
	Retention     time.Duration
}

// MetricsConfig holds Prometheus metrics settings
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// TelemetryConfig holds OpenTelemetry tracing configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTLP gRPC endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // 0.0-1.0, 1.0 = 100%
	ServiceName       string
	Insecure          bool // Use insecure (non-TLS) connection (development only)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with GATEWAY_ prefix (e.g., GATEWAY_SESSION_SECRET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Upstream: UpstreamConfig{
			BaseURL:         v.GetString("upstream.base_url"),
			Timeout:         v.GetDuration("upstream.timeout"),
			MaxResponseSize: v.GetInt64("upstream.max_response_size"),
			ServiceToken:    v.GetString("upstream.service_token"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Session: SessionConfig{
			Secret:             v.GetString("session.secret"),
			AdminCookieName:    v.GetString("session.admin_cookie_name"),
			CustomerCookieName: v.GetString("session.customer_cookie_name"),
			AdminTTL:           v.GetDuration("session.admin_ttl"),
			CustomerTTL:        v.GetDuration("session.customer_ttl"),
			Issuer:             v.GetString("session.issuer"),
		},
		Cookie: CookieConfig{
			Domain:   v.GetString("cookie.domain"),
			Path:     v.GetString("cookie.path"),
			Secure:   v.GetBool("cookie.secure"),
			SameSite: v.GetString("cookie.same_site"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
		},
		Cache: CacheConfig{
			ListingTTL: v.GetDuration("cache.listing_ttl"),
		},
		Spool: SpoolConfig{
			Driver:          v.GetString("spool.driver"),
			Path:            v.GetString("spool.path"),
			Host:            v.GetString("spool.host"),
			Port:            v.GetInt("spool.port"),
			User:            v.GetString("spool.user"),
			Password:        v.GetString("spool.password"),
			DBName:          v.GetString("spool.dbname"),
			SSLMode:         v.GetString("spool.sslmode"),
			MaxOpenConns:    v.GetInt("spool.max_open_conns"),
			MaxIdleConns:    v.GetInt("spool.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("spool.conn_max_lifetime"),
		},
		Analytics: AnalyticsConfig{
			Enabled:       v.GetBool("analytics.enabled"),
			BatchSize:     v.GetInt("analytics.batch_size"),
			FlushInterval: v.GetDuration("analytics.flush_interval"),
			MaxRetries:    v.GetInt("analytics.max_retries"),
			Retention:     v.GetDuration("analytics.retention"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront-gateway"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = "http://localhost:9000/api"
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 30 * time.Second
	}
	if cfg.Upstream.MaxResponseSize == 0 {
		cfg.Upstream.MaxResponseSize = 10 << 20 // 10MB
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Session.AdminCookieName == "" {
		cfg.Session.AdminCookieName = "admin_session"
	}
	if cfg.Session.CustomerCookieName == "" {
		cfg.Session.CustomerCookieName = "customer_session"
	}
	if cfg.Session.AdminTTL == 0 {
		cfg.Session.AdminTTL = 12 * time.Hour
	}
	if cfg.Session.CustomerTTL == 0 {
		cfg.Session.CustomerTTL = 30 * 24 * time.Hour
	}
	if cfg.Session.Issuer == "" {
		cfg.Session.Issuer = "storefront-gateway"
	}
	if cfg.Cookie.Path == "" {
		cfg.Cookie.Path = "/"
	}
	if cfg.Cookie.SameSite == "" {
		cfg.Cookie.SameSite = "lax"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB; the gateway accepts no uploads
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// Stricter limits for login endpoints to slow brute force
	if cfg.HTTP.AuthRateLimitRequests == 0 {
		cfg.HTTP.AuthRateLimitRequests = 5
	}
	if cfg.HTTP.AuthRateLimitWindow == 0 {
		cfg.HTTP.AuthRateLimitWindow = time.Minute
	}
	// NOTE: CORS origins have no wildcard fallback. An empty list rejects
	// all cross-origin requests until origins are configured explicitly,
	// which matters here because every route is credentialed.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Accept-Language", "X-Request-ID"}
	}
	if cfg.Cache.ListingTTL == 0 {
		cfg.Cache.ListingTTL = 60 * time.Second
	}
	if cfg.Spool.Driver == "" {
		cfg.Spool.Driver = "sqlite"
	}
	if cfg.Spool.Path == "" {
		cfg.Spool.Path = "analytics.db"
	}
	if cfg.Spool.Host == "" {
		cfg.Spool.Host = "localhost"
	}
	if cfg.Spool.Port == 0 {
		cfg.Spool.Port = 5432
	}
	if cfg.Spool.User == "" {
		cfg.Spool.User = "postgres"
	}
	if cfg.Spool.DBName == "" {
		cfg.Spool.DBName = "gateway"
	}
	if cfg.Spool.SSLMode == "" {
		cfg.Spool.SSLMode = "disable"
	}
	if cfg.Spool.MaxOpenConns == 0 {
		cfg.Spool.MaxOpenConns = 10
	}
	if cfg.Spool.MaxIdleConns == 0 {
		cfg.Spool.MaxIdleConns = 2
	}
	if cfg.Spool.ConnMaxLifetime == 0 {
		cfg.Spool.ConnMaxLifetime = 60
	}
	if cfg.Analytics.BatchSize == 0 {
		cfg.Analytics.BatchSize = 100
	}
	if cfg.Analytics.FlushInterval == 0 {
		cfg.Analytics.FlushInterval = 5 * time.Second
	}
	if cfg.Analytics.MaxRetries == 0 {
		cfg.Analytics.MaxRetries = 5
	}
	if cfg.Analytics.Retention == 0 {
		cfg.Analytics.Retention = 72 * time.Hour
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0 // 100% in development
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "storefront-gateway"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Upstream.MaxResponseSize <= 0 {
		return fmt.Errorf("upstream.max_response_size must be positive")
	}
	if c.Spool.Driver != "sqlite" && c.Spool.Driver != "postgres" {
		return fmt.Errorf("spool.driver must be sqlite or postgres, got %q", c.Spool.Driver)
	}
	if c.Spool.MaxIdleConns > c.Spool.MaxOpenConns {
		return fmt.Errorf("spool.max_idle_conns (%d) cannot exceed spool.max_open_conns (%d)",
			c.Spool.MaxIdleConns, c.Spool.MaxOpenConns)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Session.Secret == "" {
			return fmt.Errorf("session.secret is required in production")
		}
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("session.secret must be at least 32 characters in production")
		}
		if !c.Cookie.Secure {
			return fmt.Errorf("cookie.secure must be true in production (HTTPS required for session cookies)")
		}
		if c.Cookie.SameSite == "none" && !c.Cookie.Secure {
			return fmt.Errorf("cookie.same_site=none requires cookie.secure=true")
		}
		// Sessions are credentialed; a wildcard origin would let any site
		// ride them.
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Spool.Driver == "postgres" && c.Spool.Password == "" {
			return fmt.Errorf("spool.password is required in production when spool.driver is postgres")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}
