package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Square        SquareConfig
	Sendgrid      SendgridConfig
	Checkout      CheckoutConfig
	Catalog       CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field rules envconfig cannot express and reports every failure at once.
func (c *Config) Validate() error {
	var err error
	if !c.FeatureFlags.UseSQLite {
		err = multierr.Append(err, c.DB.ensureDSN())
	}
	if c.Redis.URL == "" && c.Redis.Address == "" {
		err = multierr.Append(err, fmt.Errorf("either %s or %s is required", EnvRedisURL, EnvRedisAddr))
	}
	if _, envErr := c.Square.normalizedEnvironment(); envErr != nil {
		err = multierr.Append(err, envErr)
	}
	if strings.TrimSpace(c.Square.LocationID) == "" {
		err = multierr.Append(err, fmt.Errorf("%s is required", EnvSquareLocationID))
	}
	if _, locErr := c.Checkout.Location(); locErr != nil {
		err = multierr.Append(err, locErr)
	}
	if c.Checkout.PickupOpenHour < 0 || c.Checkout.PickupCloseHour > 24 || c.Checkout.PickupOpenHour >= c.Checkout.PickupCloseHour {
		err = multierr.Append(err, fmt.Errorf("pickup hours must satisfy 0 <= open < close <= 24 (got %d-%d)", c.Checkout.PickupOpenHour, c.Checkout.PickupCloseHour))
	}
	if c.JWT.ExpirationMinutes <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvJWTExpMins))
	}
	return err
}

type AppConfig struct {
	Env          string `envconfig:"JOBSITES_APP_ENV" required:"true"`
	Port         string `envconfig:"JOBSITES_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"JOBSITES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JOBSITES_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"JOBSITES_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the configured CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type DBConfig struct {
	DSN    string `envconfig:"JOBSITES_DB_DSN"`
	Driver string `envconfig:"JOBSITES_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"JOBSITES_DB_HOST"`
	LegacyPort     int    `envconfig:"JOBSITES_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"JOBSITES_DB_USER"`
	LegacyPassword string `envconfig:"JOBSITES_DB_PASSWORD"`
	LegacyName     string `envconfig:"JOBSITES_DB_NAME"`
	LegacySSLMode  string `envconfig:"JOBSITES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"JOBSITES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JOBSITES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JOBSITES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JOBSITES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"JOBSITES_REDIS_URL"`
	Address      string        `envconfig:"JOBSITES_REDIS_ADDR"`
	Password     string        `envconfig:"JOBSITES_REDIS_PASSWORD"`
	DB           int           `envconfig:"JOBSITES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JOBSITES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JOBSITES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JOBSITES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JOBSITES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JOBSITES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"JOBSITES_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"JOBSITES_JWT_ISSUER" default:"rmjobsites"`
	ExpirationMinutes int    `envconfig:"JOBSITES_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"JOBSITES_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"JOBSITES_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"JOBSITES_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"JOBSITES_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"JOBSITES_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"JOBSITES_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"JOBSITES_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"JOBSITES_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"JOBSITES_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"JOBSITES_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"JOBSITES_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"JOBSITES_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"JOBSITES_SQLITE_PATH" default:"jobsites.db"`
	AutoMigrate bool   `envconfig:"JOBSITES_AUTO_MIGRATE" default:"false"`
}

type SquareConfig struct {
	AccessToken   string        `envconfig:"JOBSITES_SQUARE_ACCESS_TOKEN" required:"true"`
	Env           string        `envconfig:"JOBSITES_SQUARE_ENVIRONMENT" default:"sandbox"`
	LocationID    string        `envconfig:"JOBSITES_SQUARE_LOCATION_ID"`
	ApplicationID string        `envconfig:"JOBSITES_SQUARE_APPLICATION_ID"`
	Timeout       time.Duration `envconfig:"JOBSITES_SQUARE_TIMEOUT" default:"15s"`
	MaxRetries    uint64        `envconfig:"JOBSITES_SQUARE_MAX_RETRIES" default:"2"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env, err := s.normalizedEnvironment()
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s.Env))
	}
	return env
}

func (s SquareConfig) normalizedEnvironment() (string, error) {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	switch env {
	case "":
		return SquareEnvSandbox, nil
	case SquareEnvSandbox, SquareEnvProduction:
		return env, nil
	default:
		return "", fmt.Errorf("%s must be %q or %q", EnvSquareEnvironment, SquareEnvSandbox, SquareEnvProduction)
	}
}

type SendgridConfig struct {
	APIKey    string `envconfig:"JOBSITES_SENDGRID_API_KEY"`
	FromEmail string `envconfig:"JOBSITES_SENDGRID_FROM_EMAIL" default:"orders@rmjobsites.com"`
	FromName  string `envconfig:"JOBSITES_SENDGRID_FROM_NAME" default:"RM Jobsites"`
}

// Enabled reports whether an API key is configured.
func (s SendgridConfig) Enabled() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

type CheckoutConfig struct {
	Timezone        string `envconfig:"JOBSITES_CHECKOUT_TIMEZONE" default:"America/Denver"`
	PickupOpenHour  int    `envconfig:"JOBSITES_CHECKOUT_PICKUP_OPEN_HOUR" default:"8"`
	PickupCloseHour int    `envconfig:"JOBSITES_CHECKOUT_PICKUP_CLOSE_HOUR" default:"17"`
	PickupNote      string `envconfig:"JOBSITES_CHECKOUT_PICKUP_NOTE" default:"Please bring a valid ID for pickup."`
	PickupLocation  string `envconfig:"JOBSITES_CHECKOUT_PICKUP_LOCATION" default:"7204 E 53rd Pl, Commerce City, CO 80022"`
}

// Location loads the business timezone used to decide "today" and pickup hours.
func (c CheckoutConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvCheckoutTimezone, err)
	}
	return loc, nil
}

type CatalogConfig struct {
	CacheTTL time.Duration `envconfig:"JOBSITES_CATALOG_CACHE_TTL" default:"5m"`
}

var errMissingDSN = errors.New("database dsn is required")

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: either %s or %s are required", errMissingDSN, EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
