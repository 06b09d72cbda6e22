package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"github.com/ulule/limiter/v3"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Services     ServicesConfig
	Shipping     ShippingConfig
	Cache        CacheConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Shipping.validate(); err != nil {
		return nil, err
	}
	if err := cfg.FeatureFlags.validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.RateLimit.ParsedRate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPPINGCART_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPPINGCART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPPINGCART_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SHOPPINGCART_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SHOPPINGCART_LOG_WARN_STACK" default:"false"`
	// Comma separated.
	CORSAllowedOrigins []string `envconfig:"SHOPPINGCART_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPPINGCART_DB_DSN"`
	Driver string `envconfig:"SHOPPINGCART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPPINGCART_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPPINGCART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPPINGCART_DB_USER"`
	LegacyPassword string `envconfig:"SHOPPINGCART_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPPINGCART_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPPINGCART_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"SHOPPINGCART_SQLITE_PATH" default:"file:shoppingcart.db?cache=shared"`

	MaxOpenConns    int           `envconfig:"SHOPPINGCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPPINGCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPPINGCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPPINGCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPPINGCART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPPINGCART_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPPINGCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPPINGCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPPINGCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPPINGCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPPINGCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPPINGCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPPINGCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"SHOPPINGCART_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"SHOPPINGCART_JWT_ISSUER" required:"true"`
}

// ServicesConfig points at the peer services the cart reads from.
type ServicesConfig struct {
	ProductBaseURL    string        `envconfig:"SHOPPINGCART_PRODUCT_SERVICE_URL" required:"true"`
	RestaurantBaseURL string        `envconfig:"SHOPPINGCART_RESTAURANT_SERVICE_URL" required:"true"`
	UserBaseURL       string        `envconfig:"SHOPPINGCART_USER_SERVICE_URL" required:"true"`
	Timeout           time.Duration `envconfig:"SHOPPINGCART_SERVICES_TIMEOUT" default:"5s"`
}

type ShippingConfig struct {
	BaseCost         string `envconfig:"SHOPPINGCART_SHIPPING_BASE_COST" default:"30"`
	StepCost         string `envconfig:"SHOPPINGCART_SHIPPING_STEP_COST" default:"5"`
	FreeRadiusMeters int    `envconfig:"SHOPPINGCART_SHIPPING_FREE_RADIUS_METERS" default:"2000"`
	StepMeters       int    `envconfig:"SHOPPINGCART_SHIPPING_STEP_METERS" default:"1000"`
}

// BaseCostDecimal parses BaseCost; call after Load has validated the section.
func (s ShippingConfig) BaseCostDecimal() decimal.Decimal {
	return decimal.RequireFromString(s.BaseCost)
}

func (s ShippingConfig) StepCostDecimal() decimal.Decimal {
	return decimal.RequireFromString(s.StepCost)
}

func (s ShippingConfig) validate() error {
	base, err := decimal.NewFromString(s.BaseCost)
	if err != nil || base.IsNegative() {
		return fmt.Errorf("%s must be a non-negative decimal", EnvShippingBaseCost)
	}
	step, err := decimal.NewFromString(s.StepCost)
	if err != nil || step.IsNegative() {
		return fmt.Errorf("%s must be a non-negative decimal", EnvShippingStepCost)
	}
	if s.FreeRadiusMeters < 0 {
		return fmt.Errorf("%s must not be negative", EnvShippingFreeRadius)
	}
	if s.StepMeters <= 0 {
		return fmt.Errorf("%s must be positive", EnvShippingStepMeters)
	}
	return nil
}

type CacheConfig struct {
	RestaurantLocationTTL time.Duration `envconfig:"SHOPPINGCART_CACHE_RESTAURANT_LOCATION_TTL" default:"15m"`
	IdempotencyTTL        time.Duration `envconfig:"SHOPPINGCART_CACHE_IDEMPOTENCY_TTL" default:"24h"`
}

// RateLimitConfig caps authenticated API traffic per user. Rate uses the
// "<limit>-<period>" format (S, M, H or D); an empty rate disables limiting.
type RateLimitConfig struct {
	Rate string `envconfig:"SHOPPINGCART_RATE_LIMIT" default:"120-M"`
}

// Enabled reports whether a rate is configured.
func (r RateLimitConfig) Enabled() bool {
	return strings.TrimSpace(r.Rate) != ""
}

// ParsedRate converts Rate into a limiter rate. A disabled config yields the zero rate.
func (r RateLimitConfig) ParsedRate() (limiter.Rate, error) {
	if !r.Enabled() {
		return limiter.Rate{}, nil
	}
	rate, err := limiter.NewRateFromFormatted(strings.TrimSpace(r.Rate))
	if err != nil {
		return limiter.Rate{}, fmt.Errorf("%s: %w", EnvRateLimit, err)
	}
	return rate, nil
}

type FeatureFlagsConfig struct {
	UseSQLite    bool   `envconfig:"SHOPPINGCART_USE_SQLITE" default:"false"`
	AutoMigrate  bool   `envconfig:"SHOPPINGCART_AUTO_MIGRATE" default:"false"`
	DistanceMode string `envconfig:"SHOPPINGCART_DISTANCE_MODE" default:"postgis"`
}

func (f FeatureFlagsConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(f.DistanceMode)) {
	case DistanceModePostGIS, DistanceModeHaversine:
		return nil
	default:
		return fmt.Errorf("%s must be %q or %q", EnvDistanceMode, DistanceModePostGIS, DistanceModeHaversine)
	}
}

// UsePostGIS reports whether distances are computed by the database.
func (f FeatureFlagsConfig) UsePostGIS() bool {
	return !f.UseSQLite && strings.EqualFold(strings.TrimSpace(f.DistanceMode), DistanceModePostGIS)
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
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
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
