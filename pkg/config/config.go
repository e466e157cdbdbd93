package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Storage      StorageConfig
	DB           DBConfig
	Redis        RedisConfig
	Slots        SlotsConfig
	Checkout     CheckoutConfig
	Reservations ReservationsConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.Driver == StorageDriverSQL {
		if cfg.DB.IsSQLite() && cfg.DB.DSN == "" {
			return nil, fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
		}
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.Storage.Driver == StorageDriverRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("%s or %s is required when storage driver is redis", EnvRedisURL, EnvRedisAddr)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RESTO_APP_ENV" required:"true"`
	Port         string `envconfig:"RESTO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RESTO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RESTO_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"RESTO_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the key-value backend that holds session carts.
type StorageConfig struct {
	Driver  string `envconfig:"RESTO_STORAGE_DRIVER" default:"memory"`
	CartKey string `envconfig:"RESTO_CART_STORAGE_KEY" default:"cart_v1"`
	// CartRetention bounds how long an untouched cart is kept (redis TTL, sql expiry job).
	CartRetention   time.Duration `envconfig:"RESTO_CART_RETENTION" default:"720h"`
	CleanupInterval time.Duration `envconfig:"RESTO_CART_CLEANUP_INTERVAL" default:"1h"`
}

func (s StorageConfig) validate() error {
	if s.CartRetention <= 0 {
		return fmt.Errorf("cart retention must be positive")
	}
	switch s.Driver {
	case StorageDriverMemory, StorageDriverRedis, StorageDriverSQL:
		return nil
	}
	return fmt.Errorf("unsupported storage driver %q", s.Driver)
}

type DBConfig struct {
	DSN    string `envconfig:"RESTO_DB_DSN"`
	Driver string `envconfig:"RESTO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RESTO_DB_HOST"`
	LegacyPort     int    `envconfig:"RESTO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RESTO_DB_USER"`
	LegacyPassword string `envconfig:"RESTO_DB_PASSWORD"`
	LegacyName     string `envconfig:"RESTO_DB_NAME"`
	LegacySSLMode  string `envconfig:"RESTO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RESTO_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"RESTO_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"RESTO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RESTO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the DSN targets the sqlite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"RESTO_REDIS_URL"`
	Address      string        `envconfig:"RESTO_REDIS_ADDR"`
	Password     string        `envconfig:"RESTO_REDIS_PASSWORD"`
	DB           int           `envconfig:"RESTO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RESTO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RESTO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RESTO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RESTO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RESTO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type SlotsConfig struct {
	BaseURL  string        `envconfig:"RESTO_SLOTS_BASE_URL" default:"http://localhost:4000/api"`
	Path     string        `envconfig:"RESTO_SLOTS_PATH" default:"/getTimeslot"`
	CacheTTL time.Duration `envconfig:"RESTO_SLOTS_CACHE_TTL" default:"10s"`
	Timeout  time.Duration `envconfig:"RESTO_SLOTS_TIMEOUT" default:"8s"`
	Timezone string        `envconfig:"RESTO_SLOTS_TIMEZONE" default:"Local"`
}

// Location resolves the configured timezone used for slot labels.
func (s SlotsConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(s.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading slots timezone %q: %w", name, err)
	}
	return loc, nil
}

// Endpoint joins the base URL and path of the slot listing endpoint.
func (s SlotsConfig) Endpoint() (*url.URL, error) {
	base, err := url.Parse(strings.TrimRight(s.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing slots base url: %w", err)
	}
	return base.JoinPath(s.Path), nil
}

type CheckoutConfig struct {
	PaymentDelay   time.Duration `envconfig:"RESTO_CHECKOUT_PAYMENT_DELAY" default:"900ms"`
	PaymentDecline bool          `envconfig:"RESTO_CHECKOUT_PAYMENT_DECLINE" default:"false"`
}

type ReservationsConfig struct {
	ConfirmationSecret string        `envconfig:"RESTO_RESERVATION_SECRET" default:"dev-reservation-secret"`
	ConfirmationIssuer string        `envconfig:"RESTO_RESERVATION_ISSUER" default:"restaurant-backend"`
	ConfirmationTTL    time.Duration `envconfig:"RESTO_RESERVATION_CONFIRMATION_TTL" default:"720h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"RESTO_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RESTO_AUTO_MIGRATE" default:"false"`
}

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
