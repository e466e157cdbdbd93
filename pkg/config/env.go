package config

const (
	EnvPrefix = "RESTO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
	StorageDriverSQL    = "sql"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv        = "RESTO_APP_ENV"
	EnvPort          = "RESTO_APP_PORT"
	EnvLogLevel      = "RESTO_LOG_LEVEL"
	EnvStorageDriver = "RESTO_STORAGE_DRIVER"
	EnvDBDSN         = "RESTO_DB_DSN"
	EnvDBDriver      = "RESTO_DB_DRIVER"
	EnvDBHost        = "RESTO_DB_HOST"
	EnvDBUser        = "RESTO_DB_USER"
	EnvDBName        = "RESTO_DB_NAME"
	EnvRedisURL      = "RESTO_REDIS_URL"
	EnvRedisAddr     = "RESTO_REDIS_ADDR"
	EnvSlotsBaseURL  = "RESTO_SLOTS_BASE_URL"
	EnvSlotsCacheTTL = "RESTO_SLOTS_CACHE_TTL"
	EnvSlotsTimezone = "RESTO_SLOTS_TIMEZONE"
	EnvPaymentDelay  = "RESTO_CHECKOUT_PAYMENT_DELAY"
	EnvCORSOrigins   = "RESTO_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
