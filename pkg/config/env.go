package config

const EnvPrefix = "JOBSITES"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
	AppEnvTest = "test"
)

const (
	SquareEnvSandbox    = "sandbox"
	SquareEnvProduction = "production"
)

// Environment variable names referenced outside struct tags (validation messages, tests).
const (
	EnvAppEnv            = "JOBSITES_APP_ENV"
	EnvPort              = "JOBSITES_APP_PORT"
	EnvDBDSN             = "JOBSITES_DB_DSN"
	EnvDBHost            = "JOBSITES_DB_HOST"
	EnvDBUser            = "JOBSITES_DB_USER"
	EnvDBName            = "JOBSITES_DB_NAME"
	EnvRedisURL          = "JOBSITES_REDIS_URL"
	EnvRedisAddr         = "JOBSITES_REDIS_ADDR"
	EnvJWTSecret         = "JOBSITES_JWT_SECRET"
	EnvJWTExpMins        = "JOBSITES_JWT_EXPIRATION_MINUTES"
	EnvUseSQLite         = "JOBSITES_USE_SQLITE"
	EnvSquareToken       = "JOBSITES_SQUARE_ACCESS_TOKEN"
	EnvSquareEnvironment = "JOBSITES_SQUARE_ENVIRONMENT"
	EnvSquareLocationID  = "JOBSITES_SQUARE_LOCATION_ID"
	EnvCheckoutTimezone  = "JOBSITES_CHECKOUT_TIMEZONE"
	EnvPickupOpenHour    = "JOBSITES_CHECKOUT_PICKUP_OPEN_HOUR"
	EnvPickupCloseHour   = "JOBSITES_CHECKOUT_PICKUP_CLOSE_HOUR"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
