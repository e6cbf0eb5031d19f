package config

// EnvPrefix scopes all environment variables consumed by the service.
const EnvPrefix = "GB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	CouponSourceStatic = "static"
	CouponSourceTable  = "table"
)

const (
	EnvAppEnv   = "GB_APP_ENV"
	EnvPort     = "GB_APP_PORT"
	EnvDBDSN    = "GB_DB_DSN"
	EnvDBHost   = "GB_DB_HOST"
	EnvDBUser   = "GB_DB_USER"
	EnvDBName   = "GB_DB_NAME"
	EnvRedisURL = "GB_REDIS_URL"
)

var splitDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
