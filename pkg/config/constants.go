package config

const (
	EnvPrefix = "WARUNGPOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "WARUNGPOS_APP_ENV"
	EnvPort   = "WARUNGPOS_APP_PORT"

	EnvDBDSN  = "WARUNGPOS_DB_DSN"
	EnvDBHost = "WARUNGPOS_DB_HOST"
	EnvDBUser = "WARUNGPOS_DB_USER"
	EnvDBName = "WARUNGPOS_DB_NAME"

	EnvRedisURL = "WARUNGPOS_REDIS_URL"

	EnvJWTSecret  = "WARUNGPOS_JWT_SECRET"
	EnvJWTIssuer  = "WARUNGPOS_JWT_ISSUER"
	EnvJWTExpMins = "WARUNGPOS_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
