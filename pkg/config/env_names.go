package config

// envconfig prefix shared by every variable.
const EnvPrefix = "USERHUB"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "USERHUB_APP_ENV"
	EnvPort     = "USERHUB_APP_PORT"
	EnvDBDSN    = "USERHUB_DB_DSN"
	EnvDBHost   = "USERHUB_DB_HOST"
	EnvDBUser   = "USERHUB_DB_USER"
	EnvDBName   = "USERHUB_DB_NAME"
	EnvRedisURL = "USERHUB_REDIS_URL"

	EnvJWTSecret              = "USERHUB_JWT_SECRET"
	EnvJWTIssuer              = "USERHUB_JWT_ISSUER"
	EnvJWTExpMins             = "USERHUB_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "USERHUB_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
