package config

// EnvPrefix is the envconfig prefix applied to every variable.
const EnvPrefix = "SALONORA"

// Known application environments.
const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
	AppEnvTest = "test"
)

// Environment variable names referenced outside struct tags.
const (
	EnvDBDSN  = "SALONORA_DB_DSN"
	EnvDBHost = "SALONORA_DB_HOST"
	EnvDBUser = "SALONORA_DB_USER"
	EnvDBName = "SALONORA_DB_NAME"
)

// legacyDBEnvVars are the discrete connection variables accepted when a
// full DSN is not provided.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

// Env names used by tests and bootstrap code.
const (
	EnvAppEnv     = "SALONORA_APP_ENV"
	EnvPort       = "SALONORA_APP_PORT"
	EnvRedisURL   = "SALONORA_REDIS_URL"
	EnvJWTSecret  = "SALONORA_JWT_SECRET"
	EnvJWTIssuer  = "SALONORA_JWT_ISSUER"
	EnvJWTExpMins = "SALONORA_JWT_EXPIRATION_MINUTES"

	EnvRefreshTokenTTLMinutes = "SALONORA_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "SALONORA_GCP_PROJECT_ID"
	EnvPubSubEventsTopic      = "SALONORA_PUBSUB_EVENTS_TOPIC"
	EnvPubSubEmailSub         = "SALONORA_PUBSUB_EMAIL_SUBSCRIPTION"
)
