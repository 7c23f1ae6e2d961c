package config

// EnvPrefix scopes every FreshBrand environment variable.
const EnvPrefix = "FRESHBRAND"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "FRESHBRAND_APP_ENV"
	EnvPort                   = "FRESHBRAND_APP_PORT"
	EnvDBDSN                  = "FRESHBRAND_DB_DSN"
	EnvDBHost                 = "FRESHBRAND_DB_HOST"
	EnvDBUser                 = "FRESHBRAND_DB_USER"
	EnvDBName                 = "FRESHBRAND_DB_NAME"
	EnvRedisURL               = "FRESHBRAND_REDIS_URL"
	EnvJWTSecret              = "FRESHBRAND_JWT_SECRET"
	EnvJWTIssuer              = "FRESHBRAND_JWT_ISSUER"
	EnvJWTExpMins             = "FRESHBRAND_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FRESHBRAND_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "FRESHBRAND_GCP_PROJECT_ID"
	EnvGCSBucket              = "FRESHBRAND_GCS_BUCKET_NAME"
	EnvOrdersTopic            = "FRESHBRAND_PUBSUB_ORDERS_TOPIC"
	EnvRazorpayKeyID          = "FRESHBRAND_RAZORPAY_KEY_ID"
	EnvRazorpayKeySecret      = "FRESHBRAND_RAZORPAY_KEY_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
