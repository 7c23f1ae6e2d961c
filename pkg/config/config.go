package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	PubSub        PubSubConfig
	Razorpay      RazorpayConfig
	Cart          CartConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FRESHBRAND_APP_ENV" required:"true"`
	Port         string `envconfig:"FRESHBRAND_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FRESHBRAND_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRESHBRAND_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FRESHBRAND_DB_DSN"`
	Driver string `envconfig:"FRESHBRAND_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FRESHBRAND_DB_HOST"`
	LegacyPort     int    `envconfig:"FRESHBRAND_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FRESHBRAND_DB_USER"`
	LegacyPassword string `envconfig:"FRESHBRAND_DB_PASSWORD"`
	LegacyName     string `envconfig:"FRESHBRAND_DB_NAME"`
	LegacySSLMode  string `envconfig:"FRESHBRAND_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FRESHBRAND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FRESHBRAND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FRESHBRAND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRESHBRAND_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FRESHBRAND_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FRESHBRAND_REDIS_ADDR"`
	Password     string        `envconfig:"FRESHBRAND_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRESHBRAND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRESHBRAND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRESHBRAND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRESHBRAND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRESHBRAND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRESHBRAND_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FRESHBRAND_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FRESHBRAND_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FRESHBRAND_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FRESHBRAND_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FRESHBRAND_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FRESHBRAND_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FRESHBRAND_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FRESHBRAND_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FRESHBRAND_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FRESHBRAND_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FRESHBRAND_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FRESHBRAND_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FRESHBRAND_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FRESHBRAND_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FRESHBRAND_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FRESHBRAND_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FRESHBRAND_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"FRESHBRAND_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FRESHBRAND_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"FRESHBRAND_GCS_BUCKET_NAME" required:"true"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"FRESHBRAND_PUBSUB_ORDERS_TOPIC" default:"fb-order-events"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"FRESHBRAND_RAZORPAY_KEY_ID" required:"true"`
	KeySecret string `envconfig:"FRESHBRAND_RAZORPAY_KEY_SECRET" required:"true"`
	Currency  string `envconfig:"FRESHBRAND_RAZORPAY_CURRENCY" default:"INR"`
}

type CartConfig struct {
	StaleAfter      time.Duration `envconfig:"FRESHBRAND_CART_STALE_AFTER" default:"720h"`
	CleanupInterval time.Duration `envconfig:"FRESHBRAND_CART_CLEANUP_INTERVAL" default:"1h"`
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
