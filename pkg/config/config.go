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
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Eventing      EventingConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Sendgrid      SendgridConfig
	Outbox        OutboxConfig
	Cron          CronConfig
	Invitations   InvitationConfig
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
	Env          string `envconfig:"SALONORA_APP_ENV" required:"true"`
	Port         string `envconfig:"SALONORA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SALONORA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SALONORA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SALONORA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SALONORA_DB_DSN"`
	Driver string `envconfig:"SALONORA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SALONORA_DB_HOST"`
	LegacyPort     int    `envconfig:"SALONORA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SALONORA_DB_USER"`
	LegacyPassword string `envconfig:"SALONORA_DB_PASSWORD"`
	LegacyName     string `envconfig:"SALONORA_DB_NAME"`
	LegacySSLMode  string `envconfig:"SALONORA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SALONORA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SALONORA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SALONORA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SALONORA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SALONORA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SALONORA_REDIS_ADDR"`
	Password     string        `envconfig:"SALONORA_REDIS_PASSWORD"`
	DB           int           `envconfig:"SALONORA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SALONORA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SALONORA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SALONORA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SALONORA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SALONORA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SALONORA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SALONORA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SALONORA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SALONORA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SALONORA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SALONORA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SALONORA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SALONORA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SALONORA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SALONORA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SALONORA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SALONORA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SALONORA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SALONORA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SALONORA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SALONORA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SALONORA_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"SALONORA_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SALONORA_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"SALONORA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SALONORA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	EventsTopic       string `envconfig:"SALONORA_PUBSUB_EVENTS_TOPIC" default:"sln-domain-events"`
	EmailSubscription string `envconfig:"SALONORA_PUBSUB_EMAIL_SUBSCRIPTION" default:"sln-domain-events-email"`
	NotificationTopic string `envconfig:"SALONORA_PUBSUB_NOTIFICATION_TOPIC" default:"sln-notification-events"`
	NotificationSub   string `envconfig:"SALONORA_PUBSUB_NOTIFICATION_SUBSCRIPTION"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"SALONORA_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"SALONORA_SENDGRID_FROM_EMAIL"`
	BaseURL     string `envconfig:"SALONORA_SENDGRID_BASE_URL" default:"https://api.sendgrid.com"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SALONORA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SALONORA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SALONORA_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	NotificationRetention time.Duration `envconfig:"SALONORA_CRON_NOTIFICATION_RETENTION" default:"2160h"`
	OutboxRetention       time.Duration `envconfig:"SALONORA_CRON_OUTBOX_RETENTION" default:"168h"`
	PromotionExpiryEvery  time.Duration `envconfig:"SALONORA_CRON_PROMOTION_EXPIRY_EVERY" default:"5m"`
}

type InvitationConfig struct {
	TTL     time.Duration `envconfig:"SALONORA_INVITATION_TTL" default:"168h"`
	BaseURL string        `envconfig:"SALONORA_INVITATION_BASE_URL" default:"https://app.salonora.com/invitations"`
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
