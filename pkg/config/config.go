package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Booqable     BooqableConfig
	Airtable     AirtableConfig
	GCP          GCPConfig
	Firestore    FirestoreConfig
	PubSub       PubSubConfig
	Refresh      RefreshConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GEARSHARE_APP_ENV" required:"true"`
	Port         string `envconfig:"GEARSHARE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GEARSHARE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GEARSHARE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GEARSHARE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"GEARSHARE_DB_DSN"`
	Driver string `envconfig:"GEARSHARE_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"GEARSHARE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"GEARSHARE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"GEARSHARE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GEARSHARE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GEARSHARE_REDIS_URL"`
	Address      string        `envconfig:"GEARSHARE_REDIS_ADDR"`
	Password     string        `envconfig:"GEARSHARE_REDIS_PASSWORD"`
	DB           int           `envconfig:"GEARSHARE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GEARSHARE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GEARSHARE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GEARSHARE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GEARSHARE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GEARSHARE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// BooqableConfig holds credentials for the rental-booking SaaS.
type BooqableConfig struct {
	APIKey      string        `envconfig:"GEARSHARE_BOOQABLE_API_KEY"`
	CompanySlug string        `envconfig:"GEARSHARE_BOOQABLE_COMPANY"`
	BaseURL     string        `envconfig:"GEARSHARE_BOOQABLE_BASE_URL"`
	Timeout     time.Duration `envconfig:"GEARSHARE_BOOQABLE_TIMEOUT" default:"15s"`
	PageSize    int           `envconfig:"GEARSHARE_BOOQABLE_PAGE_SIZE" default:"100"`
}

// AirtableConfig holds credentials for the spreadsheet-record SaaS.
type AirtableConfig struct {
	APIKey         string        `envconfig:"GEARSHARE_AIRTABLE_API_KEY"`
	BaseID         string        `envconfig:"GEARSHARE_AIRTABLE_BASE_ID"`
	BaseURL        string        `envconfig:"GEARSHARE_AIRTABLE_BASE_URL"`
	RepairsTable   string        `envconfig:"GEARSHARE_AIRTABLE_REPAIRS_TABLE" default:"Repair Tickets"`
	TemplatesTable string        `envconfig:"GEARSHARE_AIRTABLE_TEMPLATES_TABLE" default:"Email Templates"`
	Timeout        time.Duration `envconfig:"GEARSHARE_AIRTABLE_TIMEOUT" default:"15s"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"GEARSHARE_GCP_PROJECT_ID"`
	CredentialsFile string `envconfig:"GEARSHARE_GCP_CREDENTIALS_FILE"`
}

// FirestoreConfig names the document-database collections the app reads.
type FirestoreConfig struct {
	ActivityCollection string `envconfig:"GEARSHARE_FIRESTORE_ACTIVITY_COLLECTION" default:"activity_logs"`
	UsersCollection    string `envconfig:"GEARSHARE_FIRESTORE_USERS_COLLECTION" default:"users"`
}

type PubSubConfig struct {
	StatsTopic string `envconfig:"GEARSHARE_PUBSUB_STATS_TOPIC" default:"stats-refreshed"`
}

// RefreshConfig tunes the stats refresh worker and snapshot cache.
type RefreshConfig struct {
	Interval     time.Duration `envconfig:"GEARSHARE_REFRESH_INTERVAL" default:"5m"`
	SnapshotTTL  time.Duration `envconfig:"GEARSHARE_REFRESH_SNAPSHOT_TTL" default:"10m"`
	LockTTL      time.Duration `envconfig:"GEARSHARE_REFRESH_LOCK_TTL" default:"4m"`
	FetchTimeout time.Duration `envconfig:"GEARSHARE_REFRESH_FETCH_TIMEOUT" default:"60s"`
}

type FeatureFlagsConfig struct {
	UseSQLite     bool `envconfig:"GEARSHARE_USE_SQLITE" default:"false"`
	AutoMigrate   bool `envconfig:"GEARSHARE_AUTO_MIGRATE" default:"false"`
	PublishEvents bool `envconfig:"GEARSHARE_PUBLISH_EVENTS" default:"true"`
}
