package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Auth         AuthConfig
	Security     SecurityConfig
	FeatureFlags FeatureFlagsConfig
	Sales        SalesConfig
	Warehouse    WarehouseConfig
	Terminal     TerminalConfig
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

// LoadTerminal reads only the terminal client settings, so the operator
// binary runs without the server-side required variables.
func LoadTerminal() (TerminalConfig, error) {
	var cfg TerminalConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return TerminalConfig{}, fmt.Errorf("parsing terminal config: %w", err)
	}
	return cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WARUNGPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"WARUNGPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WARUNGPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WARUNGPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WARUNGPOS_DB_DSN"`
	Driver string `envconfig:"WARUNGPOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WARUNGPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"WARUNGPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WARUNGPOS_DB_USER"`
	LegacyPassword string `envconfig:"WARUNGPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"WARUNGPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"WARUNGPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WARUNGPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WARUNGPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WARUNGPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WARUNGPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WARUNGPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WARUNGPOS_REDIS_ADDR"`
	Password     string        `envconfig:"WARUNGPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"WARUNGPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WARUNGPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WARUNGPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WARUNGPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WARUNGPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WARUNGPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"WARUNGPOS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WARUNGPOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"WARUNGPOS_JWT_EXPIRATION_MINUTES" default:"480"`
}

// AuthConfig carries the operator credential table as "name=hash" pairs
// separated by semicolons; argon2id hashes contain commas so commas cannot
// be the pair separator.
type AuthConfig struct {
	Operators          string        `envconfig:"WARUNGPOS_AUTH_OPERATORS"`
	LoginMaxAttempts   int64         `envconfig:"WARUNGPOS_AUTH_LOGIN_MAX_ATTEMPTS" default:"5"`
	LoginAttemptWindow time.Duration `envconfig:"WARUNGPOS_AUTH_LOGIN_ATTEMPT_WINDOW" default:"10m"`
}

// OperatorHashes parses the credential table. Malformed pairs are skipped.
func (a AuthConfig) OperatorHashes() map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(a.Operators, ";") {
		name, hash, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		hash = strings.TrimSpace(hash)
		if name == "" || hash == "" {
			continue
		}
		out[name] = hash
	}
	return out
}

type SecurityConfig struct {
	ArgonMemoryKB    int `envconfig:"WARUNGPOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WARUNGPOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WARUNGPOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WARUNGPOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WARUNGPOS_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"WARUNGPOS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"WARUNGPOS_AUTO_MIGRATE" default:"false"`
}

// SalesConfig carries the tax and settlement knobs for the POS domain.
type SalesConfig struct {
	TaxRatePercent int           `envconfig:"WARUNGPOS_TAX_RATE_PERCENT" default:"10"`
	IdempotencyTTL time.Duration `envconfig:"WARUNGPOS_SALES_IDEMPOTENCY_TTL" default:"24h"`
	ListLimit      int           `envconfig:"WARUNGPOS_SALES_LIST_LIMIT" default:"50"`
}

type WarehouseConfig struct {
	LowStockThreshold int           `envconfig:"WARUNGPOS_LOW_STOCK_THRESHOLD" default:"10"`
	CatalogCacheTTL   time.Duration `envconfig:"WARUNGPOS_CATALOG_CACHE_TTL" default:"30s"`
}

// TerminalConfig configures the operator terminal client.
type TerminalConfig struct {
	BackendURL     string        `envconfig:"WARUNGPOS_TERMINAL_BACKEND_URL" default:"http://localhost:8080"`
	RequestTimeout time.Duration `envconfig:"WARUNGPOS_TERMINAL_REQUEST_TIMEOUT" default:"15s"`
	Operator       string        `envconfig:"WARUNGPOS_TERMINAL_OPERATOR" default:"kasir"`
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
