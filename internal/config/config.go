package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	AuthDev    = "dev"
	AuthLocal  = "local"
	AuthGoTrue = "gotrue"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	App      string
	Server   Server
	DB       DB
	Auth     Auth
	DrugInfo DrugInfo
	Redis    Redis
	AMQP     AMQP
	Reminder Reminder
	Log      Log
}

type Server struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Addr es ":PORT".
func (s Server) Addr() string { return ":" + s.Port }

type DB struct {
	Driver     string // memory | postgres | sqlite
	DSN        string
	SQLitePath string
}

type Auth struct {
	Mode         string // dev | local | gotrue
	JWTSecret    string
	TokenTTL     time.Duration
	GoTrueURL    string
	GoTrueAPIKey string
}

type DrugInfo struct {
	OpenFDAURL string
	Timeout    time.Duration
	CacheTTL   time.Duration
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Enabled: sin REDIS_ADDR no hay cache.
func (r Redis) Enabled() bool { return strings.TrimSpace(r.Addr) != "" }

type AMQP struct {
	URL   string
	Queue string
}

// Enabled: sin AMQP_URL los eventos no se publican.
func (a AMQP) Enabled() bool { return strings.TrimSpace(a.URL) != "" }

type Reminder struct {
	Interval time.Duration
	Timezone string // vacío => zona local del servidor
}

type Log struct {
	Level  string
	Format string
}

// Options controla de dónde se lee la config. Todo es opcional.
type Options struct {
	EnvFile    string // .env; si no existe se ignora
	ConfigFile string // yaml/json/toml explícito
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "medicine-reminder")

	v.SetDefault("port", "8080")
	v.SetDefault("read_timeout", "5s")
	v.SetDefault("write_timeout", "10s")
	v.SetDefault("shutdown_timeout", "10s")

	v.SetDefault("db_driver", "")
	v.SetDefault("db_dsn", "")
	v.SetDefault("sqlite_path", "medicine-reminder.db")

	v.SetDefault("auth_mode", AuthDev)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("gotrue_url", "")
	v.SetDefault("gotrue_api_key", "")

	v.SetDefault("openfda_url", "https://api.fda.gov")
	v.SetDefault("openfda_timeout", "10s")
	v.SetDefault("druginfo_cache_ttl", "24h")

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("amqp_url", "")
	v.SetDefault("amqp_queue", "medicine.events")

	v.SetDefault("reminder_interval", "1m")
	v.SetDefault("reminder_tz", "")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load lee .env (si existe), el archivo de config (si se pasa) y las variables de entorno.
// Las variables de entorno ganan sobre el archivo.
func Load(opts Options) (*Config, error) {
	if f := strings.TrimSpace(opts.EnvFile); f != "" {
		// .env opcional; las variables ya definidas no se pisan
		_ = godotenv.Load(f)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if f := strings.TrimSpace(opts.ConfigFile); f != "" {
		v.SetConfigFile(f)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", f, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: v.GetString("app_name"),
		Server: Server{
			Port:            strings.TrimPrefix(strings.TrimSpace(v.GetString("port")), ":"),
			ReadTimeout:     v.GetDuration("read_timeout"),
			WriteTimeout:    v.GetDuration("write_timeout"),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		},
		DB: DB{
			Driver:     strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
			DSN:        strings.TrimSpace(v.GetString("db_dsn")),
			SQLitePath: strings.TrimSpace(v.GetString("sqlite_path")),
		},
		Auth: Auth{
			Mode:         strings.ToLower(strings.TrimSpace(v.GetString("auth_mode"))),
			JWTSecret:    v.GetString("jwt_secret"),
			TokenTTL:     v.GetDuration("token_ttl"),
			GoTrueURL:    strings.TrimSpace(v.GetString("gotrue_url")),
			GoTrueAPIKey: strings.TrimSpace(v.GetString("gotrue_api_key")),
		},
		DrugInfo: DrugInfo{
			OpenFDAURL: strings.TrimSpace(v.GetString("openfda_url")),
			Timeout:    v.GetDuration("openfda_timeout"),
			CacheTTL:   v.GetDuration("druginfo_cache_ttl"),
		},
		Redis: Redis{
			Addr:     strings.TrimSpace(v.GetString("redis_addr")),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		AMQP: AMQP{
			URL:   strings.TrimSpace(v.GetString("amqp_url")),
			Queue: strings.TrimSpace(v.GetString("amqp_queue")),
		},
		Reminder: Reminder{
			Interval: v.GetDuration("reminder_interval"),
			Timezone: strings.TrimSpace(v.GetString("reminder_tz")),
		},
		Log: Log{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
	}

	// compat: DB_DSN sin DB_DRIVER => postgres (como antes)
	if cfg.DB.Driver == "" {
		if cfg.DB.DSN != "" {
			cfg.DB.Driver = DriverPostgres
		} else {
			cfg.DB.Driver = DriverMemory
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("%w: DB_DSN required for postgres", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown DB_DRIVER %q", ErrInvalidConfig, c.DB.Driver)
	}

	switch c.Auth.Mode {
	case AuthDev:
	case AuthLocal:
		if strings.TrimSpace(c.Auth.JWTSecret) == "" {
			return fmt.Errorf("%w: JWT_SECRET required for local auth", ErrInvalidConfig)
		}
	case AuthGoTrue:
		if c.Auth.GoTrueURL == "" {
			return fmt.Errorf("%w: GOTRUE_URL required for gotrue auth", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown AUTH_MODE %q", ErrInvalidConfig, c.Auth.Mode)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("%w: PORT required", ErrInvalidConfig)
	}
	if c.Reminder.Interval <= 0 {
		return fmt.Errorf("%w: REMINDER_INTERVAL must be positive", ErrInvalidConfig)
	}
	if c.Reminder.Timezone != "" {
		if _, err := time.LoadLocation(c.Reminder.Timezone); err != nil {
			return fmt.Errorf("%w: REMINDER_TZ: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Location devuelve la zona por defecto de las sesiones de recordatorios.
func (r Reminder) Location() *time.Location {
	if r.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
