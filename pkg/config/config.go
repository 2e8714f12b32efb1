package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	API      APIConfig
	Session  SessionConfig
	Drafts   DraftStoreConfig
	DB       DBConfig
	Redis    RedisConfig
	Settings SettingsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// APIConfig datos de conexión con el backend del Sistema de Compras.
// InternalURL se usa cuando la web corre junto al backend (ej. misma red Docker).
type APIConfig struct {
	InternalURL string
	PublicURL   string
	Token       string
	Timeout     time.Duration
}

// BaseURL devuelve la URL interna si está definida; si no, la pública.
func (c APIConfig) BaseURL() string {
	if c.InternalURL != "" {
		return strings.TrimRight(c.InternalURL, "/")
	}
	return strings.TrimRight(c.PublicURL, "/")
}

// SessionConfig cookie de sesión firmada con HS256.
type SessionConfig struct {
	Secret       string
	CookieName   string
	TTLMinutes   int
	CookieSecure bool
	Issuer       string
}

// Backends soportados para persistir borradores de órdenes.
const (
	DraftStoreMemory   = "memory"
	DraftStorePostgres = "postgres"
	DraftStoreRedis    = "redis"
)

// DraftStoreConfig selecciona dónde se guardan los borradores entre recargas.
type DraftStoreConfig struct {
	Backend  string
	TTLHours int // expiración en redis; antigüedad máxima en postgres y memoria
	// IdleMinutes tiempo sin uso tras el cual el borrador de una sesión sale
	// de memoria (queda en el almacén y se restaura al volver).
	IdleMinutes int
}

// TTL antigüedad máxima de un borrador guardado.
func (c DraftStoreConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// Idle tiempo sin uso antes de liberar el workspace de una sesión.
func (c DraftStoreConfig) Idle() time.Duration {
	return time.Duration(c.IdleMinutes) * time.Minute
}

// DBConfig configuración de PostgreSQL (borradores persistidos).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string

	// Pool
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RedisConfig conexión a Redis (borradores persistidos).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SettingsConfig parámetros locales mientras no se cargan los del backend.
type SettingsConfig struct {
	DefaultIvaPercentage float64
	OrdersPageSize       int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, PUBLIC_API_URL, SESSION_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "sistema-compras"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 4321),
		},
		API: APIConfig{
			InternalURL: getString(v, "INTERNAL_API_URL", ""),
			PublicURL:   getString(v, "PUBLIC_API_URL", ""),
			Token:       getString(v, "API_TOKEN", ""),
			Timeout:     time.Duration(getInt(v, "API_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Session: SessionConfig{
			Secret:       getString(v, "SESSION_SECRET", ""),
			CookieName:   getString(v, "SESSION_COOKIE", "compras_sid"),
			TTLMinutes:   getInt(v, "SESSION_TTL_MINUTES", 480),
			CookieSecure: getBool(v, "SESSION_COOKIE_SECURE", false),
			Issuer:       getString(v, "SESSION_ISSUER", "sistema-compras"),
		},
		Drafts: DraftStoreConfig{
			Backend:     strings.ToLower(getString(v, "DRAFT_STORE", DraftStoreMemory)),
			TTLHours:    getInt(v, "DRAFT_TTL_HOURS", 72),
			IdleMinutes: getInt(v, "WORKSPACE_IDLE_MINUTES", 30),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "compras_web"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),

			MaxConns:        int32(getInt(v, "DB_MAX_CONNS", 10)),
			MinConns:        int32(getInt(v, "DB_MIN_CONNS", 1)),
			MaxConnLifetime: time.Duration(getInt(v, "DB_MAX_CONN_LIFETIME_MINUTES", 60)) * time.Minute,
			MaxConnIdleTime: time.Duration(getInt(v, "DB_MAX_CONN_IDLE_MINUTES", 30)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Settings: SettingsConfig{
			DefaultIvaPercentage: getFloat(v, "DEFAULT_IVA_PERCENTAGE", 16),
			OrdersPageSize:       getInt(v, "ORDERS_PAGE_SIZE", 5),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.API.BaseURL() == "" {
		return errors.New("variable de entorno para la API no definida: configure INTERNAL_API_URL o PUBLIC_API_URL")
	}
	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET es requerido")
	}
	if c.DB.MinConns > c.DB.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) no puede superar DB_MAX_CONNS (%d)", c.DB.MinConns, c.DB.MaxConns)
	}
	switch c.Drafts.Backend {
	case DraftStoreMemory, DraftStorePostgres, DraftStoreRedis:
	default:
		return fmt.Errorf("DRAFT_STORE inválido: %q", c.Drafts.Backend)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
