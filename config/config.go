package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Restaurant RestaurantConfig `mapstructure:"restaurant"`
	Log        LogConfig        `mapstructure:"log"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	Mode           string        `mapstructure:"mode"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type DBConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogLevel     string `mapstructure:"log_level"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CartTTL  time.Duration `mapstructure:"cart_ttl"`
}

// KafkaConfig enables the change-feed relay when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	// Provider is "local" or "firebase".
	Provider            string `mapstructure:"provider"`
	FirebaseCredentials string `mapstructure:"firebase_credentials"`
	FirebaseAPIKey      string `mapstructure:"firebase_api_key"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type RestaurantConfig struct {
	Name               string        `mapstructure:"name"`
	Timezone           string        `mapstructure:"timezone"`
	DailyCap           int           `mapstructure:"daily_cap"`
	LineCap            int           `mapstructure:"line_cap"`
	OpenHour           int           `mapstructure:"open_hour"`
	CloseHour          int           `mapstructure:"close_hour"`
	DepositRate        float64       `mapstructure:"deposit_rate"`
	DiscountRate       float64       `mapstructure:"discount_rate"`
	CancellationWindow time.Duration `mapstructure:"cancellation_window"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

type RateLimitConfig struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

// Location resolves the restaurant time zone, falling back to the server's.
func (r RestaurantConfig) Location() (*time.Location, error) {
	if r.Timezone == "" || strings.EqualFold(r.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid restaurant timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.request_timeout", 10*time.Second)

	v.SetDefault("db.dsn", "host=localhost user=postgres password=postgres dbname=digifood port=5432 sslmode=disable")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cart_ttl", 7*24*time.Hour)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "digifood.changes")
	v.SetDefault("kafka.group_id", "")

	v.SetDefault("auth.jwt_secret", "dev-insecure-secret-change-me")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.provider", "local")
	v.SetDefault("auth.firebase_credentials", "")
	v.SetDefault("auth.firebase_api_key", "")

	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password", "")

	v.SetDefault("restaurant.name", "DIGIFOOD")
	v.SetDefault("restaurant.timezone", "Local")
	v.SetDefault("restaurant.daily_cap", 10)
	v.SetDefault("restaurant.line_cap", 5)
	v.SetDefault("restaurant.open_hour", 11)
	v.SetDefault("restaurant.close_hour", 23)
	v.SetDefault("restaurant.deposit_rate", 0.5)
	v.SetDefault("restaurant.discount_rate", 0.10)
	v.SetDefault("restaurant.cancellation_window", 3*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("ratelimit.per_second", 1.0)
	v.SetDefault("ratelimit.burst", 5)
}

// LoadConfig loads configuration from config.yaml (optional) and environment
// variables prefixed with DIGIFOOD_. A few well-known variables are honoured
// without the prefix.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("/etc/digifood/")

	v.SetEnvPrefix("DIGIFOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range map[string]string{
		"admin.username":            "ADMIN_USERNAME",
		"admin.password":            "ADMIN_PASSWORD",
		"auth.jwt_secret":           "JWT_SECRET",
		"db.dsn":                    "DATABASE_URL",
		"auth.firebase_credentials": "GOOGLE_APPLICATION_CREDENTIALS",
	} {
		if err := v.BindEnv(key, "DIGIFOOD_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if _, err := cfg.Restaurant.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
