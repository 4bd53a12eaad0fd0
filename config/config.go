package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	CORSOrigins        []string
	RateLimitPerMinute int64

	JWTAccessSecret   string
	JWTAccessTTLHours int

	// ✅ Event registry
	EnforceCapacity bool
	SeedEvents      bool
	Timezone        string

	// ✅ Postgres (audit logs only; optional)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// ✅ Redis Config
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ✅ Kafka Config
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// ✅ SMTP Config
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	// ✅ FCM Config
	FCMCredentialsPath string // Path to Firebase service account JSON
	FCMProjectID       string // Firebase Project ID (optional, can be in JSON)
}

// DevJWTSecret signs tokens when JWT_ACCESS_SECRET is unset. Local use only.
const DevJWTSecret = "eventease-dev-secret"

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 100)
	v.SetDefault("JWT_ACCESS_SECRET", DevJWTSecret)
	v.SetDefault("JWT_ACCESS_TTL_HOURS", 24)
	v.SetDefault("EVENTS_ENFORCE_CAPACITY", true)
	v.SetDefault("EVENTS_SEED", true)
	v.SetDefault("EVENTS_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_TOPIC", "campus.events")
	v.SetDefault("KAFKA_GROUP_ID", "eventease-notifications")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_FROM_NAME", "EventEase Team")
}

// Load reads .env (when present) and the environment and returns a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Port:      v.GetString("PORT"),
		GinMode:   v.GetString("GIN_MODE"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		CORSOrigins:        splitList(v.GetString("CORS_ORIGINS")),
		RateLimitPerMinute: v.GetInt64("RATE_LIMIT_PER_MINUTE"),

		JWTAccessSecret:   v.GetString("JWT_ACCESS_SECRET"),
		JWTAccessTTLHours: v.GetInt("JWT_ACCESS_TTL_HOURS"),

		EnforceCapacity: v.GetBool("EVENTS_ENFORCE_CAPACITY"),
		SeedEvents:      v.GetBool("EVENTS_SEED"),
		Timezone:        v.GetString("EVENTS_TIMEZONE"),

		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:   v.GetString("KAFKA_TOPIC"),
		KafkaGroupID: v.GetString("KAFKA_GROUP_ID"),

		SMTPHost:      v.GetString("SMTP_HOST"),
		SMTPPort:      v.GetString("SMTP_PORT"),
		SMTPUsername:  v.GetString("SMTP_USERNAME"),
		SMTPPassword:  v.GetString("SMTP_PASSWORD"),
		SMTPFromName:  v.GetString("SMTP_FROM_NAME"),
		SMTPFromEmail: v.GetString("SMTP_FROM_EMAIL"),

		FCMCredentialsPath: v.GetString("FCM_CREDENTIALS_PATH"),
		FCMProjectID:       v.GetString("FCM_PROJECT_ID"),
	}
}

// AccessTTL is the lifetime of issued access tokens.
func (c *Config) AccessTTL() time.Duration {
	if c.JWTAccessTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.JWTAccessTTLHours) * time.Hour
}

// Location resolves the configured event timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// InsecureJWTSecret reports a release build signing tokens with the
// built-in development secret.
func (c *Config) InsecureJWTSecret() bool {
	if c.GinMode != "release" {
		return false
	}
	return c.JWTAccessSecret == "" || c.JWTAccessSecret == DevJWTSecret
}

func (c *Config) DatabaseEnabled() bool { return c.DBHost != "" }
func (c *Config) RedisEnabled() bool    { return c.RedisAddr != "" }
func (c *Config) KafkaEnabled() bool    { return len(c.KafkaBrokers) > 0 }
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
