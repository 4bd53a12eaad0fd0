package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg := FromViper(newViper(nil))

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.EnforceCapacity)
	assert.True(t, cfg.SeedEvents)
	assert.Equal(t, int64(100), cfg.RateLimitPerMinute)
	assert.Equal(t, "campus.events", cfg.KafkaTopic)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.DatabaseEnabled())
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.KafkaEnabled())
	assert.False(t, cfg.SMTPEnabled())
}

func TestFromViper_Overrides(t *testing.T) {
	cfg := FromViper(newViper(map[string]any{
		"KAFKA_BROKERS":           "kafka-1:9092, kafka-2:9092,",
		"EVENTS_ENFORCE_CAPACITY": "false",
		"REDIS_ADDR":              "localhost:6379",
		"JWT_ACCESS_TTL_HOURS":    "2",
	}))

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.EnforceCapacity)
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, 2*time.Hour, cfg.AccessTTL())
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestConfig_AccessTTLFallback(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 24*time.Hour, cfg.AccessTTL())
}

func TestConfig_InsecureJWTSecret(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		secret   string
		insecure bool
	}{
		{"release with default secret", "release", DevJWTSecret, true},
		{"release with empty secret", "release", "", true},
		{"release with real secret", "release", "s3cr3t-from-vault", false},
		{"debug with default secret", "debug", DevJWTSecret, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{GinMode: tt.mode, JWTAccessSecret: tt.secret}
			assert.Equal(t, tt.insecure, cfg.InsecureJWTSecret())
		})
	}

	assert.True(t, FromViper(newViper(nil)).InsecureJWTSecret())
}
