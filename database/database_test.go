package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eventease/campus-backend/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "5433", DBUser: "app", DBPassword: "secret", DBName: "events"}
	assert.Equal(t, "host=db port=5433 user=app password=secret dbname=events sslmode=disable TimeZone=UTC", DSN(cfg))
}
