package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("FEED_PAGE_SIZE", "25")

	cfg := Load()

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, 25, cfg.FeedPageSize)
	assert.Equal(t, defaultDSN, cfg.DatabaseDSN)
	assert.Equal(t, "acente", cfg.MongoDBName)
	assert.Equal(t, "0 */30 * * * *", cfg.ExchangeRateCron)
}

func TestLoad_InvalidPageSizeFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("FEED_PAGE_SIZE", "0")

	assert.Equal(t, 10, Load().FeedPageSize)
}
