package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	s := Load(":9999")

	assert.Equal(t, ":9999", s.HTTPAddr)
	assert.Equal(t, "review-events", s.ReviewTopic)
	assert.Equal(t, 72*time.Hour, s.GuestCartTTL)
	assert.Equal(t, 3, s.AllocateRetries)
	assert.Equal(t, "postgres", s.BookingStore)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("GUEST_CART_TTL", "90m")
	t.Setenv("ALLOCATE_RETRIES", "5")
	t.Setenv("BOOKING_STORE", "Memory")
	t.Setenv("PUBLIC_BASE_URL", "https://eat.example.com/")

	s := Load(":8081")

	assert.Equal(t, "db.internal", s.DBHost)
	assert.Equal(t, "localhost:6380", s.RedisAddr())
	assert.Equal(t, 90*time.Minute, s.GuestCartTTL)
	assert.Equal(t, 5, s.AllocateRetries)
	assert.Equal(t, "memory", s.BookingStore)
	assert.Equal(t, "https://eat.example.com", s.PublicBaseURL)
}

func TestPostgresDSN(t *testing.T) {
	s := Settings{DBHost: "h", DBPort: "1", DBUser: "u", DBPassword: "p", DBName: "n"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=n sslmode=disable", s.PostgresDSN())
}
