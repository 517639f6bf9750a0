package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/andrewpaige1/formbook-api/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("COOKIE_DOMAIN", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Env.IsDevelopment)
	assert.False(t, cfg.Env.CookieSecure)
	assert.Equal(t, "localhost", cfg.Env.Domain)
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("TOKEN_TTL", "forever")
	_, err := Load()
	require.Error(t, err)
}

func TestProductionEnvironment(t *testing.T) {
	t.Setenv("COOKIE_DOMAIN", ".formbook.app")
	env := LoadEnvironment()
	assert.False(t, env.IsDevelopment)
	assert.True(t, env.CookieSecure)
	assert.Equal(t, ".formbook.app", env.Domain)
}

func TestSeedTopicsIsIdempotent(t *testing.T) {
	db, err := Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	names, err := DefaultTopics()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	created, err := SeedTopics(db)
	require.NoError(t, err)
	assert.Equal(t, len(names), created)

	created, err = SeedTopics(db)
	require.NoError(t, err)
	assert.Zero(t, created)

	var count int64
	require.NoError(t, db.Model(&models.Topic{}).Count(&count).Error)
	assert.Equal(t, int64(len(names)), count)
}

func TestDatabaseLogsGoThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	db, err := Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	buf.Reset()

	var topic models.Topic
	err = db.Where("name = ?", "missing").First(&topic).Error
	require.Error(t, err)
	assert.Empty(t, buf.String(), "record not found should not be logged")

	err = db.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"component":"gorm"`)
	assert.Contains(t, buf.String(), "no_such_table")
}

func TestDuplicateKeyIsTranslated(t *testing.T) {
	db, err := Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&models.Topic{Name: "Quiz"}).Error)
	err = db.Create(&models.Topic{Name: "Quiz"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
