package cmd

import (
	"testing"

	"github.com/andrewpaige1/formbook-api/auth"
	"github.com/andrewpaige1/formbook-api/config"
	"github.com/andrewpaige1/formbook-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() { closeDatabase(db) })
	return db
}

func TestEnsureAdminCreates(t *testing.T) {
	db := testDB(t)

	user, created, err := ensureAdmin(db, " Root@Example.com ", "secret123", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "root@example.com", user.Email)
	assert.Equal(t, "root", user.Name)
	assert.True(t, user.IsAdmin)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "secret123"))
}

func TestEnsureAdminPromotesExisting(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Create(&models.User{
		PublicID: "u-1", Email: "ann@example.com", PasswordHash: []byte("x"), IsBlocked: true,
	}).Error)

	_, created, err := ensureAdmin(db, "ann@example.com", "", "")
	require.NoError(t, err)
	assert.False(t, created)

	var stored models.User
	require.NoError(t, db.Where("email = ?", "ann@example.com").First(&stored).Error)
	assert.True(t, stored.IsAdmin)
	assert.False(t, stored.IsBlocked)
}

func TestEnsureAdminNeedsPasswordForNewAccount(t *testing.T) {
	db := testDB(t)
	_, _, err := ensureAdmin(db, "new@example.com", "", "")
	assert.Error(t, err)

	_, _, err = ensureAdmin(db, "  ", "secret123", "")
	assert.Error(t, err)
}

func TestRootRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "seed", "create-admin"} {
		assert.True(t, names[want], want)
	}
}
