package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andrewpaige1/formbook-api/auth"
	"github.com/andrewpaige1/formbook-api/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	adminEmail    string
	adminPassword string
	adminName     string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or promote an existing one",
	RunE:  runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "account email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password for a new account")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name for a new account")
	_ = createAdminCmd.MarkFlagRequired("email")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	user, created, err := ensureAdmin(db, adminEmail, adminPassword, adminName)
	if err != nil {
		return err
	}
	if created {
		printf(cmd, "created admin %s (%s)\n", user.Email, user.PublicID)
	} else {
		printf(cmd, "promoted %s to admin\n", user.Email)
	}
	return nil
}

// ensureAdmin promotes and unblocks an existing account, or creates one
// when password is given.
func ensureAdmin(db *gorm.DB, email, password, name string) (*models.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, errors.New("email is required")
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		err = db.Model(&user).Updates(map[string]interface{}{"is_admin": true, "is_blocked": false}).Error
		return &user, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if password == "" {
		return nil, false, fmt.Errorf("no account for %s; --password is required to create one", email)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	if name == "" {
		name = strings.Split(email, "@")[0]
	}
	user = models.User{
		PublicID:     uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, false, err
	}
	return &user, true, nil
}
