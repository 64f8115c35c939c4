package models

import (
	"os"
	"strings"

	"github.com/mmautosoft/dealership_backend/utils"
)

// User is one entry of the fixed operator list. There is no user table:
// credentials are seeded through the environment (ADMIN_USERNAME /
// ADMIN_PASSWORD_HASH, plus optional VIEWER_* pair) and checked against
// bcrypt hashes. cmd/seed-admin prints a hash for a new password.
type User struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}

func fixedUsers() []User {
	var users []User
	if name := strings.TrimSpace(os.Getenv("ADMIN_USERNAME")); name != "" {
		users = append(users, User{
			Username:     name,
			Role:         "admin",
			PasswordHash: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH")),
		})
	}
	if name := strings.TrimSpace(os.Getenv("VIEWER_USERNAME")); name != "" {
		users = append(users, User{
			Username:     name,
			Role:         "viewer",
			PasswordHash: strings.TrimSpace(os.Getenv("VIEWER_PASSWORD_HASH")),
		})
	}
	return users
}

// Authenticate validates the credential pair against the fixed user
// list. Unknown user and wrong password return the same error.
func Authenticate(username, password string) (*User, error) {
	for _, user := range fixedUsers() {
		if user.Username != username || user.PasswordHash == "" {
			continue
		}
		if utils.ComparePassword(user.PasswordHash, password) == nil {
			u := user
			return &u, nil
		}
	}
	return nil, utils.NotFoundErrorf("invalid username or password")
}
