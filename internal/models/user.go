// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

// User is the identity record a Customer is bound to.
type User struct {
	BaseModel
	Username     string `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string `json:"email" gorm:"size:255"`
	PasswordHash string `json:"-" gorm:"size:255"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
