package auth

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword создает bcrypt хеш пароля
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

var (
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasDigit   = regexp.MustCompile(`\d`)
	hasSpecial = regexp.MustCompile(`[@#$%^&*!]`)
)

// ValidatePassword проверяет сложность пароля: 8-20 символов,
// заглавная, строчная, цифра и спецсимвол (@#$%^&*!)
func ValidatePassword(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return errors.New("password must be between 8 and 20 characters")
	}
	if !hasUpper.MatchString(password) || !hasLower.MatchString(password) ||
		!hasDigit.MatchString(password) || !hasSpecial.MatchString(password) {
		return errors.New("password must contain uppercase, lowercase, number, and special character (@#$%^&*!)")
	}
	return nil
}
