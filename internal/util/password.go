package util

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Characters that count as "special" for password strength.
const specialChars = `!@#$%^&*(),.?":{}|<>`

// ValidatePassword checks a password against the account policy:
// at least 8 characters, one uppercase, one lowercase, one digit and one
// special character. It returns the first failing rule only.
func ValidatePassword(pwd string) (bool, string) {
	if len(pwd) < 8 {
		return false, "Password must be at least 8 characters long."
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		case strings.ContainsRune(specialChars, ch):
			hasSpecial = true
		}
	}
	if !hasUpper {
		return false, "Password must contain at least one uppercase letter."
	}
	if !hasLower {
		return false, "Password must contain at least one lowercase letter."
	}
	if !hasDigit {
		return false, "Password must contain at least one digit."
	}
	if !hasSpecial {
		return false, "Password must contain at least one special character."
	}
	return true, ""
}

// HashPassword 使用 bcrypt 生成密码哈希。
func HashPassword(pwd string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword 验证明文密码与存储的哈希是否匹配。
func CheckPassword(pwd, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(pwd)) == nil
}
