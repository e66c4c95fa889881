package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword meng-hash password dengan bcrypt.
// Salt baru di-generate otomatis setiap pemanggilan.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// VerifyPassword membandingkan password plaintext dengan hash yang tersimpan.
func VerifyPassword(password string, hashed []byte) bool {
	return bcrypt.CompareHashAndPassword(hashed, []byte(password)) == nil
}
