package auth

import (
	"time"

	"tugas-api/internal/apperrors"
	"tugas-api/internal/service"

	"github.com/golang-jwt/jwt/v4"
)

// TokenService menerbitkan dan memvalidasi bearer token HS256 berisi
// identitas user, role, dan waktu kedaluwarsa.
type TokenService struct {
	secretKey  []byte
	expireDays int
}

func NewTokenService(secretKey string, expireDays int) *TokenService {
	return &TokenService{
		secretKey:  []byte(secretKey),
		expireDays: expireDays,
	}
}

// CreateAccessToken membuat token dengan masa berlaku N hari dari sekarang.
func (s *TokenService) CreateAccessToken(userID, userRole string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   userID,
		"user_type": userRole,
		"exp":       time.Now().AddDate(0, 0, s.expireDays).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateAccessToken memverifikasi signature dan klaim token. Semua jenis
// kegagalan (token rusak, signature salah, kedaluwarsa, klaim hilang)
// dikembalikan sebagai Unauthorized yang sama, tanpa detail tambahan.
func (s *TokenService) ValidateAccessToken(tokenString string) (*service.Commons, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Unauthorized()
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized()
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.Unauthorized()
	}
	exp, ok := claims["exp"].(float64)
	if !ok || int64(exp) < time.Now().Unix() {
		return nil, apperrors.Unauthorized()
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, apperrors.Unauthorized()
	}
	userRole, _ := claims["user_type"].(string)
	return &service.Commons{UserID: userID, UserRole: userRole}, nil
}
