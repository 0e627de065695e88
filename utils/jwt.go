package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"docuhub/models"
)

// JWTSecret is set once at startup from configuration.
var JWTSecret []byte

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Claims struct {
	UserID       uint `json:"user_id"`
	TokenVersion int  `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWTToken issues an access/refresh token pair and persists the
// refresh token so it can be revoked later.
func GenerateJWTToken(db *gorm.DB, user *models.User, userAgent, ipAddress string) (string, string, error) {
	accessClaims := &Claims{
		UserID:       user.ID,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString(JWTSecret)
	if err != nil {
		return "", "", err
	}

	refreshClaims := &Claims{
		UserID:       user.ID,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(refreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString(JWTSecret)
	if err != nil {
		return "", "", err
	}

	record := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshTokenString,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := db.Create(&record).Error; err != nil {
		return "", "", err
	}

	return accessTokenString, refreshTokenString, nil
}

func ParseJWTToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return JWTSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// RefreshTokens rotates a refresh token. The stored record must exist and
// be unrevoked, and the claims must carry the user's current token version
// so a password reset invalidates outstanding sessions.
func RefreshTokens(db *gorm.DB, refreshToken, userAgent, ipAddress string) (string, string, error) {
	claims, err := ParseJWTToken(refreshToken)
	if err != nil {
		return "", "", err
	}

	var record models.RefreshToken
	if err := db.Where("token = ? AND is_revoked = ?", refreshToken, false).First(&record).Error; err != nil {
		return "", "", errors.New("refresh token revoked or unknown")
	}
	if time.Now().After(record.ExpiresAt) {
		return "", "", errors.New("refresh token expired")
	}

	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		return "", "", errors.New("user not found")
	}
	if claims.TokenVersion != user.TokenVersion {
		return "", "", errors.New("token superseded")
	}

	if err := db.Model(&record).Update("is_revoked", true).Error; err != nil {
		return "", "", err
	}

	return GenerateJWTToken(db, &user, userAgent, ipAddress)
}

// RevokeRefreshToken marks a stored refresh token as revoked. Unknown
// tokens are ignored so logout stays idempotent.
func RevokeRefreshToken(db *gorm.DB, refreshToken string) error {
	return db.Model(&models.RefreshToken{}).
		Where("token = ?", refreshToken).
		Update("is_revoked", true).Error
}
