package utils

import (
	"errors"
	"time"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // unix timestamp
}

type tokenClaims struct {
	SubjectID string `json:"subject_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Section   string `json:"section"`
	Kind      string `json:"kind"` // "staff" | "student"
	Type      string `json:"type"` // "access" | "refresh"
	jwt.RegisteredClaims
}

func GenerateTokenPair(claims model.JWTClaims, secret string, expireHours, refreshExpHours int) (*TokenPair, error) {
	now := time.Now()
	accessExp := now.Add(time.Duration(expireHours) * time.Hour)
	refreshExp := now.Add(time.Duration(refreshExpHours) * time.Hour)

	accessToken, err := generateToken(claims, secret, accessExp, "access")
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateToken(claims, secret, refreshExp, "refresh")
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp.Unix(),
	}, nil
}

func generateToken(claims model.JWTClaims, secret string, exp time.Time, tokenType string) (string, error) {
	c := tokenClaims{
		SubjectID: claims.SubjectID,
		Name:      claims.Name,
		Role:      claims.Role,
		Section:   claims.Section,
		Kind:      claims.Kind,
		Type:      tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken checks bearer tokens on API requests. Refresh tokens
// are rejected here; they only ever reach the refresh endpoint.
func ValidateAccessToken(tokenString, secret string) (*model.JWTClaims, error) {
	return validateToken(tokenString, secret, "access")
}

// ValidateRefreshToken accepts only tokens minted as refresh tokens, so a
// leaked short-lived access token cannot be traded for a new pair.
func ValidateRefreshToken(tokenString, secret string) (*model.JWTClaims, error) {
	return validateToken(tokenString, secret, "refresh")
}

func validateToken(tokenString, secret, tokenType string) (*model.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Type != tokenType {
		return nil, errors.New("wrong token type")
	}

	return &model.JWTClaims{
		SubjectID: claims.SubjectID,
		Name:      claims.Name,
		Role:      claims.Role,
		Section:   claims.Section,
		Kind:      claims.Kind,
	}, nil
}
