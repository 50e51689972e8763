package security

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies signed session tokens. The signing key and
// token lifetime are fixed at construction; swapping the key means building a
// new service, call sites never touch it.
type TokenService struct {
	auth   *jwtauth.JWTAuth
	expiry time.Duration
}

func NewTokenService(key []byte, expiry time.Duration) *TokenService {
	return &TokenService{
		auth:   jwtauth.New("HS256", key, nil),
		expiry: expiry,
	}
}

// JWTAuth exposes the underlying verifier for the jwtauth router middleware.
func (ts *TokenService) JWTAuth() *jwtauth.JWTAuth {
	return ts.auth
}

func (ts *TokenService) GenerateToken(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     now.Add(ts.expiry).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := ts.auth.Encode(claims)
	return tokenString, err
}

// VerifyToken checks signature and expiry and returns the embedded subject.
// Malformed, forged, and expired tokens all come back as errors; callers do
// not distinguish between them.
func (ts *TokenService) VerifyToken(tokenString string) (userID, role string, err error) {
	token, err := jwtauth.VerifyToken(ts.auth, tokenString)
	if err != nil {
		return "", "", err
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return "", "", err
	}
	userID, err = GetUserIDFromClaims(claims)
	if err != nil {
		return "", "", err
	}
	role, err = GetUserRoleFromClaims(claims)
	if err != nil {
		return "", "", err
	}
	return userID, role, nil
}

// Helper functions to extract claims, can be used in middleware or services
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
