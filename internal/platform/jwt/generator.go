// Package jwtmw issues and verifies the optional device token that guards the HTTP API.
package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EnvKeyTokenSecret は署名鍵を設定する環境変数名です。未設定の場合は認証を行いません。
const EnvKeyTokenSecret = "API_TOKEN_SECRET"

// tokenScope はトークンのscopeクレームの値です。
const tokenScope = "stocklinker"

// Generator defines the interface for device token generation.
type Generator interface {
	// GenerateToken creates a signed JWT token for the given device.
	GenerateToken(deviceID string) (string, error)
}

// generator implements the Generator interface.
type generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
// A non-positive expiration produces tokens without an exp claim.
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken creates a signed JWT token with standard claims.
func (g *generator) GenerateToken(deviceID string) (string, error) {
	if deviceID == "" {
		return "", fmt.Errorf("device id is required")
	}

	now := g.now()
	claims := jwt.MapClaims{
		"sub":   deviceID,
		"iat":   now.Unix(),
		"scope": tokenScope,
	}
	if g.expiration > 0 {
		claims["exp"] = now.Add(g.expiration).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
